// Package matrix bridges a Matrix account to the bot core.
//
// The bridge syncs against the homeserver, auto-joins rooms it is invited
// to, and relays text messages from direct (two-member) rooms through
// Bot.ProcessMessage, sending the reply back to the room. Group rooms and
// non-text events are ignored. Shutdown is cooperative via context
// cancellation of the sync loop.
package matrix
