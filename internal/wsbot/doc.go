// Package wsbot exposes the bot to browser clients over websockets.
//
// The protocol is two JSON envelope kinds: ping, answered in kind as a
// keepalive, and msg, which carries the user's text in and the reply text
// plus the raw dialog-engine payload (watsonData) back out. Each connection
// gets its own blocking read loop; turns within one connection are
// sequential, connections are independent. Clients that send no userId are
// assigned a generated one per connection.
package wsbot
