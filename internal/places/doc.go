// Package places is the boundary to the places-lookup service.
//
// The bot's location-based action handler uses the Finder interface to turn
// a category plus a location string into a list of named venues. The only
// implementation is FoursquareClient, backed by the Foursquare v2
// venues/search endpoint. An unconfigured lookup is represented upstream by
// a nil Finder, not by an error from this package.
package places
