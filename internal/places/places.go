// ABOUTME: Finder interface and venue type for the places-lookup boundary
// ABOUTME: Consumed by the bot's location-based action handler

package places

import "context"

// Venue is a named place returned by a search.
type Venue struct {
	Name    string
	Address string
}

// Finder is the boundary to the places-lookup service. An empty result is
// not an error.
type Finder interface {
	// Search returns venues matching the free-text query near the given
	// location, within radius meters.
	Search(ctx context.Context, query, near string, radius int) ([]Venue, error)
}
