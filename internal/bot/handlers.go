// ABOUTME: Action handlers producing reply text from a dialog response
// ABOUTME: Default text passthrough plus the findDoctorByLocation places lookup

package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/ibm-watson-data-lab/healthbot/internal/dialog"
)

// actionFindDoctorByLocation is set by the dialog design when the user asked
// for a doctor near a location.
const actionFindDoctorByLocation = "findDoctorByLocation"

const (
	configurePlacesReply = "Please configure Foursquare."
	noneFoundReply       = "Sorry, I couldn't find any doctors near you."
	foundHeader          = "Here is what I found:"

	// searchRadiusMeters bounds the venue search around the user's location.
	searchRadiusMeters = 5000

	// locationEntityKind tags entities the engine recognized as locations.
	locationEntityKind = "sys-location"
)

// handleDefault returns the reply configured in the dialog design: every
// output text segment in engine order, each terminated with a newline.
func (b *Bot) handleDefault(_ context.Context, resp *dialog.Response) (string, error) {
	var sb strings.Builder
	for _, line := range resp.Output.Text {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// handleFindDoctorByLocation queries the places service for doctors matching
// the specialty the dialog identified, near the location the user entered.
func (b *Bot) handleFindDoctorByLocation(ctx context.Context, resp *dialog.Response) (string, error) {
	if b.places == nil {
		return configurePlacesReply, nil
	}

	query := "Doctor"
	if specialty := dialog.Specialty(resp.Context); specialty != "" {
		query = specialty + " Doctor"
	}

	var parts []string
	for _, entity := range resp.Entities {
		if entity.Entity == locationEntityKind {
			parts = append(parts, entity.Value)
		}
	}
	location := strings.Join(parts, " ")

	venues, err := b.places.Search(ctx, query, location, searchRadiusMeters)
	if err != nil {
		return "", fmt.Errorf("places search: %w", err)
	}
	if len(venues) == 0 {
		return noneFoundReply, nil
	}

	var sb strings.Builder
	sb.WriteString(foundHeader)
	for _, venue := range venues {
		sb.WriteString("\n* ")
		sb.WriteString(venue.Name)
	}
	return sb.String(), nil
}
