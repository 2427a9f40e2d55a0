// ABOUTME: Foursquare venue search client implementing the Finder interface
// ABOUTME: Queries the v2 venues/search endpoint with client credentials

package places

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.foursquare.com"
	apiVersion     = "20170421"
	defaultTimeout = 15 * time.Second
)

// FoursquareClient implements Finder against the Foursquare v2 venue search API.
type FoursquareClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	http         *http.Client
}

// FoursquareOption customizes a FoursquareClient.
type FoursquareOption func(*FoursquareClient)

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(u string) FoursquareOption {
	return func(c *FoursquareClient) {
		c.baseURL = u
	}
}

// NewFoursquareClient creates a Foursquare venue search client.
func NewFoursquareClient(clientID, clientSecret string, opts ...FoursquareOption) (*FoursquareClient, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("foursquare client id and secret are required")
	}

	c := &FoursquareClient{
		baseURL:      defaultBaseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		http:         &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// searchResponse is the subset of the venues/search payload we read.
type searchResponse struct {
	Response struct {
		Venues []struct {
			Name     string `json:"name"`
			Location struct {
				Address string `json:"address"`
			} `json:"location"`
		} `json:"venues"`
	} `json:"response"`
}

// Search queries venues/search and returns the venues in API order.
func (c *FoursquareClient) Search(ctx context.Context, query, near string, radius int) ([]Venue, error) {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("client_secret", c.clientSecret)
	params.Set("v", apiVersion)
	params.Set("query", query)
	params.Set("near", near)
	params.Set("radius", strconv.Itoa(radius))

	endpoint := c.baseURL + "/v2/venues/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching venues: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("places service returned status %d", resp.StatusCode)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	venues := make([]Venue, 0, len(parsed.Response.Venues))
	for _, v := range parsed.Response.Venues {
		venues = append(venues, Venue{Name: v.Name, Address: v.Location.Address})
	}
	return venues, nil
}
