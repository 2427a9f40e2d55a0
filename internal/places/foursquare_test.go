package places

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFoursquareClient_RequiresCredentials(t *testing.T) {
	_, err := NewFoursquareClient("", "secret")
	assert.Error(t, err)

	_, err = NewFoursquareClient("id", "")
	assert.Error(t, err)
}

func TestFoursquareClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/venues/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "id-1", q.Get("client_id"))
		assert.Equal(t, "secret-1", q.Get("client_secret"))
		assert.Equal(t, "Cardiologist Doctor", q.Get("query"))
		assert.Equal(t, "Boston", q.Get("near"))
		assert.Equal(t, "5000", q.Get("radius"))

		w.Write([]byte(`{"response":{"venues":[
			{"name":"Dr. A","location":{"address":"1 Main St"}},
			{"name":"Dr. B","location":{}}
		]}}`))
	}))
	defer server.Close()

	client, err := NewFoursquareClient("id-1", "secret-1", WithBaseURL(server.URL))
	require.NoError(t, err)

	venues, err := client.Search(context.Background(), "Cardiologist Doctor", "Boston", 5000)
	require.NoError(t, err)
	require.Len(t, venues, 2)
	assert.Equal(t, "Dr. A", venues[0].Name)
	assert.Equal(t, "1 Main St", venues[0].Address)
	assert.Equal(t, "Dr. B", venues[1].Name)
}

func TestFoursquareClient_Search_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"venues":[]}}`))
	}))
	defer server.Close()

	client, err := NewFoursquareClient("id", "secret", WithBaseURL(server.URL))
	require.NoError(t, err)

	venues, err := client.Search(context.Background(), "Doctor", "Nowhere", 5000)
	require.NoError(t, err)
	assert.Empty(t, venues)
}

func TestFoursquareClient_Search_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewFoursquareClient("id", "secret", WithBaseURL(server.URL))
	require.NoError(t, err)

	_, err = client.Search(context.Background(), "Doctor", "Boston", 5000)
	assert.Error(t, err)
}
