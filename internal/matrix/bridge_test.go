package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"maunium.net/go/mautrix/id"

	"github.com/ibm-watson-data-lab/healthbot/internal/config"
)

func testBridge(t *testing.T, cfg config.MatrixConfig) *Bridge {
	t.Helper()
	if cfg.Homeserver == "" {
		cfg.Homeserver = "https://matrix.example.com"
	}
	if cfg.UserID == "" {
		cfg.UserID = "@healthbot:example.com"
	}
	if cfg.AccessToken == "" {
		cfg.AccessToken = "token"
	}

	b, err := NewBridge(cfg, nil)
	require.NoError(t, err)
	return b
}

func TestNewBridge(t *testing.T) {
	b := testBridge(t, config.MatrixConfig{})
	assert.NotNil(t, b.matrix)
}

func TestNewBridge_BadHomeserver(t *testing.T) {
	_, err := NewBridge(config.MatrixConfig{
		Homeserver:  "://not-a-url",
		UserID:      "@healthbot:example.com",
		AccessToken: "token",
	}, nil)
	assert.Error(t, err)
}

func TestIsUserAllowed_NoFilter(t *testing.T) {
	b := testBridge(t, config.MatrixConfig{})
	assert.True(t, b.isUserAllowed("@anyone:example.com"))
}

func TestIsUserAllowed_WithFilter(t *testing.T) {
	b := testBridge(t, config.MatrixConfig{
		AllowedUsers: []string{"@alice:example.com", "@bob:example.com"},
	})
	assert.True(t, b.isUserAllowed("@alice:example.com"))
	assert.False(t, b.isUserAllowed("@mallory:example.com"))
}

func TestIsDirectRoom_UsesCache(t *testing.T) {
	b := testBridge(t, config.MatrixConfig{})

	b.directRooms.Store(id.RoomID("!room:example.com"), true)
	assert.True(t, b.isDirectRoom("!room:example.com"))

	b.directRooms.Store(id.RoomID("!group:example.com"), false)
	assert.False(t, b.isDirectRoom("!group:example.com"))
}
