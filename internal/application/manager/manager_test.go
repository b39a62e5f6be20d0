// ABOUTME: Tests for site manager assembly
// ABOUTME: Verifies built-in fallback, config override and construction errors
package manager

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oszuidwest/radio-site/internal/application/config"
	"github.com/oszuidwest/radio-site/internal/domain"
	"github.com/oszuidwest/radio-site/internal/domain/station"
	"github.com/oszuidwest/radio-site/internal/infrastructure/image"
)

var _ domain.StationLookup = (*Manager)(nil)

func customStation() station.Station {
	return station.Station{
		Slug:           "custom",
		StreamURL:      "https://audio.example.com/custom",
		StreamName:     "custom",
		Name:           "Custom Radio",
		Bluesky:        "custom.bsky.social",
		Color:          "#123",
		ColorDark:      "#012",
		OpenGraphImage: "https://img.example.com/og.jpg",
		FaviconURL:     "https://img.example.com/favicon.ico",
		LogoURL:        "https://img.example.com/logo.png",
	}
}

func TestNewFromConfig_Builtin(t *testing.T) {
	mgr, err := NewFromConfig(config.Default())
	require.NoError(t, err)

	s, ok := mgr.Lookup("zwfm")
	require.True(t, ok)
	assert.Equal(t, "ZuidWest FM", s.Name)
	assert.Equal(t, station.Default().Len(), len(mgr.All()))
	assert.Equal(t, "noop", mgr.Images().Name())
	assert.NotNil(t, mgr.Theme())
	assert.Equal(t, config.OutputServer, mgr.Site().Output)
}

func TestNewFromConfig_StationOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Stations = []station.Station{customStation()}

	mgr, err := NewFromConfig(cfg)
	require.NoError(t, err)

	_, ok := mgr.Lookup("zwfm")
	assert.False(t, ok)
	s, ok := mgr.Lookup("custom")
	require.True(t, ok)
	assert.Equal(t, "Custom Radio", s.Name)
	assert.Equal(t, 1, mgr.Directory().Len())
}

func TestNewFromConfig_DuplicateStations(t *testing.T) {
	cfg := config.Default()
	cfg.Stations = []station.Station{customStation(), customStation()}

	_, err := NewFromConfig(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, station.ErrDuplicateSlug))
}

func TestNewFromConfig_UnknownImageService(t *testing.T) {
	cfg := config.Default()
	cfg.Site.ImageService = "sharp"

	_, err := NewFromConfig(cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, image.ErrUnknownService))
}
