// ABOUTME: Site manager assembling the station directory and presentation services
// ABOUTME: Built once from config; read-only afterwards
package manager

import (
	"fmt"

	"github.com/oszuidwest/radio-site/internal/application/config"
	"github.com/oszuidwest/radio-site/internal/domain/station"
	"github.com/oszuidwest/radio-site/internal/infrastructure/image"
	"github.com/oszuidwest/radio-site/internal/infrastructure/theme"
)

type Manager struct {
	directory *station.Directory
	theme     *theme.Theme
	images    image.Service
	site      config.SiteConfig
}

// NewFromConfig builds the directory from cfg.Stations, falling back to the
// built-in table when the config lists none.
func NewFromConfig(cfg *config.Config) (*Manager, error) {
	dir := station.Default()
	if len(cfg.Stations) > 0 {
		d, err := station.NewDirectory(cfg.Stations)
		if err != nil {
			return nil, fmt.Errorf("build station directory: %w", err)
		}
		dir = d
	}

	th, err := theme.New(theme.DarkMode(cfg.Site.DarkMode), theme.InlineMode(cfg.Site.InlineStylesheets))
	if err != nil {
		return nil, fmt.Errorf("create theme: %w", err)
	}

	images, err := image.New(cfg.Site.ImageService)
	if err != nil {
		return nil, fmt.Errorf("create image service: %w", err)
	}

	return &Manager{
		directory: dir,
		theme:     th,
		images:    images,
		site:      cfg.Site,
	}, nil
}

func (m *Manager) Lookup(slug string) (station.Station, bool) {
	return m.directory.Lookup(slug)
}

func (m *Manager) All() []station.Station {
	return m.directory.All()
}

func (m *Manager) Directory() *station.Directory {
	return m.directory
}

func (m *Manager) Theme() *theme.Theme {
	return m.theme
}

func (m *Manager) Images() image.Service {
	return m.images
}

func (m *Manager) Site() config.SiteConfig {
	return m.site
}
