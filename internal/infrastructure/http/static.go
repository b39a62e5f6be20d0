// ABOUTME: Static rendering of the station site for plain file hosting
// ABOUTME: Writes the index, one directory per station and a 404 page atomically
package http

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/oszuidwest/radio-site/internal/application/manager"
	"github.com/oszuidwest/radio-site/internal/infrastructure/logging"
)

// Export renders every page of the site into outDir and returns the written
// paths relative to outDir. Station pages live at <slug>/index.html so the
// same /<slug> links work on any static host. Without a server there is no
// listen redirect, so the stream link points at the stream itself.
func Export(mgr *manager.Manager, outDir string) ([]string, error) {
	logger := logging.WithComponent("export")
	h := NewPageHandler(mgr)

	var written []string
	write := func(rel string, data []byte) error {
		path := filepath.Join(outDir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create directory for %s: %w", rel, err)
		}
		// temp file, fsync and rename in one go
		if err := renameio.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", rel, err)
		}
		written = append(written, rel)
		return nil
	}

	stations := mgr.All()

	index, err := renderPage("index.html", pageData{Stations: stations})
	if err != nil {
		return written, fmt.Errorf("render index: %w", err)
	}
	if err := write("index.html", index); err != nil {
		return written, err
	}

	for _, st := range stations {
		page, err := renderPage("station.html", h.stationPage(st, st.StreamURL))
		if err != nil {
			return written, fmt.Errorf("render %s: %w", st.Slug, err)
		}
		if err := write(filepath.Join(st.Slug, "index.html"), page); err != nil {
			return written, err
		}
		if err := write(filepath.Join(st.Slug, "styles.css"), []byte(mgr.Theme().Stylesheet(st))); err != nil {
			return written, err
		}
	}

	notFound, err := renderPage("notfound.html", pageData{Stations: stations})
	if err != nil {
		return written, fmt.Errorf("render 404: %w", err)
	}
	if err := write("404.html", notFound); err != nil {
		return written, err
	}

	logger.Info().
		Str("out", outDir).
		Int("stations", len(stations)).
		Int("files", len(written)).
		Msg("site exported")

	return written, nil
}
