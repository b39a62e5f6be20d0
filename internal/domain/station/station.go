// ABOUTME: Station record and the immutable directory that resolves stations by slug
// ABOUTME: Built once at startup, read concurrently without locks afterwards
package station

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
)

var (
	ErrDuplicateSlug  = errors.New("duplicate station slug")
	ErrInvalidStation = errors.New("invalid station")
)

var (
	slugPattern  = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
	colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Station is the presentation metadata for one radio station.
type Station struct {
	Slug           string `json:"slug" yaml:"slug"`
	StreamURL      string `json:"stream_url" yaml:"stream_url"`
	StreamName     string `json:"stream_name" yaml:"stream_name"`
	Name           string `json:"name" yaml:"name"`
	Bluesky        string `json:"bluesky" yaml:"bluesky"`
	Color          string `json:"color" yaml:"color"`
	ColorDark      string `json:"color_dark" yaml:"color_dark"`
	OpenGraphImage string `json:"open_graph_image" yaml:"open_graph_image"`
	FaviconURL     string `json:"favicon_url" yaml:"favicon_url"`
	LogoURL        string `json:"logo_url" yaml:"logo_url"` // square, used for media controls
}

// Validate reports the first field that is missing or malformed.
func (s Station) Validate() error {
	required := []struct {
		name, value string
	}{
		{"slug", s.Slug},
		{"stream_url", s.StreamURL},
		{"stream_name", s.StreamName},
		{"name", s.Name},
		{"bluesky", s.Bluesky},
		{"color", s.Color},
		{"color_dark", s.ColorDark},
		{"open_graph_image", s.OpenGraphImage},
		{"favicon_url", s.FaviconURL},
		{"logo_url", s.LogoURL},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w %q: %s is empty", ErrInvalidStation, s.Slug, f.name)
		}
	}

	if !slugPattern.MatchString(s.Slug) {
		return fmt.Errorf("%w %q: slug must match %s", ErrInvalidStation, s.Slug, slugPattern)
	}

	for _, c := range []struct{ name, value string }{{"color", s.Color}, {"color_dark", s.ColorDark}} {
		if !colorPattern.MatchString(c.value) {
			return fmt.Errorf("%w %q: %s %q is not a hex color", ErrInvalidStation, s.Slug, c.name, c.value)
		}
	}

	urls := []struct{ name, value string }{
		{"stream_url", s.StreamURL},
		{"open_graph_image", s.OpenGraphImage},
		{"favicon_url", s.FaviconURL},
		{"logo_url", s.LogoURL},
	}
	for _, u := range urls {
		if err := checkURL(u.value); err != nil {
			return fmt.Errorf("%w %q: %s: %v", ErrInvalidStation, s.Slug, u.name, err)
		}
	}

	return nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	// pages only load https media and images
	if u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

// Directory is an ordered, read-only table of stations.
type Directory struct {
	stations []Station
}

// NewDirectory validates records and copies them into a new directory.
func NewDirectory(records []Station) (*Directory, error) {
	seen := make(map[string]struct{}, len(records))
	stations := make([]Station, 0, len(records))

	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[rec.Slug]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateSlug, rec.Slug)
		}
		seen[rec.Slug] = struct{}{}
		stations = append(stations, rec)
	}

	return &Directory{stations: stations}, nil
}

// MustNewDirectory is NewDirectory for tables compiled into the binary.
func MustNewDirectory(records []Station) *Directory {
	d, err := NewDirectory(records)
	if err != nil {
		panic(fmt.Sprintf("station: %v", err))
	}
	return d
}

// Lookup returns the first station whose slug equals slug exactly.
// The boolean is false when no station matches.
func (d *Directory) Lookup(slug string) (Station, bool) {
	if d == nil {
		return Station{}, false
	}
	for _, s := range d.stations {
		if s.Slug == slug {
			return s, true
		}
	}
	return Station{}, false
}

// All returns a copy of the table in directory order.
func (d *Directory) All() []Station {
	if d == nil {
		return []Station{}
	}
	out := make([]Station, len(d.stations))
	copy(out, d.stations)
	return out
}

// Slugs returns the station slugs in directory order.
func (d *Directory) Slugs() []string {
	if d == nil {
		return []string{}
	}
	out := make([]string, 0, len(d.stations))
	for _, s := range d.stations {
		out = append(out, s.Slug)
	}
	return out
}

// Len is the number of stations.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.stations)
}
