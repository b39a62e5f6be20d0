// ABOUTME: Image services that turn asset sources into the URLs pages reference
// ABOUTME: Only the noop service is registered; it serves sources unchanged
package image

import (
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownService = errors.New("unknown image service")

// Options are the transform hints a page may pass. Services are free to
// ignore them.
type Options struct {
	Width  int
	Height int
	Format string
}

type Service interface {
	Name() string
	URL(src string, opts Options) string
}

// Noop returns every source untouched.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) URL(src string, _ Options) string { return src }

var registry = map[string]func() Service{
	"noop": func() Service { return Noop{} },
}

// New returns the service registered under name.
func New(name string) (Service, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownService, name, Names())
	}
	return factory(), nil
}

// Names lists registered services in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
