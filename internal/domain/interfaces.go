// ABOUTME: Domain interfaces for dependency inversion
// ABOUTME: Lets the web layer depend on lookups, not on how the table was built
package domain

import "github.com/oszuidwest/radio-site/internal/domain/station"

// StationLookup resolves stations by slug. Implementations must be safe for
// concurrent readers.
type StationLookup interface {
	Lookup(slug string) (station.Station, bool)
	All() []station.Station
}
