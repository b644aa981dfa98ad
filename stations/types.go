package stations

import (
	"context"
	"errors"

	"github.com/theoremus-urban-solutions/stop-proximity/geo"
)

// ErrEmptyQuery is returned for blank search input before any lookup is made.
var ErrEmptyQuery = errors.New("search query is empty")

// Station is a candidate destination. It is immutable once selected; picking
// a new station replaces the value wholesale.
type Station struct {
	Name    string    `json:"name"`
	Address string    `json:"address,omitempty"`
	Point   geo.Point `json:"point"`

	// Transit marks results whose source metadata identifies a
	// public-transit stop. Weight is the source ranking weight
	// (Nominatim importance, 0 for GTFS stops).
	Transit bool    `json:"transit"`
	Weight  float64 `json:"weight,omitempty"`
}

// SearchService resolves a free-text query to a ranked, de-duplicated set of
// candidate stations. No match yields an empty slice, not an error.
type SearchService interface {
	Search(ctx context.Context, query string) ([]Station, error)
}
