package nominatim

import (
	"context"

	"burnai-server/geo"
	"burnai-server/mapsdk"
)

// Geocoder resolves free-text queries to places, biased toward a viewport.
type Geocoder interface {
	Search(ctx context.Context, query string, bias geo.Bounds) ([]mapsdk.Place, error)
}
