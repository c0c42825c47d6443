package nominatim

import (
	"context"
	"log"
	"strings"

	"burnai-server/geo"
	"burnai-server/mapsdk"
	"burnai-server/util"
)

// NominatimApiClientMock answers searches from a places fixture on disk
type NominatimApiClientMock struct {
	placesPath string
}

// NewNominatimApiClientMock creates a new instance of NominatimApiClientMock
func NewNominatimApiClientMock(placesPath string) *NominatimApiClientMock {
	return &NominatimApiClientMock{placesPath: placesPath}
}

// Search returns fixture places whose name contains query, case-insensitively.
// The bias is ignored.
func (c *NominatimApiClientMock) Search(ctx context.Context, query string, bias geo.Bounds) ([]mapsdk.Place, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, ErrEmptyQuery
	}

	places, err := util.ReadPlacesFromJSON(c.placesPath)
	if err != nil {
		log.Println("[NominatimApiClientMock] Could not read places fixture:", err)
		return nil, err
	}

	matched := make([]mapsdk.Place, 0, len(places))
	for _, p := range places {
		if strings.Contains(strings.ToLower(p.Name), query) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}
