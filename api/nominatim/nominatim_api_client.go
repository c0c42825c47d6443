package nominatim

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"burnai-server/api"
	"burnai-server/geo"
	"burnai-server/mapsdk"
	"burnai-server/models"
)

const defaultLimit = 5

var ErrEmptyQuery = errors.New("search query is empty")

// searchResult is a single jsonv2 search hit
type searchResult struct {
	DisplayName string   `json:"display_name"`
	Lat         string   `json:"lat"`
	Lon         string   `json:"lon"`
	BoundingBox []string `json:"boundingbox"`
}

// NominatimApiClient embeds the common HTTPClient
type NominatimApiClient struct {
	*api.HTTPClient
	limit int
}

// NewNominatimApiClient creates a new instance of NominatimApiClient
func NewNominatimApiClient(httpClient *api.HTTPClient, userAgent string) *NominatimApiClient {
	httpClient.UserAgent = userAgent
	return &NominatimApiClient{HTTPClient: httpClient, limit: defaultLimit}
}

// Search queries /search. A non-empty bias is passed as an unbounded viewbox.
func (c *NominatimApiClient) Search(ctx context.Context, query string, bias geo.Bounds) ([]mapsdk.Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", strconv.Itoa(c.limit))
	if !bias.IsEmpty() {
		bb := bias.BoundingBox()
		params.Set("viewbox", fmt.Sprintf("%s,%s,%s,%s", ftoa(bb.West), ftoa(bb.North), ftoa(bb.East), ftoa(bb.South)))
		params.Set("bounded", "0")
	}

	var results []searchResult
	if err := c.Request(ctx, http.MethodGet, "/search?"+params.Encode(), nil, nil, &results); err != nil {
		log.Printf("[NominatimApiClient] Search for %q failed: %v", query, err)
		return nil, err
	}

	places := make([]mapsdk.Place, 0, len(results))
	for _, r := range results {
		places = append(places, toPlace(r))
	}
	log.Printf("[NominatimApiClient] Search for %q returned %d places", query, len(places))
	return places, nil
}

// toPlace converts a hit. Unparseable coordinates leave the geometry nil.
func toPlace(r searchResult) mapsdk.Place {
	place := mapsdk.Place{Name: r.DisplayName}

	lat, errLat := strconv.ParseFloat(r.Lat, 64)
	lng, errLng := strconv.ParseFloat(r.Lon, 64)
	if errLat != nil || errLng != nil {
		return place
	}

	geometry := &mapsdk.PlaceGeometry{Location: &models.LatLng{Lat: lat, Lng: lng}}
	if viewport, ok := parseBoundingBox(r.BoundingBox); ok {
		geometry.Viewport = &viewport
	}
	place.Geometry = geometry
	return place
}

// parseBoundingBox reads Nominatim's [south, north, west, east] strings.
func parseBoundingBox(raw []string) (geo.Bounds, bool) {
	if len(raw) != 4 {
		return geo.Bounds{}, false
	}
	vals := make([]float64, 4)
	for i, s := range raw {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return geo.Bounds{}, false
		}
		vals[i] = v
	}
	b := geo.NewBounds(models.LatLng{Lat: vals[0], Lng: vals[2]}, models.LatLng{Lat: vals[1], Lng: vals[3]})
	if b.IsEmpty() {
		return geo.Bounds{}, false
	}
	return b, true
}

// ftoa formats a coordinate to 6 decimals (about 0.1 m) without trailing
// zeros, dropping the float noise of the radian round trip in geo.Bounds.
func ftoa(v float64) string {
	out := strings.TrimRight(strconv.FormatFloat(v, 'f', 6, 64), "0")
	out = strings.TrimSuffix(out, ".")
	if out == "-0" {
		return "0"
	}
	return out
}
