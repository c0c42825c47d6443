package mapsession

import (
	"burnai-server/config"
	"burnai-server/mapsdk"
	"burnai-server/models"
)

// Default view and anchors for a burn map.
const (
	DefaultLat          = 37.7749
	DefaultLng          = -122.4194
	DefaultZoom         = 13
	DefaultMaxPlaceZoom = 14

	MapAnchorID    = "map"
	SearchAnchorID = "map-search"
)

// burnGradient runs from transparent green to red with increasing burn potential.
var burnGradient = [...]string{
	"rgba(0, 255, 0, 0)",
	"rgba(0, 255, 0, 1)",
	"rgba(255, 255, 0, 1)",
	"rgba(255, 0, 0, 1)",
}

// BurnGradient returns the four fixed heatmap color stops in order.
func BurnGradient() []string {
	out := make([]string, len(burnGradient))
	copy(out, burnGradient[:])
	return out
}

// Options configures a Controller.
type Options struct {
	Loader         mapsdk.LoaderOptions
	MapAnchorID    string
	SearchAnchorID string
	Center         models.LatLng
	Zoom           int
	// MaxPlaceZoom caps the zoom applied after fitting to selected places.
	MaxPlaceZoom int
}

// DefaultOptions returns the options used when nothing else is supplied.
func DefaultOptions(apiKey string) Options {
	return Options{
		Loader: mapsdk.LoaderOptions{
			APIKey:    apiKey,
			Version:   config.MAPS_SDK_VERSION,
			Libraries: []string{"places", "visualization"},
			Language:  config.MAPS_SDK_LANGUAGE,
			Region:    config.MAPS_SDK_REGION,
			Retries:   config.MAPS_SDK_LOAD_RETRIES,
		},
		MapAnchorID:    MapAnchorID,
		SearchAnchorID: SearchAnchorID,
		Center:         models.LatLng{Lat: DefaultLat, Lng: DefaultLng},
		Zoom:           DefaultZoom,
		MaxPlaceZoom:   DefaultMaxPlaceZoom,
	}
}

// MapOptions builds the map-construction request: POI labels hidden and the
// SDK's own map-type, fullscreen and street-view chrome disabled.
func (o Options) MapOptions() mapsdk.MapOptions {
	return mapsdk.MapOptions{
		Center:                   o.Center,
		Zoom:                     o.Zoom,
		DisableMapTypeControl:    true,
		DisableFullscreenControl: true,
		DisableStreetViewControl: true,
		Styles: []mapsdk.StyleRule{
			{FeatureType: "poi", ElementType: "labels", Visibility: "off"},
		},
	}
}
