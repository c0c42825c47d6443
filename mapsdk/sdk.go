// Package mapsdk describes the external mapping SDK the map lifecycle
// controller drives: loading, widget construction, place search, heatmap
// overlay and markers. Implementations live in subpackages.
package mapsdk

import (
	"context"
	"errors"

	"burnai-server/geo"
	"burnai-server/models"
)

// Events fired by Map and SearchBox.
const (
	EventBoundsChanged = "bounds_changed"
	EventPlacesChanged = "places_changed"
)

// ErrLoadFailed is returned by a Loader that could not bring the SDK up.
var ErrLoadFailed = errors.New("mapping sdk failed to load")

// LoaderOptions is the load/configuration request sent to the SDK.
type LoaderOptions struct {
	APIKey    string
	Version   string
	Libraries []string
	Language  string
	Region    string
	// Retries bounds the loader's own retry policy for transient failures.
	Retries int
}

// Loader resolves the SDK. It is awaited once per mount.
type Loader interface {
	Load(ctx context.Context, opts LoaderOptions) (SDK, error)
}

// Element is a DOM-like anchor a widget is attached to.
type Element struct {
	ID string
}

// Document looks up anchor elements by ID.
type Document interface {
	ElementByID(id string) (Element, bool)
}

// StyleRule mirrors a map style entry (featureType/elementType/stylers).
type StyleRule struct {
	FeatureType string
	ElementType string
	Visibility  string
}

// MapOptions is the map-construction request.
type MapOptions struct {
	Center                   models.LatLng
	Zoom                     int
	DisableMapTypeControl    bool
	DisableFullscreenControl bool
	DisableStreetViewControl bool
	Styles                   []StyleRule
}

// HeatmapOptions is the heatmap-overlay construction request.
type HeatmapOptions struct {
	Map      Map
	Data     []models.HeatmapPoint
	Gradient []string
}

// MarkerOptions is the per-place marker construction request.
type MarkerOptions struct {
	Map      Map
	Position models.LatLng
	Title    string
}

// PlaceGeometry carries a place's point and, optionally, its viewport rectangle.
type PlaceGeometry struct {
	Location *models.LatLng
	Viewport *geo.Bounds
}

// Place is a search result.
type Place struct {
	Name     string
	Geometry *PlaceGeometry
}

// Subscription is returned by AddListener and detaches the listener on Remove.
type Subscription interface {
	Remove()
}

// SDK constructs widgets once loaded.
type SDK interface {
	NewMap(anchor Element, opts MapOptions) (Map, error)
	NewSearchBox(input Element) (SearchBox, error)
	NewHeatmapLayer(opts HeatmapOptions) (HeatmapLayer, error)
	NewMarker(opts MarkerOptions) (Marker, error)
}

// Map is the map widget handle.
type Map interface {
	Center() models.LatLng
	Bounds() geo.Bounds
	FitBounds(b geo.Bounds)
	Zoom() int
	SetZoom(zoom int)
	AddListener(event string, fn func()) Subscription
}

// SearchBox is the place-search control handle.
type SearchBox interface {
	SetBounds(b geo.Bounds)
	Bounds() geo.Bounds
	Places() []Place
	AddListener(event string, fn func()) Subscription
}

// HeatmapLayer is the heatmap overlay handle. SetData replaces the whole point set.
type HeatmapLayer interface {
	SetData(points []models.HeatmapPoint)
	Data() []models.HeatmapPoint
	Gradient() []string
	// SetMap attaches the layer to m, or detaches it when m is nil.
	SetMap(m Map)
}

// Marker is a placed marker handle.
type Marker interface {
	Position() models.LatLng
	Title() string
	SetMap(m Map)
}
