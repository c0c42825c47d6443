package echartsmap

import (
	"errors"

	"burnai-server/geo"
	"burnai-server/mapsdk"
)

var errForeignMap = errors.New("map was not created by this SDK")

// SDK builds echarts-backed widgets.
type SDK struct {
	geocoder Geocoder
	widthPx  int
	heightPx int
}

// NewMap implements mapsdk.SDK.
func (s *SDK) NewMap(anchor mapsdk.Element, opts mapsdk.MapOptions) (mapsdk.Map, error) {
	return &Map{
		anchorID: anchor.ID,
		center:   opts.Center,
		zoom:     clampZoom(opts.Zoom),
		widthPx:  s.widthPx,
		heightPx: s.heightPx,
		styles:   append([]mapsdk.StyleRule(nil), opts.Styles...),
	}, nil
}

// NewSearchBox implements mapsdk.SDK.
func (s *SDK) NewSearchBox(input mapsdk.Element) (mapsdk.SearchBox, error) {
	return &SearchBox{inputID: input.ID, geocoder: s.geocoder, bounds: geo.EmptyBounds()}, nil
}

// NewHeatmapLayer implements mapsdk.SDK.
func (s *SDK) NewHeatmapLayer(opts mapsdk.HeatmapOptions) (mapsdk.HeatmapLayer, error) {
	layer := &HeatmapLayer{gradient: append([]string(nil), opts.Gradient...)}
	layer.SetData(opts.Data)
	if opts.Map != nil {
		if _, ok := opts.Map.(*Map); !ok {
			return nil, errForeignMap
		}
		layer.SetMap(opts.Map)
	}
	return layer, nil
}

// NewMarker implements mapsdk.SDK.
func (s *SDK) NewMarker(opts mapsdk.MarkerOptions) (mapsdk.Marker, error) {
	marker := &Marker{position: opts.Position, title: opts.Title}
	if opts.Map != nil {
		if _, ok := opts.Map.(*Map); !ok {
			return nil, errForeignMap
		}
		marker.SetMap(opts.Map)
	}
	return marker, nil
}
