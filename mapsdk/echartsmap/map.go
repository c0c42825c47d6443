package echartsmap

import (
	"fmt"
	"io"
	"strconv"
	"sync"

	"burnai-server/geo"
	"burnai-server/mapsdk"
	"burnai-server/models"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

const worldMap = "world"

// Map is a web-mercator viewport. Camera changes fire bounds_changed
// synchronously after the new camera is visible to readers.
type Map struct {
	listeners mapsdk.Listeners

	mu       sync.RWMutex
	anchorID string
	center   models.LatLng
	zoom     int
	widthPx  int
	heightPx int
	styles   []mapsdk.StyleRule
	heatmaps []*HeatmapLayer
	markers  []*Marker
}

func (m *Map) Center() models.LatLng {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.center
}

func (m *Map) Zoom() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.zoom
}

// Bounds returns the rectangle visible at the current camera.
func (m *Map) Bounds() geo.Bounds {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return geo.ViewportBounds(m.center, m.zoom, m.widthPx, m.heightPx)
}

// FitBounds centers on b at the deepest zoom that still shows all of it.
// Empty bounds leave the camera unchanged.
func (m *Map) FitBounds(b geo.Bounds) {
	if b.IsEmpty() {
		return
	}
	m.mu.Lock()
	m.center = b.Center()
	m.zoom = geo.FitZoom(b, m.widthPx, m.heightPx, geo.MaxZoom)
	m.mu.Unlock()

	m.listeners.Fire(mapsdk.EventBoundsChanged)
}

func (m *Map) SetZoom(zoom int) {
	m.mu.Lock()
	changed := m.zoom != clampZoom(zoom)
	m.zoom = clampZoom(zoom)
	m.mu.Unlock()

	if changed {
		m.listeners.Fire(mapsdk.EventBoundsChanged)
	}
}

// SetCenter pans the camera.
func (m *Map) SetCenter(center models.LatLng) {
	m.mu.Lock()
	changed := m.center != center
	m.center = center
	m.mu.Unlock()

	if changed {
		m.listeners.Fire(mapsdk.EventBoundsChanged)
	}
}

func (m *Map) AddListener(event string, fn func()) mapsdk.Subscription {
	return m.listeners.Add(event, fn)
}

// Styles returns the style rules the map was created with.
func (m *Map) Styles() []mapsdk.StyleRule {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]mapsdk.StyleRule(nil), m.styles...)
}

func (m *Map) attachHeatmap(h *HeatmapLayer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.heatmaps {
		if existing == h {
			return
		}
	}
	m.heatmaps = append(m.heatmaps, h)
}

func (m *Map) detachHeatmap(h *HeatmapLayer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.heatmaps {
		if existing == h {
			m.heatmaps = append(m.heatmaps[:i], m.heatmaps[i+1:]...)
			return
		}
	}
}

func (m *Map) attachMarker(mk *Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.markers {
		if existing == mk {
			return
		}
	}
	m.markers = append(m.markers, mk)
}

func (m *Map) detachMarker(mk *Marker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.markers {
		if existing == mk {
			m.markers = append(m.markers[:i], m.markers[i+1:]...)
			return
		}
	}
}

// Chart builds a geo chart of the attached heatmaps and markers. Only points
// inside the current viewport are plotted.
func (m *Map) Chart() *charts.Geo {
	m.mu.RLock()
	center, zoom := m.center, m.zoom
	viewport := geo.ViewportBounds(center, zoom, m.widthPx, m.heightPx)
	heatmaps := append([]*HeatmapLayer(nil), m.heatmaps...)
	markers := append([]*Marker(nil), m.markers...)
	width, height := m.widthPx, m.heightPx
	m.mu.RUnlock()

	chart := charts.NewGeo()
	chart.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: "BurnAI Map",
			Width:     fmt.Sprintf("%dpx", width),
			Height:    fmt.Sprintf("%dpx", height),
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Burn Potential",
			Subtitle: fmt.Sprintf("center %.4f, %.4f  zoom %d", center.Lat, center.Lng, zoom),
		}),
		charts.WithGeoComponentOpts(opts.GeoComponent{
			Map:    worldMap,
			Silent: opts.Bool(true),
		}),
	)

	// The world map is clipped to the camera viewport once the chart is up.
	sw, ne := viewport.SouthWest(), viewport.NorthEast()
	chart.AddJSFuncStrs(types.FuncStr(fmt.Sprintf(
		"%%MY_ECHARTS%%.setOption({geo: {boundingCoords: [[%s, %s], [%s, %s]]}});",
		coord(sw.Lng), coord(ne.Lat), coord(ne.Lng), coord(sw.Lat),
	)))

	var gradient []string
	for i, h := range heatmaps {
		points := h.Data()
		if gradient == nil {
			gradient = h.Gradient()
		}
		data := make([]opts.GeoData, 0, len(points))
		for _, p := range points {
			if !viewport.Contains(p.Location) {
				continue
			}
			data = append(data, opts.GeoData{Value: []float64{p.Location.Lng, p.Location.Lat, p.Weight}})
		}
		chart.AddSeries(fmt.Sprintf("burn-potential-%d", i), types.ChartHeatMap, data)
	}

	if len(gradient) > 0 {
		chart.SetGlobalOptions(charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: gradient},
		}))
	}

	if len(markers) > 0 {
		data := make([]opts.GeoData, 0, len(markers))
		for _, mk := range markers {
			pos := mk.Position()
			data = append(data, opts.GeoData{Name: mk.Title(), Value: []float64{pos.Lng, pos.Lat, 1}})
		}
		chart.AddSeries("places", types.ChartScatter, data,
			charts.WithLabelOpts(opts.Label{
				Show:      opts.Bool(true),
				Formatter: "{b}",
			}),
		)
	}

	return chart
}

// Render writes the map as a standalone HTML page.
func (m *Map) Render(w io.Writer) error {
	return m.Chart().Render(w)
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func clampZoom(zoom int) int {
	if zoom < 0 {
		return 0
	}
	if zoom > geo.MaxZoom {
		return geo.MaxZoom
	}
	return zoom
}
