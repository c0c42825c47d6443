package mapsession

import (
	"context"

	"burnai-server/geo"
	"burnai-server/mapsdk"
	"burnai-server/models"
)

// fakeLoader resolves a fakeSDK or fails with err.
type fakeLoader struct {
	sdk   *fakeSDK
	err   error
	calls int
	opts  mapsdk.LoaderOptions
}

func (l *fakeLoader) Load(ctx context.Context, opts mapsdk.LoaderOptions) (mapsdk.SDK, error) {
	l.calls++
	l.opts = opts
	if l.err != nil {
		return nil, l.err
	}
	return l.sdk, nil
}

type fakeDocument map[string]bool

func (d fakeDocument) ElementByID(id string) (mapsdk.Element, bool) {
	if !d[id] {
		return mapsdk.Element{}, false
	}
	return mapsdk.Element{ID: id}, true
}

func fullDocument() fakeDocument {
	return fakeDocument{MapAnchorID: true, SearchAnchorID: true}
}

type fakeSDK struct {
	maps      []*fakeMap
	boxes     []*fakeSearchBox
	heatmaps  []*fakeHeatmap
	markers   []*fakeMarker
	searchErr error
	panicOn   bool

	// fittedZoom is the zoom a map lands on after FitBounds.
	fittedZoom int
}

func (s *fakeSDK) NewMap(anchor mapsdk.Element, opts mapsdk.MapOptions) (mapsdk.Map, error) {
	m := &fakeMap{anchor: anchor, opts: opts, zoom: opts.Zoom, fittedZoom: s.fittedZoom}
	s.maps = append(s.maps, m)
	return m, nil
}

func (s *fakeSDK) NewSearchBox(input mapsdk.Element) (mapsdk.SearchBox, error) {
	if s.panicOn {
		panic("places library missing")
	}
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	b := &fakeSearchBox{input: input}
	s.boxes = append(s.boxes, b)
	return b, nil
}

func (s *fakeSDK) NewHeatmapLayer(opts mapsdk.HeatmapOptions) (mapsdk.HeatmapLayer, error) {
	h := &fakeHeatmap{opts: opts, data: opts.Data, attached: opts.Map}
	s.heatmaps = append(s.heatmaps, h)
	return h, nil
}

func (s *fakeSDK) NewMarker(opts mapsdk.MarkerOptions) (mapsdk.Marker, error) {
	m := &fakeMarker{opts: opts, attached: opts.Map}
	s.markers = append(s.markers, m)
	return m, nil
}

type fakeMap struct {
	mapsdk.Listeners
	anchor     mapsdk.Element
	opts       mapsdk.MapOptions
	zoom       int
	fittedZoom int
	fitCalls   []geo.Bounds
	zoomCalls  []int
}

func (m *fakeMap) Center() models.LatLng { return m.opts.Center }

func (m *fakeMap) Bounds() geo.Bounds {
	return geo.ViewportBounds(m.opts.Center, m.zoom, 900, 500)
}

func (m *fakeMap) FitBounds(b geo.Bounds) {
	m.fitCalls = append(m.fitCalls, b)
	m.zoom = m.fittedZoom
	m.Fire(mapsdk.EventBoundsChanged)
}

func (m *fakeMap) Zoom() int { return m.zoom }

func (m *fakeMap) SetZoom(zoom int) {
	m.zoomCalls = append(m.zoomCalls, zoom)
	m.zoom = zoom
}

func (m *fakeMap) AddListener(event string, fn func()) mapsdk.Subscription {
	return m.Add(event, fn)
}

type fakeSearchBox struct {
	mapsdk.Listeners
	input    mapsdk.Element
	bounds   geo.Bounds
	setCalls int
	places   []mapsdk.Place
}

func (b *fakeSearchBox) SetBounds(bounds geo.Bounds) {
	b.setCalls++
	b.bounds = bounds
}

func (b *fakeSearchBox) Bounds() geo.Bounds { return b.bounds }

func (b *fakeSearchBox) Places() []mapsdk.Place { return b.places }

func (b *fakeSearchBox) AddListener(event string, fn func()) mapsdk.Subscription {
	return b.Add(event, fn)
}

// selectPlaces simulates the user picking a search prediction.
func (b *fakeSearchBox) selectPlaces(places ...mapsdk.Place) {
	b.places = places
	b.Fire(mapsdk.EventPlacesChanged)
}

type fakeHeatmap struct {
	opts     mapsdk.HeatmapOptions
	data     []models.HeatmapPoint
	setCalls int
	attached mapsdk.Map
	// detachedSets counts SetData calls made after SetMap(nil).
	detachedSets int
}

func (h *fakeHeatmap) SetData(points []models.HeatmapPoint) {
	h.setCalls++
	if h.attached == nil {
		h.detachedSets++
	}
	h.data = points
}

func (h *fakeHeatmap) Data() []models.HeatmapPoint { return h.data }

func (h *fakeHeatmap) Gradient() []string { return h.opts.Gradient }

func (h *fakeHeatmap) SetMap(m mapsdk.Map) { h.attached = m }

type fakeMarker struct {
	opts     mapsdk.MarkerOptions
	attached mapsdk.Map
}

func (m *fakeMarker) Position() models.LatLng { return m.opts.Position }

func (m *fakeMarker) Title() string { return m.opts.Title }

func (m *fakeMarker) SetMap(mm mapsdk.Map) { m.attached = mm }
