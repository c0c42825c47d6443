package mapsession

import (
	"log"
	"sync"

	"burnai-server/geo"
	"burnai-server/mapsdk"
	"burnai-server/models"

	"github.com/google/uuid"
)

// State is the lifecycle state of a MapSession.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// MapSession is the live state of one mounted map view. Its map, search box
// and heatmap handles are published together once initialization completes.
type MapSession struct {
	id string

	mu            sync.Mutex
	state         State
	sdk           mapsdk.SDK
	mapWidget     mapsdk.Map
	searchBox     mapsdk.SearchBox
	heatmap       mapsdk.HeatmapLayer
	subscriptions []mapsdk.Subscription
	markers       []mapsdk.Marker
	maxPlaceZoom  int

	// updateMu serializes heatmap replacements with each other and with
	// Teardown. It is always taken before mu.
	updateMu sync.Mutex
}

// NewMapSession creates an uninitialized session, one per mounted view.
func NewMapSession() *MapSession {
	return &MapSession{
		id:           uuid.NewString(),
		maxPlaceZoom: DefaultMaxPlaceZoom,
	}
}

// ID identifies the session in logs.
func (s *MapSession) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *MapSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Map returns the map handle, or nil before it is published.
func (s *MapSession) Map() mapsdk.Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mapWidget
}

// SearchBox returns the search handle, or nil when not Ready.
func (s *MapSession) SearchBox() mapsdk.SearchBox {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searchBox
}

// Heatmap returns the heatmap handle, or nil when not Ready.
func (s *MapSession) Heatmap() mapsdk.HeatmapLayer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.heatmap
}

// Markers returns the markers placed by place selection so far.
func (s *MapSession) Markers() []mapsdk.Marker {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]mapsdk.Marker, len(s.markers))
	copy(out, s.markers)
	return out
}

// UpdateBurnPotentialData replaces the heatmap's points with samples.
// Without a heatmap handle the call is dropped silently.
func (s *MapSession) UpdateBurnPotentialData(samples []models.BurnPotentialSample) {
	if s == nil {
		return
	}
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	heatmap := s.Heatmap()
	if heatmap == nil {
		return
	}
	heatmap.SetData(ToHeatmapPoints(samples))
}

// publishMap stores a map built before a later init step failed, so Teardown
// can still release it.
func (s *MapSession) publishMap(sdk mapsdk.SDK, m mapsdk.Map) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sdk, s.mapWidget = sdk, m
}

// SyncViewport biases search results toward the currently visible bounds.
func (s *MapSession) SyncViewport() {
	s.mu.Lock()
	m, sb := s.mapWidget, s.searchBox
	s.mu.Unlock()
	if m == nil || sb == nil {
		return
	}
	sb.SetBounds(m.Bounds())
}

// HandlePlacesChanged places a marker per selected place and fits the view to them.
// Places without geometry are skipped. The resulting zoom is the fitted zoom
// capped at the session's max place zoom.
func (s *MapSession) HandlePlacesChanged(places []mapsdk.Place) {
	if len(places) == 0 {
		return
	}

	s.mu.Lock()
	sdk, m, maxZoom := s.sdk, s.mapWidget, s.maxPlaceZoom
	s.mu.Unlock()
	if sdk == nil || m == nil {
		return
	}

	bounds := geo.EmptyBounds()
	var placed []mapsdk.Marker
	for _, place := range places {
		if place.Geometry == nil || (place.Geometry.Location == nil && place.Geometry.Viewport == nil) {
			log.Printf("[MapSession %s] Returned place %q contains no geometry", s.id, place.Name)
			continue
		}

		if place.Geometry.Viewport != nil {
			bounds = bounds.Union(*place.Geometry.Viewport)
		} else {
			bounds = bounds.Extend(*place.Geometry.Location)
		}

		if place.Geometry.Location == nil {
			continue
		}
		marker, err := sdk.NewMarker(mapsdk.MarkerOptions{
			Map:      m,
			Position: *place.Geometry.Location,
			Title:    place.Name,
		})
		if err != nil {
			log.Printf("[MapSession %s] Failed to place marker for %q: %v", s.id, place.Name, err)
			continue
		}
		placed = append(placed, marker)
	}

	if len(placed) > 0 {
		s.mu.Lock()
		s.markers = append(s.markers, placed...)
		s.mu.Unlock()
	}

	if bounds.IsEmpty() {
		return
	}
	m.FitBounds(bounds)
	m.SetZoom(min(m.Zoom(), maxZoom))
}

// Teardown unsubscribes every listener, detaches markers and heatmap and
// releases all handles. It is safe to call more than once.
func (s *MapSession) Teardown() {
	if s == nil {
		return
	}
	s.updateMu.Lock()
	defer s.updateMu.Unlock()

	s.mu.Lock()
	subs, markers, heatmap := s.subscriptions, s.markers, s.heatmap
	s.subscriptions, s.markers = nil, nil
	s.sdk, s.mapWidget, s.searchBox, s.heatmap = nil, nil, nil, nil
	s.state = StateClosed
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Remove()
	}
	for _, marker := range markers {
		marker.SetMap(nil)
	}
	if heatmap != nil {
		heatmap.SetMap(nil)
	}
}
