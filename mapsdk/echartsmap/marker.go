package echartsmap

import (
	"log"
	"sync"

	"burnai-server/mapsdk"
	"burnai-server/models"
)

// Marker is a titled point drawn on top of the heatmap.
type Marker struct {
	position models.LatLng
	title    string

	mu sync.Mutex
	m  *Map
}

func (mk *Marker) Position() models.LatLng { return mk.position }

func (mk *Marker) Title() string { return mk.title }

// SetMap moves the marker onto m, or removes it when m is nil.
func (mk *Marker) SetMap(m mapsdk.Map) {
	next, ok := m.(*Map)
	if m != nil && !ok {
		log.Printf("[EchartsMarker] Ignoring attach to foreign map %T", m)
		return
	}

	mk.mu.Lock()
	prev := mk.m
	mk.m = next
	mk.mu.Unlock()

	if prev != nil && prev != next {
		prev.detachMarker(mk)
	}
	if next != nil {
		next.attachMarker(mk)
	}
}
