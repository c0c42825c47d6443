package echartsmap

import (
	"log"
	"sync"

	"burnai-server/mapsdk"
	"burnai-server/models"
)

// HeatmapLayer holds weighted points and the color gradient they render with.
type HeatmapLayer struct {
	mu       sync.RWMutex
	data     []models.HeatmapPoint
	gradient []string
	m        *Map
}

// SetData replaces the point set with a copy of points.
func (h *HeatmapLayer) SetData(points []models.HeatmapPoint) {
	cp := append([]models.HeatmapPoint{}, points...)
	h.mu.Lock()
	h.data = cp
	h.mu.Unlock()
}

func (h *HeatmapLayer) Data() []models.HeatmapPoint {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]models.HeatmapPoint{}, h.data...)
}

func (h *HeatmapLayer) Gradient() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.gradient...)
}

// SetMap moves the layer onto m, or detaches it when m is nil.
func (h *HeatmapLayer) SetMap(m mapsdk.Map) {
	next, ok := m.(*Map)
	if m != nil && !ok {
		log.Printf("[EchartsHeatmapLayer] Ignoring attach to foreign map %T", m)
		return
	}

	h.mu.Lock()
	prev := h.m
	h.m = next
	h.mu.Unlock()

	if prev != nil && prev != next {
		prev.detachHeatmap(h)
	}
	if next != nil {
		next.attachHeatmap(h)
	}
}

// Attached reports whether the layer is currently on a map.
func (h *HeatmapLayer) Attached() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.m != nil
}
