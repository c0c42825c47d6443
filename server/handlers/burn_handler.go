package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"burnai-server/geo"
	"burnai-server/models"
	services "burnai-server/service"
)

const (
	SOUTH_QUERY_ARG = "south"
	WEST_QUERY_ARG  = "west"
	NORTH_QUERY_ARG = "north"
	EAST_QUERY_ARG  = "east"
)

type BurnHandler struct {
	burnService *services.BurnPotentialService
}

func NewBurnHandler(burnService *services.BurnPotentialService) *BurnHandler {
	return &BurnHandler{burnService: burnService}
}

// GetBurnPotential expects ?south=&west=&north=&east= (all optional, defaulting to the region).
func (h *BurnHandler) GetBurnPotential(w http.ResponseWriter, r *http.Request) {
	box, ok := parseBounds(r.URL.Query(), w)
	if !ok {
		return
	}

	resp, err := h.burnService.GetHeatmap(box)
	if err != nil {
		log.Println("[BurnHandler] Error loading burn potential:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, "application/json", resp)
}

// GetBurnPotentialGeoJSON serves the same samples as a GeoJSON FeatureCollection.
func (h *BurnHandler) GetBurnPotentialGeoJSON(w http.ResponseWriter, r *http.Request) {
	box, ok := parseBounds(r.URL.Query(), w)
	if !ok {
		return
	}

	fc, err := h.burnService.GetGeoJSON(box)
	if err != nil {
		log.Println("[BurnHandler] Error loading burn potential GeoJSON:", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, "application/geo+json", fc)
}

// Ping answers liveness checks.
func Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, "application/json", map[string]string{"status": "pong"})
}

func parseBounds(vals url.Values, w http.ResponseWriter) (models.BoundingBox, bool) {
	box := services.DefaultRegion()
	fields := []struct {
		name string
		dst  *float64
	}{
		{SOUTH_QUERY_ARG, &box.South},
		{WEST_QUERY_ARG, &box.West},
		{NORTH_QUERY_ARG, &box.North},
		{EAST_QUERY_ARG, &box.East},
	}
	for _, f := range fields {
		raw := vals.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("Invalid '%s' parameter", f.name), http.StatusBadRequest)
			return box, false
		}
		*f.dst = v
	}

	if box.South < -90 || box.North > 90 || box.South > box.North {
		http.Error(w, "Invalid latitude range", http.StatusBadRequest)
		return box, false
	}
	if geo.FromBoundingBox(box).IsEmpty() {
		http.Error(w, "Empty bounds", http.StatusBadRequest)
		return box, false
	}
	return box, true
}

func writeJSON(w http.ResponseWriter, contentType string, v interface{}) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Println("Error encoding response:", err)
	}
}
