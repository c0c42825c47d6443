package models

import "time"

// BurnPotentialSample pairs a coordinate with a burn risk in [0, 1],
// where 0 is no risk and 1 is maximum risk.
type BurnPotentialSample struct {
	ID       string  `json:"id,omitempty"`
	Location LatLng  `json:"location"`
	Value    float64 `json:"value"`
	// AcqDate is the acquisition date of the detection the sample was scored from.
	AcqDate string `json:"acq_date,omitempty"`
}

// HeatmapPoint is the weighted point handed to a heatmap layer.
type HeatmapPoint struct {
	Location LatLng  `json:"location"`
	Weight   float64 `json:"weight"`
}

// HeatmapResponse is returned by the burn potential endpoint and pushed on the stream.
type HeatmapResponse struct {
	Points      []HeatmapPoint `json:"points"`
	Count       int            `json:"count"`
	RefreshedAt *time.Time     `json:"refreshed_at,omitempty"`
}
