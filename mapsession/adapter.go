package mapsession

import "burnai-server/models"

// ToHeatmapPoints maps samples one-to-one onto heatmap points, keeping order.
// The coordinate passes through and the sample value becomes the weight.
func ToHeatmapPoints(samples []models.BurnPotentialSample) []models.HeatmapPoint {
	points := make([]models.HeatmapPoint, len(samples))
	for i, s := range samples {
		points[i] = models.HeatmapPoint{Location: s.Location, Weight: s.Value}
	}
	return points
}
