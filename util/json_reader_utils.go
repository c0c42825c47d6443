package util

import (
	"encoding/json"
	"fmt"
	"os"

	"burnai-server/geo"
	"burnai-server/mapsdk"
	"burnai-server/models"
)

// placeRecord is the on-disk shape of a place fixture entry.
type placeRecord struct {
	Name     string              `json:"name"`
	Location *models.LatLng      `json:"location,omitempty"`
	Viewport *models.BoundingBox `json:"viewport,omitempty"`
}

// ReadPlacesFromJSON loads search places from JSON on disk.
func ReadPlacesFromJSON(filePath string) ([]mapsdk.Place, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var records []placeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal places: %w", err)
	}

	places := make([]mapsdk.Place, 0, len(records))
	for _, r := range records {
		place := mapsdk.Place{Name: r.Name}
		if r.Location != nil || r.Viewport != nil {
			geometry := &mapsdk.PlaceGeometry{Location: r.Location}
			if r.Viewport != nil {
				viewport := geo.FromBoundingBox(*r.Viewport)
				geometry.Viewport = &viewport
			}
			place.Geometry = geometry
		}
		places = append(places, place)
	}
	return places, nil
}

// ReadBurnSamplesFromJSON loads burn potential samples from JSON on disk.
func ReadBurnSamplesFromJSON(filePath string) ([]models.BurnPotentialSample, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %q: %w", filePath, err)
	}
	var samples []models.BurnPotentialSample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, fmt.Errorf("failed to unmarshal burn samples: %w", err)
	}
	return samples, nil
}

// PrintHeatmapResponsePartially prints key fields of a HeatmapResponse.
func PrintHeatmapResponsePartially(resp *models.HeatmapResponse) {
	fmt.Printf("Points: %d\n", resp.Count)
	if resp.RefreshedAt != nil {
		fmt.Printf("Refreshed at: %s\n", resp.RefreshedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if len(resp.Points) > 0 {
		p := resp.Points[0]
		fmt.Printf("First point: (%.5f, %.5f) weight %.3f\n", p.Location.Lat, p.Location.Lng, p.Weight)
	}
}
