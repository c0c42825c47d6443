package firms

import (
	"context"
	"fmt"
	"log"
	"os"

	"burnai-server/geo"
	"burnai-server/models"
)

// FirmsApiClientMock serves detections from a CSV fixture on disk
type FirmsApiClientMock struct {
	csvPath string
}

// NewFirmsApiClientMock creates a new instance of FirmsApiClientMock
func NewFirmsApiClientMock(csvPath string) *FirmsApiClientMock {
	return &FirmsApiClientMock{csvPath: csvPath}
}

// GetAreaDetections returns the fixture rows that fall inside area. The day range is only validated.
func (c *FirmsApiClientMock) GetAreaDetections(ctx context.Context, area models.BoundingBox, days int) ([]models.FireDetection, error) {
	if days < 1 || days > MaxDaysPerRequest {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDays, days)
	}

	data, err := os.ReadFile(c.csvPath)
	if err != nil {
		log.Println("[FirmsApiClientMock] Could not read FIRMS fixture:", err)
		return nil, fmt.Errorf("failed to read file %q: %w", c.csvPath, err)
	}

	all, err := ParseAreaCSV(data)
	if err != nil {
		return nil, err
	}

	bounds := geo.FromBoundingBox(area)
	inside := make([]models.FireDetection, 0, len(all))
	for _, d := range all {
		if bounds.Contains(models.LatLng{Lat: d.Latitude, Lng: d.Longitude}) {
			inside = append(inside, d)
		}
	}
	return inside, nil
}

// SetMapKey is a no-op for the mock
func (c *FirmsApiClientMock) SetMapKey(mapKey string) {}
