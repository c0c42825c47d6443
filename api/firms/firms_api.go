package firms

import (
	"context"

	"burnai-server/models"
)

// FirmsAPI defines the interface for interacting with the NASA FIRMS area API
type FirmsAPI interface {
	// GetAreaDetections returns the fire detections inside area over the last days (1-10) days.
	GetAreaDetections(ctx context.Context, area models.BoundingBox, days int) ([]models.FireDetection, error)
	SetMapKey(mapKey string)
}
