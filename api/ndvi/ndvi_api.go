// Package ndvi reads vegetation density exports: Sentinel-2 NDVI rasters
// flattened to lat,lon,ndvi CSV.
package ndvi

import (
	"context"

	"burnai-server/models"
)

// NDVISource provides vegetation cells for an area.
type NDVISource interface {
	GetCells(ctx context.Context, area models.BoundingBox) ([]models.VegetationCell, error)
}
