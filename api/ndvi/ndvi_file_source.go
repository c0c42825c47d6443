package ndvi

import (
	"context"
	"fmt"
	"os"

	"burnai-server/geo"
	"burnai-server/models"
)

// NdviFileSource serves cells from an extracted NDVI CSV on disk.
type NdviFileSource struct {
	csvPath string
}

func NewNdviFileSource(csvPath string) *NdviFileSource {
	return &NdviFileSource{csvPath: csvPath}
}

// GetCells reads the file and keeps the cells inside area.
func (s *NdviFileSource) GetCells(ctx context.Context, area models.BoundingBox) ([]models.VegetationCell, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.csvPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read NDVI file %q: %w", s.csvPath, err)
	}
	cells, err := ParseNDVICSV(data)
	if err != nil {
		return nil, err
	}

	bounds := geo.FromBoundingBox(area)
	out := cells[:0]
	for _, c := range cells {
		if bounds.Contains(c.Location) {
			out = append(out, c)
		}
	}
	return out, nil
}
