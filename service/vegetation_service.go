package services

import (
	"context"
	"fmt"
	"log"

	"burnai-server/api/ndvi"
	"burnai-server/config"
	"burnai-server/dao/redis"
	"burnai-server/geo"
	"burnai-server/models"
)

// VEGETATION_BASE_WEIGHT is the fuel factor of bare ground (NDVI <= 0).
// Dense vegetation (NDVI 1) leaves the fire score unchanged.
const VEGETATION_BASE_WEIGHT = 0.5

// FuelFactor maps NDVI to a multiplier in [VEGETATION_BASE_WEIGHT, 1].
func FuelFactor(ndviValue float64) float64 {
	return VEGETATION_BASE_WEIGHT + (1-VEGETATION_BASE_WEIGHT)*ClampUnit(ndviValue)
}

// VegetationService imports NDVI cells and looks up vegetation density.
type VegetationService struct {
	vegetationDao *redis.RedisVegetationDAO
	source        ndvi.NDVISource
	radiusKm      float64
}

// NewVegetationService constructs a new VegetationService. source may be nil
// when only lookups are needed.
func NewVegetationService(vegetationDao *redis.RedisVegetationDAO, source ndvi.NDVISource) *VegetationService {
	return &VegetationService{
		vegetationDao: vegetationDao,
		source:        source,
		radiusKm:      config.VEGETATION_LOOKUP_RADIUS_KM,
	}
}

// ImportCells loads the cells inside area from the source into Redis.
func (vs *VegetationService) ImportCells(ctx context.Context, area models.BoundingBox) (int, error) {
	if vs.source == nil {
		return 0, fmt.Errorf("no NDVI source configured")
	}
	cells, err := vs.source.GetCells(ctx, area)
	if err != nil {
		return 0, fmt.Errorf("reading NDVI cells: %w", err)
	}

	stored := 0
	for _, c := range cells {
		if err := vs.vegetationDao.UpsertCell(c); err != nil {
			log.Printf("[VegetationService] Upsert failed for cell %s: %v", redis.CellID(c), err)
			continue
		}
		stored++
	}
	log.Printf("[VegetationService] Imported %d NDVI cells", stored)
	return stored, nil
}

// NDVIAt returns the NDVI of the cell nearest to p within the lookup radius.
func (vs *VegetationService) NDVIAt(p models.LatLng) (float64, bool, error) {
	cells, err := vs.vegetationDao.GetNearbyCells(p.Lat, p.Lng, vs.radiusKm)
	if err != nil {
		return 0, false, err
	}
	if len(cells) == 0 {
		return 0, false, nil
	}
	best := cells[0]
	bestKm := geo.DistanceKm(p, best.Location)
	for _, c := range cells[1:] {
		if d := geo.DistanceKm(p, c.Location); d < bestKm {
			best, bestKm = c, d
		}
	}
	return best.NDVI, true, nil
}
