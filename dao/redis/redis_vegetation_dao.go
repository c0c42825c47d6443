package redis

import (
	"encoding/json"
	"fmt"
	"strconv"

	"burnai-server/db"
	"burnai-server/models"
)

const VEGETATION_GEO_KEY_V1 = "vegetation_geo_v1"
const VEGETATION_CELL_MEMBER_FORMAT_V1 = "ndvi_cell_v1:%s"

// RedisVegetationDAO handles NDVI cells using Redis.
type RedisVegetationDAO struct {
	client db.RedisClient
}

// NewRedisVegetationDAO initializes a RedisVegetationDAO with the Redis client.
func NewRedisVegetationDAO(client db.RedisClient) *RedisVegetationDAO {
	return &RedisVegetationDAO{client: client}
}

// CellID keys a cell by its center rounded to 5 decimals (about 1 m), so a
// re-import of the same raster overwrites instead of duplicating.
func CellID(c models.VegetationCell) string {
	return strconv.FormatFloat(c.Location.Lat, 'f', 5, 64) + "," + strconv.FormatFloat(c.Location.Lng, 'f', 5, 64)
}

// UpsertCell stores the cell as a geolocation with the cell's JSON data.
func (dao *RedisVegetationDAO) UpsertCell(c models.VegetationCell) error {
	ctx := dao.client.GetContext()
	member := fmt.Sprintf(VEGETATION_CELL_MEMBER_FORMAT_V1, CellID(c))
	return dao.client.AddLocationWithJSON(ctx, VEGETATION_GEO_KEY_V1, member, c.Location.Lat, c.Location.Lng, c)
}

// GetNearbyCells retrieves cells within radius km of a point.
func (dao *RedisVegetationDAO) GetNearbyCells(lat, lon, radius float64) ([]models.VegetationCell, error) {
	cellsJSON, err := dao.client.GetLocationsWithinRadius(VEGETATION_GEO_KEY_V1, lat, lon, radius)
	if err != nil {
		return nil, fmt.Errorf("[RedisVegetationDAO] failed to get nearby cells: %w", err)
	}
	cells := make([]models.VegetationCell, len(cellsJSON))
	for i, cellJSON := range cellsJSON {
		if err := json.Unmarshal([]byte(cellJSON), &cells[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal vegetation cell JSON: %w", err)
		}
	}
	return cells, nil
}

// CountCells returns the number of stored cells.
func (dao *RedisVegetationDAO) CountCells() (int, error) {
	keys, err := dao.client.Keys(fmt.Sprintf(VEGETATION_CELL_MEMBER_FORMAT_V1, "*"))
	if err != nil {
		return 0, fmt.Errorf("failed to list vegetation cell keys: %w", err)
	}
	return len(keys), nil
}
