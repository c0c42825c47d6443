package db

import (
	"context"
	"errors"

	"burnai-server/models"
)

// ErrKeyNotFound is returned by Get when the key does not exist.
var ErrKeyNotFound = errors.New("key not found")

// RedisClient defines the key-value and geo operations the DAOs rely on
type RedisClient interface {
	Set(key, value string) error
	Get(key string) (string, error)
	Del(key string) error
	Keys(pattern string) ([]string, error)
	AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error
	RemoveLocation(ctx context.Context, geoKey, memberKey string) error
	GetLocationsWithinRadius(key string, lat, lon, radius float64) ([]string, error)
	GetLocationsWithinBox(key string, box models.BoundingBox) ([]string, error)
	GetContext() context.Context
	Ping() error
}
