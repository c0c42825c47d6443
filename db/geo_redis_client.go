package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"

	"burnai-server/geo"
	"burnai-server/models"

	"github.com/go-redis/redis/v8"
)

// boxPadding widens GEOSEARCH boxes; results are filtered exactly afterwards.
const boxPadding = 1.05

// GeoRedisClient struct holds the Redis client and context
type GeoRedisClient struct {
	client *redis.Client
	ctx    context.Context
}

// NewGeoRedisClient wraps client after checking the connection
func NewGeoRedisClient(ctx context.Context, client *redis.Client) (*GeoRedisClient, error) {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("could not connect to Redis: %w", err)
	}
	log.Println("[GeoRedisClient] Connected to Redis")

	return &GeoRedisClient{
		client: client,
		ctx:    ctx,
	}, nil
}

// Set sets a key-value pair in Redis
func (r *GeoRedisClient) Set(key, value string) error {
	return r.client.Set(r.ctx, key, value, 0).Err()
}

// Get retrieves the value for a given key from Redis
func (r *GeoRedisClient) Get(key string) (string, error) {
	value, err := r.client.Get(r.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return value, err
}

// Del removes a key
func (r *GeoRedisClient) Del(key string) error {
	return r.client.Del(r.ctx, key).Err()
}

// Keys lists keys matching a glob pattern
func (r *GeoRedisClient) Keys(pattern string) ([]string, error) {
	return r.client.Keys(r.ctx, pattern).Result()
}

// AddLocationWithJSON stores geolocation along with associated JSON data.
func (r *GeoRedisClient) AddLocationWithJSON(ctx context.Context, geoKey, memberKey string, lat, lon float64, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.client.GeoAdd(ctx, geoKey, &redis.GeoLocation{
		Name:      memberKey,
		Latitude:  lat,
		Longitude: lon,
	}).Result(); err != nil {
		return fmt.Errorf("failed to add geolocation: %w", err)
	}

	if err := r.client.Set(ctx, memberKey, jsonData, 0).Err(); err != nil {
		return fmt.Errorf("failed to set JSON data: %w", err)
	}
	return nil
}

// RemoveLocation drops a member from the geo set along with its JSON data.
func (r *GeoRedisClient) RemoveLocation(ctx context.Context, geoKey, memberKey string) error {
	if err := r.client.ZRem(ctx, geoKey, memberKey).Err(); err != nil {
		return fmt.Errorf("failed to remove geolocation: %w", err)
	}
	if err := r.client.Del(ctx, memberKey).Err(); err != nil {
		return fmt.Errorf("failed to delete JSON data: %w", err)
	}
	return nil
}

// GetLocationsWithinRadius finds all members within radius km and returns their JSON data.
func (r *GeoRedisClient) GetLocationsWithinRadius(key string, lat, lon, radius float64) ([]string, error) {
	results, err := r.client.GeoRadius(r.ctx, key, lon, lat, &redis.GeoRadiusQuery{
		Radius: radius,
		Unit:   "km",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get nearby locations: %w", err)
	}
	return r.readMembers(results, nil), nil
}

// GetLocationsWithinBox returns the JSON data of members inside box.
func (r *GeoRedisClient) GetLocationsWithinBox(key string, box models.BoundingBox) ([]string, error) {
	bounds := geo.FromBoundingBox(box)
	if bounds.IsEmpty() {
		return nil, nil
	}
	center := bounds.Center()
	width, height := searchBoxKm(bounds)

	results, err := r.client.GeoSearchLocation(r.ctx, key, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude: center.Lng,
			Latitude:  center.Lat,
			BoxWidth:  width,
			BoxHeight: height,
			BoxUnit:   "km",
		},
		WithCoord: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to search locations in box: %w", err)
	}
	return r.readMembers(results, &bounds), nil
}

// readMembers fetches the JSON for each location, skipping ones outside
// within (when set) and ones whose data is gone.
func (r *GeoRedisClient) readMembers(locations []redis.GeoLocation, within *geo.Bounds) []string {
	objects := make([]string, 0, len(locations))
	for _, loc := range locations {
		if within != nil && !within.Contains(models.LatLng{Lat: loc.Latitude, Lng: loc.Longitude}) {
			continue
		}
		data, err := r.client.Get(r.ctx, loc.Name).Result()
		if err != nil {
			log.Printf("[GeoRedisClient] Skipping member %s due to error: %v", loc.Name, err)
			continue
		}
		objects = append(objects, data)
	}
	return objects
}

func (r *GeoRedisClient) GetContext() context.Context {
	return r.ctx
}

func (r *GeoRedisClient) Ping() error {
	_, err := r.client.Ping(r.ctx).Result()
	return err
}

// searchBoxKm sizes a GEOSEARCH box covering b. The width is taken along the
// edge nearest the equator, where a degree of longitude is longest.
func searchBoxKm(b geo.Bounds) (width, height float64) {
	_, height = b.SizeKm()
	sw, ne := b.SouthWest(), b.NorthEast()
	widestLat := math.Min(math.Abs(sw.Lat), math.Abs(ne.Lat))
	if sw.Lat <= 0 && ne.Lat >= 0 {
		widestLat = 0
	}
	width = b.LngSpan() / 360 * 2 * math.Pi * geo.EarthRadiusKm * math.Cos(widestLat*math.Pi/180)
	return width * boxPadding, height * boxPadding
}
