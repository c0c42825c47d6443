package redis

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"burnai-server/db"
	"burnai-server/models"
)

const BURN_SAMPLES_GEO_KEY_V1 = "burn_samples_geo_v1"
const BURN_SAMPLE_MEMBER_FORMAT_V1 = "burn_sample_v1:%s"

// BURN_LAST_REFRESH_KEY_V1 holds the RFC3339 time of the last completed refresh.
const BURN_LAST_REFRESH_KEY_V1 = "burn_last_refresh_v1"

// RedisBurnDAO handles burn potential samples using Redis.
type RedisBurnDAO struct {
	client db.RedisClient
}

// NewRedisBurnDAO initializes a RedisBurnDAO with the Redis client.
func NewRedisBurnDAO(client db.RedisClient) *RedisBurnDAO {
	return &RedisBurnDAO{client: client}
}

// UpsertSample stores the sample as a geolocation with the sample's JSON data.
func (dao *RedisBurnDAO) UpsertSample(s models.BurnPotentialSample) error {
	if s.ID == "" {
		return errors.New("[RedisBurnDAO] sample has no ID")
	}
	ctx := dao.client.GetContext()
	member := fmt.Sprintf(BURN_SAMPLE_MEMBER_FORMAT_V1, s.ID)
	return dao.client.AddLocationWithJSON(ctx, BURN_SAMPLES_GEO_KEY_V1, member, s.Location.Lat, s.Location.Lng, s)
}

// GetSamplesInBounds returns the samples inside box.
func (dao *RedisBurnDAO) GetSamplesInBounds(box models.BoundingBox) ([]models.BurnPotentialSample, error) {
	samplesJSON, err := dao.client.GetLocationsWithinBox(BURN_SAMPLES_GEO_KEY_V1, box)
	if err != nil {
		return nil, fmt.Errorf("[RedisBurnDAO] failed to get samples in bounds: %w", err)
	}
	return decodeSamples(samplesJSON)
}

// GetNearbySamples retrieves samples within radius km of a point.
func (dao *RedisBurnDAO) GetNearbySamples(lat, lon, radius float64) ([]models.BurnPotentialSample, error) {
	samplesJSON, err := dao.client.GetLocationsWithinRadius(BURN_SAMPLES_GEO_KEY_V1, lat, lon, radius)
	if err != nil {
		return nil, fmt.Errorf("[RedisBurnDAO] failed to get nearby samples: %w", err)
	}
	return decodeSamples(samplesJSON)
}

// ListSampleIDs returns all sample IDs present in the geo index.
func (dao *RedisBurnDAO) ListSampleIDs() ([]string, error) {
	pattern := fmt.Sprintf(BURN_SAMPLE_MEMBER_FORMAT_V1, "*")
	keys, err := dao.client.Keys(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list burn sample keys: %w", err)
	}
	ids := make([]string, 0, len(keys))
	prefix := fmt.Sprintf(BURN_SAMPLE_MEMBER_FORMAT_V1, "")
	for _, k := range keys {
		ids = append(ids, strings.TrimPrefix(k, prefix))
	}
	return ids, nil
}

// DeleteSample removes a sample from the geo index and drops its JSON.
func (dao *RedisBurnDAO) DeleteSample(id string) error {
	ctx := dao.client.GetContext()
	member := fmt.Sprintf(BURN_SAMPLE_MEMBER_FORMAT_V1, id)
	if err := dao.client.RemoveLocation(ctx, BURN_SAMPLES_GEO_KEY_V1, member); err != nil {
		return fmt.Errorf("failed to delete burn sample %s: %w", id, err)
	}
	return nil
}

// SetLastRefresh records when the sample set was last rebuilt.
func (dao *RedisBurnDAO) SetLastRefresh(t time.Time) error {
	if err := dao.client.Set(BURN_LAST_REFRESH_KEY_V1, t.UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("failed to set last refresh in redis: %w", err)
	}
	return nil
}

// GetLastRefresh returns the last refresh time, or nil if none was recorded.
func (dao *RedisBurnDAO) GetLastRefresh() (*time.Time, error) {
	str, err := dao.client.Get(BURN_LAST_REFRESH_KEY_V1)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last refresh from redis: %w", err)
	}
	t, err := time.Parse(time.RFC3339, str)
	if err != nil {
		log.Printf("[RedisBurnDAO] Ignoring malformed last refresh %q: %v", str, err)
		return nil, nil
	}
	return &t, nil
}

func decodeSamples(samplesJSON []string) ([]models.BurnPotentialSample, error) {
	samples := make([]models.BurnPotentialSample, len(samplesJSON))
	for i, sampleJSON := range samplesJSON {
		if err := json.Unmarshal([]byte(sampleJSON), &samples[i]); err != nil {
			return nil, fmt.Errorf("failed to unmarshal burn sample JSON: %w", err)
		}
	}
	return samples, nil
}
