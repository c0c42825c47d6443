package db_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"burnai-server/db"
	"burnai-server/models"
)

// Test the Set and Get methods for both MockRedisClient and GeoRedisClient
func TestRedisClient_SetAndGet(t *testing.T) {
	tests := []struct {
		name   string
		client db.RedisClient
	}{
		{"MockRedisClient", db.NewMockRedisClient(context.Background())},
		// Replace with a real Redis client configuration for integration testing
		// {"GeoRedisClient", geoClient},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key := "test-key"
			value := "test-value"

			// Act
			err := test.client.Set(key, value)
			if err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			retrieved, err := test.client.Get(key)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}

			// Assert
			if retrieved != value {
				t.Errorf("Expected %s, got %s", value, retrieved)
			}

			if err := test.client.Del(key); err != nil {
				t.Fatalf("Del failed: %v", err)
			}
			if _, err := test.client.Get(key); !errors.Is(err, db.ErrKeyNotFound) {
				t.Errorf("Expected ErrKeyNotFound after Del, got %v", err)
			}
		})
	}
}

func TestRedisClient_GeoQueries(t *testing.T) {
	ctx := context.Background()
	client := db.NewMockRedisClient(ctx)

	points := map[string]models.LatLng{
		"sample:napa":     {Lat: 38.2975, Lng: -122.2869},
		"sample:sonoma":   {Lat: 38.2919, Lng: -122.4580},
		"sample:monterey": {Lat: 36.6002, Lng: -121.8947},
		"sample:la":       {Lat: 34.0522, Lng: -118.2437},
	}
	for member, p := range points {
		payload := map[string]string{"id": member}
		if err := client.AddLocationWithJSON(ctx, "samples", member, p.Lat, p.Lng, payload); err != nil {
			t.Fatalf("AddLocationWithJSON failed: %v", err)
		}
	}

	// Radius
	nearby, err := client.GetLocationsWithinRadius("samples", 38.2975, -122.2869, 25)
	if err != nil {
		t.Fatalf("GetLocationsWithinRadius failed: %v", err)
	}
	if len(nearby) != 2 {
		t.Fatalf("Expected 2 results within 25km of Napa, got %d", len(nearby))
	}

	// Box
	bayArea := models.BoundingBox{South: 36, West: -123, North: 39, East: -121}
	inBox, err := client.GetLocationsWithinBox("samples", bayArea)
	if err != nil {
		t.Fatalf("GetLocationsWithinBox failed: %v", err)
	}
	if len(inBox) != 3 {
		t.Fatalf("Expected 3 results in the Bay Area box, got %d", len(inBox))
	}
	var first map[string]string
	if err := json.Unmarshal([]byte(inBox[0]), &first); err != nil {
		t.Fatalf("Failed to unmarshal JSON: %v", err)
	}
	if first["id"] != "sample:monterey" {
		t.Errorf("Expected members in key order, got %s first", first["id"])
	}

	// Remove
	if err := client.RemoveLocation(ctx, "samples", "sample:monterey"); err != nil {
		t.Fatalf("RemoveLocation failed: %v", err)
	}
	inBox, _ = client.GetLocationsWithinBox("samples", bayArea)
	if len(inBox) != 2 {
		t.Errorf("Expected 2 results after removal, got %d", len(inBox))
	}
	if _, err := client.Get("sample:monterey"); err == nil {
		t.Errorf("Expected member JSON to be removed")
	}
}

func TestRedisClient_Keys(t *testing.T) {
	client := db.NewMockRedisClient(context.Background())
	client.Set("burn_sample_v1:b", "{}")
	client.Set("burn_sample_v1:a", "{}")
	client.Set("burn_refresh_v1", "x")

	keys, err := client.Keys("burn_sample_v1:*")
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "burn_sample_v1:a" || keys[1] != "burn_sample_v1:b" {
		t.Errorf("Unexpected keys %v", keys)
	}
}

// Test Ping for both MockRedisClient and GeoRedisClient
func TestRedisClient_Ping(t *testing.T) {
	tests := []struct {
		name   string
		client db.RedisClient
	}{
		{"MockRedisClient", db.NewMockRedisClient(context.Background())},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Act
			err := test.client.Ping()

			// Assert
			if err != nil {
				t.Errorf("Ping failed: %v", err)
			}
		})
	}
}
