package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Redis Config
const REDIS_DB_ADDRESS = "redis:6379"
const REDIS_DB_PASSWORD = ""
const REDIS_DB = 0

// HTTP server config
const HTTP_ADDRESS = ":8080"
const HTTP_SHUTDOWN_TIMEOUT_SECONDS = 5

// Mapping SDK config
const MAPS_SDK_VERSION = "weekly"
const MAPS_SDK_LANGUAGE = "en"
const MAPS_SDK_REGION = "US"
const MAPS_SDK_LOAD_RETRIES = 3

// Burn refresher config
const BURN_REFRESHER_SCHEDULE_MINUTES = 180
const BURN_REFRESHER_TOTAL_DAYS = 30
const BURN_REFRESHER_CHUNK_DAYS = 10
const BURN_REFRESHER_CHUNK_WAIT_SECONDS = 5

// Burn region: California, as west,south,east,north
const BURN_REGION_WEST = -124.0
const BURN_REGION_SOUTH = 32.0
const BURN_REGION_EAST = -114.0
const BURN_REGION_NORTH = 42.0

// Vegetation (NDVI) config
const VEGETATION_LOOKUP_RADIUS_KM = 0.5

// FIRMS API config
const FIRMS_ENDPOINT_BASE = "https://firms.modaps.eosdis.nasa.gov/api/area/csv"
const FIRMS_SOURCE = "VIIRS_SNPP_NRT"
const FIRMS_MAX_RETRIES = 3
const FIRMS_RETRY_DELAY_SECONDS = 10

// Nominatim geocoder config
const NOMINATIM_ENDPOINT_BASE = "https://nominatim.openstreetmap.org"
const NOMINATIM_USER_AGENT = "burnai-server/1.0"

// Resources file paths
const RESOURCES_PATH_PREFIX = "resources"
const FIRMS_AREA_CSV_RESOURCE = "firms_area_sample.csv"
const PLACES_RESOURCE = "places_sample.json"
const NDVI_CSV_RESOURCE = "ndvi_area_sample.csv"

// Config holds the values that may be overridden from the environment.
type Config struct {
	HTTPAddress          string
	RedisAddress         string
	RedisPassword        string
	GoogleMapsAPIKey     string
	FirmsMapKey          string
	RefreshInterval      time.Duration
	ChunkWait            time.Duration
	MapsSDKLoadRetries   int
	FirmsRetryDelay      time.Duration
	NominatimEndpointURL string
	NDVICSVPath          string
}

// Load reads the environment, falling back to the constants above.
func Load() *Config {
	return &Config{
		HTTPAddress:          getEnv("HTTP_ADDR", HTTP_ADDRESS),
		RedisAddress:         getEnv("REDIS_ADDR", REDIS_DB_ADDRESS),
		RedisPassword:        getEnv("REDIS_PASSWORD", REDIS_DB_PASSWORD),
		GoogleMapsAPIKey:     os.Getenv("GOOGLE_MAPS_API_KEY"),
		FirmsMapKey:          os.Getenv("FIRMS_MAP_KEY"),
		RefreshInterval:      time.Duration(getEnvInt("BURN_REFRESH_MINUTES", BURN_REFRESHER_SCHEDULE_MINUTES)) * time.Minute,
		ChunkWait:            BURN_REFRESHER_CHUNK_WAIT_SECONDS * time.Second,
		MapsSDKLoadRetries:   MAPS_SDK_LOAD_RETRIES,
		FirmsRetryDelay:      FIRMS_RETRY_DELAY_SECONDS * time.Second,
		NominatimEndpointURL: getEnv("NOMINATIM_ENDPOINT", NOMINATIM_ENDPOINT_BASE),
		NDVICSVPath:          getEnv("NDVI_CSV_PATH", GetResourcePath(NDVI_CSV_RESOURCE)),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

// BaseDir returns the absolute path of the project root directory
func BaseDir() string {
	// Check if PROJECT_ROOT is set
	if root := os.Getenv("PROJECT_ROOT"); root != "" {
		return root
	}

	// Default to the current working directory
	wd, err := os.Getwd()
	if err != nil {
		panic("Unable to determine working directory: " + err.Error())
	}

	return wd
}

func GetResourcePath(resource_file string) string {
	return filepath.Join(BaseDir(), RESOURCES_PATH_PREFIX, resource_file)
}
