package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"burnai-server/config"
	"burnai-server/dao/redis"
	"burnai-server/mapsession"
	"burnai-server/models"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FRP_SATURATION_MW is the fire radiative power treated as maximum burn potential.
const FRP_SATURATION_MW = 100.0

// LOW_CONFIDENCE_FACTOR scales the score of low-confidence detections.
const LOW_CONFIDENCE_FACTOR = 0.5

// DefaultRegion is the area samples are collected for and served by default.
func DefaultRegion() models.BoundingBox {
	return models.BoundingBox{
		South: config.BURN_REGION_SOUTH,
		West:  config.BURN_REGION_WEST,
		North: config.BURN_REGION_NORTH,
		East:  config.BURN_REGION_EAST,
	}
}

// BurnPotentialService serves cached burn potential samples.
type BurnPotentialService struct {
	burnDao *redis.RedisBurnDAO
}

// NewBurnPotentialService constructs a new BurnPotentialService with Redis dependency injection.
func NewBurnPotentialService(burnDao *redis.RedisBurnDAO) *BurnPotentialService {
	return &BurnPotentialService{burnDao: burnDao}
}

// Score maps a detection's fire radiative power into [0, 1].
// Low-confidence detections are scaled after clamping, so they never exceed
// LOW_CONFIDENCE_FACTOR.
func Score(d models.FireDetection) float64 {
	v := ClampUnit(d.FRP / FRP_SATURATION_MW)
	if strings.EqualFold(d.Confidence, "l") || strings.EqualFold(d.Confidence, "low") {
		v *= LOW_CONFIDENCE_FACTOR
	}
	return v
}

// ClampUnit clamps v into [0, 1]. NaN maps to 0.
func ClampUnit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SampleID is deterministic for a given detection.
func SampleID(d models.FireDetection) string {
	return fmt.Sprintf("%s,%s,%s,%s",
		strconv.FormatFloat(d.Latitude, 'f', -1, 64),
		strconv.FormatFloat(d.Longitude, 'f', -1, 64),
		d.AcqDate, d.AcqTime)
}

// ScoreDetections converts detections into burn potential samples.
func ScoreDetections(detections []models.FireDetection) []models.BurnPotentialSample {
	samples := make([]models.BurnPotentialSample, 0, len(detections))
	for _, d := range detections {
		samples = append(samples, models.BurnPotentialSample{
			ID:       SampleID(d),
			Location: models.LatLng{Lat: d.Latitude, Lng: d.Longitude},
			Value:    Score(d),
			AcqDate:  d.AcqDate,
		})
	}
	return samples
}

// ErrInvalidSample is returned for imported samples outside the valid ranges.
var ErrInvalidSample = errors.New("invalid burn potential sample")

// PrepareSamples validates imported samples and assigns a random ID wherever
// one is missing. Values must lie in [0, 1] and coordinates on the globe.
func PrepareSamples(samples []models.BurnPotentialSample) ([]models.BurnPotentialSample, error) {
	out := make([]models.BurnPotentialSample, len(samples))
	for i, s := range samples {
		if math.IsNaN(s.Value) || s.Value < 0 || s.Value > 1 {
			return nil, fmt.Errorf("%w: sample %d value %v outside [0, 1]", ErrInvalidSample, i, s.Value)
		}
		if math.IsNaN(s.Location.Lat) || math.IsNaN(s.Location.Lng) ||
			s.Location.Lat < -90 || s.Location.Lat > 90 || s.Location.Lng < -180 || s.Location.Lng > 180 {
			return nil, fmt.Errorf("%w: sample %d location %v,%v", ErrInvalidSample, i, s.Location.Lat, s.Location.Lng)
		}
		if s.ID == "" {
			s.ID = uuid.NewString()
		}
		out[i] = s
	}
	return out, nil
}

func (bs *BurnPotentialService) GetSamples(box models.BoundingBox) ([]models.BurnPotentialSample, error) {
	return bs.burnDao.GetSamplesInBounds(box)
}

// GetHeatmap returns the samples inside box as weighted heatmap points.
func (bs *BurnPotentialService) GetHeatmap(box models.BoundingBox) (*models.HeatmapResponse, error) {
	samples, err := bs.burnDao.GetSamplesInBounds(box)
	if err != nil {
		return nil, err
	}
	refreshedAt, err := bs.burnDao.GetLastRefresh()
	if err != nil {
		return nil, err
	}
	points := mapsession.ToHeatmapPoints(samples)
	return &models.HeatmapResponse{Points: points, Count: len(points), RefreshedAt: refreshedAt}, nil
}

// GetGeoJSON returns the samples inside box as a point FeatureCollection.
func (bs *BurnPotentialService) GetGeoJSON(box models.BoundingBox) (*geojson.FeatureCollection, error) {
	samples, err := bs.burnDao.GetSamplesInBounds(box)
	if err != nil {
		return nil, err
	}
	fc := geojson.NewFeatureCollection()
	for _, s := range samples {
		f := geojson.NewFeature(orb.Point{s.Location.Lng, s.Location.Lat})
		f.ID = s.ID
		f.Properties["burn_potential"] = s.Value
		if s.AcqDate != "" {
			f.Properties["acq_date"] = s.AcqDate
		}
		fc.Append(f)
	}
	return fc, nil
}
