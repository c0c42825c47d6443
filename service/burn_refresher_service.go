package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"burnai-server/api/firms"
	"burnai-server/config"
	"burnai-server/dao/redis"
	"burnai-server/mapsession"
	"burnai-server/models"
)

// ErrNoFireData is returned when no chunk of a refresh produced any rows.
var ErrNoFireData = errors.New("no fire data retrieved")

// VegetationLookup resolves the NDVI near a point. ok is false when no cell is close enough.
type VegetationLookup interface {
	NDVIAt(p models.LatLng) (value float64, ok bool, err error)
}

// Publisher receives the full heatmap after each successful refresh.
type Publisher interface {
	Publish(resp *models.HeatmapResponse)
}

// dedupeKey identifies duplicate detections across overlapping chunks.
type dedupeKey struct {
	lat, lon float64
	acqDate  string
	frp      float64
}

// BurnRefresherService periodically rebuilds burn potential samples from FIRMS.
type BurnRefresherService struct {
	burnDao    *redis.RedisBurnDAO
	firmsAPI   firms.FirmsAPI
	publisher  Publisher
	vegetation VegetationLookup
	region     models.BoundingBox
	totalDays  int
	chunkDays  int
	chunkWait  time.Duration
	archiveDir string
	now        func() time.Time
}

// NewBurnRefresherService constructs a new refresher with dependencies.
// publisher may be nil.
func NewBurnRefresherService(
	burnDao *redis.RedisBurnDAO,
	firmsAPI firms.FirmsAPI,
	publisher Publisher,
) *BurnRefresherService {
	return &BurnRefresherService{
		burnDao:   burnDao,
		firmsAPI:  firmsAPI,
		publisher: publisher,
		region:    DefaultRegion(),
		totalDays: config.BURN_REFRESHER_TOTAL_DAYS,
		chunkDays: config.BURN_REFRESHER_CHUNK_DAYS,
		chunkWait: config.BURN_REFRESHER_CHUNK_WAIT_SECONDS * time.Second,
		now:       time.Now,
	}
}

// SetChunkWait overrides the pause between chunk requests.
func (br *BurnRefresherService) SetChunkWait(d time.Duration) {
	br.chunkWait = d
}

// SetVegetation makes each refresh weight scores by the fuel factor of the
// nearest NDVI cell. Samples without a nearby cell keep the fire score.
func (br *BurnRefresherService) SetVegetation(v VegetationLookup) {
	br.vegetation = v
}

// SetArchiveDir makes each refresh write a dated summary CSV into dir.
func (br *BurnRefresherService) SetArchiveDir(dir string) {
	br.archiveDir = dir
}

// StartPeriodicJob launches the background loop at the given interval until ctx is done.
func (br *BurnRefresherService) StartPeriodicJob(ctx context.Context, interval time.Duration) {
	go br.startPeriodicJob(ctx, interval)
}

func (br *BurnRefresherService) startPeriodicJob(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[BurnRefresherService] Periodic job stopped.")
			return
		case <-ticker.C:
			log.Println("[BurnRefresherService] Running periodic burn refresher job.")
			if err := br.RefreshBurnData(ctx); err != nil {
				log.Printf("[BurnRefresherService] RefreshBurnData returned error: %v", err)
			} else {
				log.Println("[BurnRefresherService] RefreshBurnData completed successfully.")
			}
		}
	}
}

// RefreshBurnData fetches, filters, scores and stores the latest detections,
// then publishes the new heatmap. The cache is untouched when nothing was fetched.
func (br *BurnRefresherService) RefreshBurnData(ctx context.Context) error {
	// 1) Fetch chunks
	detections, err := br.fetchChunks(ctx)
	if err != nil {
		return err
	}

	// 2) Filter to the region and dedupe
	detections = br.filterAndDedupe(detections)
	log.Printf("[BurnRefresherService] %d unique detections inside region", len(detections))

	// 3) Score, upsert, drop stale samples
	samples := ScoreDetections(detections)
	br.applyVegetation(samples)
	if err := br.storeSamples(samples); err != nil {
		return err
	}

	refreshedAt := br.now().UTC()
	if err := br.burnDao.SetLastRefresh(refreshedAt); err != nil {
		log.Printf("[BurnRefresherService] SetLastRefresh failed: %v", err)
	}

	if br.archiveDir != "" {
		if err := br.archive(detections, refreshedAt); err != nil {
			log.Printf("[BurnRefresherService] Archive failed: %v", err)
		}
	}

	// 4) Publish
	if br.publisher != nil {
		points := mapsession.ToHeatmapPoints(samples)
		br.publisher.Publish(&models.HeatmapResponse{Points: points, Count: len(points), RefreshedAt: &refreshedAt})
	}
	return nil
}

// fetchChunks requests totalDays in chunks of at most chunkDays. Failed chunks are skipped.
func (br *BurnRefresherService) fetchChunks(ctx context.Context) ([]models.FireDetection, error) {
	var all []models.FireDetection
	fetched := 0
	remaining := br.totalDays

	for remaining > 0 {
		days := br.chunkDays
		if remaining < days {
			days = remaining
		}

		chunk, err := br.firmsAPI.GetAreaDetections(ctx, br.region, days)
		if err != nil {
			log.Printf("[BurnRefresherService] Chunk of %d days failed: %v", days, err)
		} else if len(chunk) > 0 {
			fetched++
			all = append(all, chunk...)
		}

		remaining -= days
		if remaining > 0 && br.chunkWait > 0 {
			log.Printf("[BurnRefresherService] Waiting %v before next request...", br.chunkWait)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(br.chunkWait):
			}
		}
	}

	if fetched == 0 {
		return nil, ErrNoFireData
	}
	return all, nil
}

// filterAndDedupe keeps detections strictly inside the region, first occurrence wins.
func (br *BurnRefresherService) filterAndDedupe(detections []models.FireDetection) []models.FireDetection {
	seen := make(map[dedupeKey]struct{}, len(detections))
	out := make([]models.FireDetection, 0, len(detections))
	for _, d := range detections {
		if !(d.Latitude > br.region.South && d.Latitude < br.region.North &&
			d.Longitude > br.region.West && d.Longitude < br.region.East) {
			continue
		}
		key := dedupeKey{lat: d.Latitude, lon: d.Longitude, acqDate: d.AcqDate, frp: d.FRP}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, d)
	}
	return out
}

func (br *BurnRefresherService) applyVegetation(samples []models.BurnPotentialSample) {
	if br.vegetation == nil {
		return
	}
	weighted := 0
	for i := range samples {
		value, ok, err := br.vegetation.NDVIAt(samples[i].Location)
		if err != nil {
			log.Printf("[BurnRefresherService] NDVI lookup failed for %s: %v", samples[i].ID, err)
			continue
		}
		if !ok {
			continue
		}
		samples[i].Value *= FuelFactor(value)
		weighted++
	}
	log.Printf("[BurnRefresherService] Weighted %d of %d samples by vegetation", weighted, len(samples))
}

func (br *BurnRefresherService) storeSamples(samples []models.BurnPotentialSample) error {
	previous, err := br.burnDao.ListSampleIDs()
	if err != nil {
		return fmt.Errorf("[BurnRefresherService] listing existing samples: %w", err)
	}

	current := make(map[string]struct{}, len(samples))
	for _, s := range samples {
		current[s.ID] = struct{}{}
		if err := br.burnDao.UpsertSample(s); err != nil {
			log.Printf("[BurnRefresherService] Upsert failed for %s: %v", s.ID, err)
		}
	}

	stale := 0
	for _, id := range previous {
		if _, ok := current[id]; ok {
			continue
		}
		if err := br.burnDao.DeleteSample(id); err != nil {
			log.Printf("[BurnRefresherService] Failed to delete stale sample %s: %v", id, err)
			continue
		}
		stale++
	}
	log.Printf("[BurnRefresherService] Stored %d samples, removed %d stale", len(samples), stale)
	return nil
}

func (br *BurnRefresherService) archive(detections []models.FireDetection, at time.Time) error {
	if err := os.MkdirAll(br.archiveDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(br.archiveDir, fmt.Sprintf("fire_detections_%s.csv", at.Format("20060102")))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := firms.WriteSummaryCSV(f, detections); err != nil {
		return err
	}
	log.Printf("[BurnRefresherService] Data saved to %s", path)
	return nil
}
