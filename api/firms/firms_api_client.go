package firms

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"burnai-server/api"
	"burnai-server/config"
	"burnai-server/models"

	"github.com/cenkalti/backoff/v4"
)

// MaxDaysPerRequest is the widest day range the area endpoint accepts.
const MaxDaysPerRequest = 10

var ErrInvalidDays = errors.New("FIRMS day range must be between 1 and 10")

// FirmsApiClient embeds the common HTTPClient
type FirmsApiClient struct {
	*api.HTTPClient
	mapKey     string
	source     string
	maxRetries int
	retryDelay time.Duration
}

// NewFirmsApiClient creates a new instance of FirmsApiClient
func NewFirmsApiClient(httpClient *api.HTTPClient) *FirmsApiClient {
	return &FirmsApiClient{
		HTTPClient: httpClient,
		source:     config.FIRMS_SOURCE,
		maxRetries: config.FIRMS_MAX_RETRIES,
		retryDelay: config.FIRMS_RETRY_DELAY_SECONDS * time.Second,
	}
}

// SetMapKey sets the FIRMS MAP_KEY used in request paths
func (c *FirmsApiClient) SetMapKey(mapKey string) {
	c.mapKey = mapKey
}

// SetRetryPolicy overrides how often and how long to wait when rate limited
func (c *FirmsApiClient) SetRetryPolicy(maxRetries int, retryDelay time.Duration) {
	if maxRetries < 1 {
		maxRetries = 1
	}
	c.maxRetries = maxRetries
	c.retryDelay = retryDelay
}

// GetAreaDetections fetches one chunk of detections. Rate limiting (429) is
// retried up to the configured attempts; any other failure is returned at once.
func (c *FirmsApiClient) GetAreaDetections(ctx context.Context, area models.BoundingBox, days int) ([]models.FireDetection, error) {
	if days < 1 || days > MaxDaysPerRequest {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidDays, days)
	}

	endpoint := fmt.Sprintf("/%s/%s/%s/%d", c.mapKey, c.source, AreaString(area), days)
	log.Printf("[FirmsApiClient] Requesting %s area=%s days=%d", c.source, AreaString(area), days)

	var body []byte
	attempt := 0
	operation := func() error {
		attempt++
		log.Printf("[FirmsApiClient] Fetching data, attempt %d...", attempt)
		var err error
		body, err = c.RequestRaw(ctx, http.MethodGet, endpoint, nil, nil)
		if err == nil {
			return nil
		}
		var statusErr *api.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusTooManyRequests {
			log.Printf("[FirmsApiClient] Rate limit hit, waiting %v...", c.retryDelay)
			return err
		}
		return backoff.Permanent(err)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.retryDelay), uint64(c.maxRetries-1)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("[FirmsApiClient] request failed after %d attempt(s): %w", attempt, err)
	}

	detections, err := ParseAreaCSV(body)
	if err != nil {
		return nil, err
	}
	log.Printf("[FirmsApiClient] Retrieved %d records", len(detections))
	return detections, nil
}

// AreaString formats a bounding box as the west,south,east,north path segment.
func AreaString(area models.BoundingBox) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return f(area.West) + "," + f(area.South) + "," + f(area.East) + "," + f(area.North)
}
