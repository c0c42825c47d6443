// Package echartsmap is a server-side mapping SDK. It keeps map, search,
// heatmap and marker state in memory and renders the result as a go-echarts
// geo chart.
package echartsmap

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"burnai-server/geo"
	"burnai-server/mapsdk"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-echarts/go-echarts/v2/datasets"
)

// Default viewport in pixels, matching the rendered chart size.
const (
	DefaultWidthPx  = 900
	DefaultHeightPx = 500
)

// Geocoder resolves search box queries.
type Geocoder interface {
	Search(ctx context.Context, query string, bias geo.Bounds) ([]mapsdk.Place, error)
}

// ErrUnsupportedLibrary is returned when a requested library cannot be served.
var ErrUnsupportedLibrary = errors.New("unsupported sdk library")

// Loader brings up an SDK. Check, when set, is retried with a constant
// backoff up to LoaderOptions.Retries attempts before the load fails.
// NewLoader installs CheckLibraries as the check.
type Loader struct {
	Geocoder   Geocoder
	Check      func(ctx context.Context, opts mapsdk.LoaderOptions) error
	RetryDelay time.Duration
	WidthPx    int
	HeightPx   int
}

// NewLoader creates a Loader with the default viewport size
func NewLoader(geocoder Geocoder) *Loader {
	l := &Loader{
		Geocoder:   geocoder,
		RetryDelay: 500 * time.Millisecond,
		WidthPx:    DefaultWidthPx,
		HeightPx:   DefaultHeightPx,
	}
	l.Check = l.CheckLibraries
	return l
}

// CheckLibraries verifies every requested library is backed: "places" needs a
// geocoder and "visualization" needs the world map asset of go-echarts.
func (l *Loader) CheckLibraries(ctx context.Context, opts mapsdk.LoaderOptions) error {
	for _, lib := range opts.Libraries {
		switch lib {
		case "places":
			if l.Geocoder == nil {
				return fmt.Errorf("%w: places requires a geocoder", ErrUnsupportedLibrary)
			}
		case "visualization":
			if _, ok := datasets.PresetMapFileNames[worldMap]; !ok {
				return fmt.Errorf("%w: visualization requires the %s map", ErrUnsupportedLibrary, worldMap)
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedLibrary, lib)
		}
	}
	return nil
}

// Load implements mapsdk.Loader.
func (l *Loader) Load(ctx context.Context, opts mapsdk.LoaderOptions) (mapsdk.SDK, error) {
	attempts := opts.Retries
	if attempts < 1 {
		attempts = 1
	}

	attempt := 0
	operation := func() error {
		attempt++
		if err := ctx.Err(); err != nil {
			return backoff.Permanent(err)
		}
		if l.Check == nil {
			return nil
		}
		if err := l.Check(ctx, opts); err != nil {
			log.Printf("[EchartsMapLoader] Load attempt %d/%d failed: %v", attempt, attempts, err)
			return err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(l.RetryDelay), uint64(attempts-1)),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("%w: %v", mapsdk.ErrLoadFailed, err)
	}

	log.Printf("[EchartsMapLoader] SDK ready (version=%s, libraries=%v)", opts.Version, opts.Libraries)
	return &SDK{
		geocoder: l.Geocoder,
		widthPx:  orDefault(l.WidthPx, DefaultWidthPx),
		heightPx: orDefault(l.HeightPx, DefaultHeightPx),
	}, nil
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
