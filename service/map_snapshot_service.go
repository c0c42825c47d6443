package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"burnai-server/mapsdk/echartsmap"
	"burnai-server/mapsession"
)

var ErrSnapshotNotReady = errors.New("map session did not become ready")

// MapSnapshotService renders one-off server-side maps by driving a map
// session over the echarts SDK: mount, load samples, optional search, render, teardown.
type MapSnapshotService struct {
	burnService *BurnPotentialService
	geocoder    echartsmap.Geocoder
	opts        mapsession.Options
}

// NewMapSnapshotService constructs a new MapSnapshotService.
func NewMapSnapshotService(
	burnService *BurnPotentialService,
	geocoder echartsmap.Geocoder,
	opts mapsession.Options,
) *MapSnapshotService {
	return &MapSnapshotService{
		burnService: burnService,
		geocoder:    geocoder,
		opts:        opts,
	}
}

// Render writes the HTML snapshot to w. A non-empty query is geocoded and
// selected, fitting the view to the results.
func (ms *MapSnapshotService) Render(ctx context.Context, query string, w io.Writer) error {
	page := echartsmap.NewPage(ms.opts.MapAnchorID, ms.opts.SearchAnchorID)
	controller := mapsession.NewController(echartsmap.NewLoader(ms.geocoder), page, ms.opts)

	session, err := controller.Mount(ctx)
	defer session.Teardown()
	if err != nil {
		return fmt.Errorf("mounting map session: %w", err)
	}

	m, ok := session.Map().(*echartsmap.Map)
	if !ok || session.State() != mapsession.StateReady {
		return ErrSnapshotNotReady
	}

	samples, err := ms.burnService.GetSamples(DefaultRegion())
	if err != nil {
		return fmt.Errorf("loading burn samples: %w", err)
	}
	session.UpdateBurnPotentialData(samples)

	if query = strings.TrimSpace(query); query != "" {
		box, ok := session.SearchBox().(*echartsmap.SearchBox)
		if !ok {
			return ErrSnapshotNotReady
		}
		places, err := box.Search(ctx, query)
		if err != nil {
			return fmt.Errorf("searching %q: %w", query, err)
		}
		log.Printf("[MapSnapshotService] Search %q selected %d places", query, len(places))
	}

	return m.Render(w)
}
