// Package mapsession brings a mapping widget up once per mounted view, wires
// place search and viewport sync into it and owns the burn potential heatmap
// overlay whose data can be replaced wholesale.
package mapsession

import (
	"context"
	"errors"
	"fmt"
	"log"

	"burnai-server/mapsdk"
	"burnai-server/models"
)

var (
	ErrMapAnchorMissing    = errors.New("map container element not found")
	ErrSearchAnchorMissing = errors.New("search input element not found")
	ErrSearchBoxInit       = errors.New("search box initialization failed")
	ErrAlreadyInitialized  = errors.New("map session already initialized")
)

// Controller runs the initialization sequence of a MapSession against an SDK.
type Controller struct {
	loader   mapsdk.Loader
	document mapsdk.Document
	opts     Options
}

// NewController creates a controller for the given loader and anchor document.
func NewController(loader mapsdk.Loader, document mapsdk.Document, opts Options) *Controller {
	if opts.MaxPlaceZoom <= 0 {
		opts.MaxPlaceZoom = DefaultMaxPlaceZoom
	}
	if opts.MapAnchorID == "" {
		opts.MapAnchorID = MapAnchorID
	}
	if opts.SearchAnchorID == "" {
		opts.SearchAnchorID = SearchAnchorID
	}
	return &Controller{loader: loader, document: document, opts: opts}
}

// Options returns the controller options.
func (c *Controller) Options() Options {
	return c.opts
}

// Mount creates a session and initializes it. The session is returned even
// when initialization fails so the caller can still tear it down.
func (c *Controller) Mount(ctx context.Context) (*MapSession, error) {
	session := NewMapSession()
	return session, c.Init(ctx, session)
}

// Init loads the SDK and wires map, search box, listeners and heatmap into
// session. Any failure is logged, leaves the session Failed and is not retried.
func (c *Controller) Init(ctx context.Context, session *MapSession) error {
	session.mu.Lock()
	if session.state != StateUninitialized {
		state := session.state
		session.mu.Unlock()
		return fmt.Errorf("%w: state %s", ErrAlreadyInitialized, state)
	}
	session.state = StateLoading
	session.maxPlaceZoom = c.opts.MaxPlaceZoom
	session.mu.Unlock()

	log.Printf("[MapLifecycleController] Starting map initialization for session %s", session.id)
	if err := c.init(ctx, session); err != nil {
		log.Printf("[MapLifecycleController] Map initialization failed for session %s: %v", session.id, err)
		session.mu.Lock()
		session.state = StateFailed
		session.mu.Unlock()
		return err
	}
	log.Printf("[MapLifecycleController] Map session %s ready", session.id)
	return nil
}

func (c *Controller) init(ctx context.Context, session *MapSession) error {
	sdk, err := c.loader.Load(ctx, c.opts.Loader)
	if err != nil {
		return fmt.Errorf("loading mapping sdk: %w", err)
	}

	anchor, ok := c.document.ElementByID(c.opts.MapAnchorID)
	if !ok {
		return fmt.Errorf("%w: #%s", ErrMapAnchorMissing, c.opts.MapAnchorID)
	}

	m, err := sdk.NewMap(anchor, c.opts.MapOptions())
	if err != nil {
		return fmt.Errorf("constructing map: %w", err)
	}

	input, ok := c.document.ElementByID(c.opts.SearchAnchorID)
	if !ok {
		session.publishMap(sdk, m)
		return fmt.Errorf("%w: #%s", ErrSearchAnchorMissing, c.opts.SearchAnchorID)
	}

	searchBox, err := newSearchBox(sdk, input)
	if err != nil {
		// The map stays usable without search or heatmap.
		session.publishMap(sdk, m)
		return err
	}

	subs := []mapsdk.Subscription{
		m.AddListener(mapsdk.EventBoundsChanged, session.SyncViewport),
		searchBox.AddListener(mapsdk.EventPlacesChanged, func() {
			session.HandlePlacesChanged(searchBox.Places())
		}),
	}

	heatmap, err := sdk.NewHeatmapLayer(mapsdk.HeatmapOptions{
		Map:      m,
		Data:     []models.HeatmapPoint{},
		Gradient: BurnGradient(),
	})
	if err != nil {
		for _, sub := range subs {
			sub.Remove()
		}
		return fmt.Errorf("constructing heatmap layer: %w", err)
	}

	session.mu.Lock()
	session.sdk = sdk
	session.mapWidget = m
	session.searchBox = searchBox
	session.heatmap = heatmap
	session.subscriptions = append(session.subscriptions, subs...)
	session.state = StateReady
	session.mu.Unlock()
	return nil
}

// newSearchBox attaches the place-search control, turning a panicking SDK
// constructor into ErrSearchBoxInit.
func newSearchBox(sdk mapsdk.SDK, input mapsdk.Element) (sb mapsdk.SearchBox, err error) {
	defer func() {
		if r := recover(); r != nil {
			sb, err = nil, fmt.Errorf("%w: %v", ErrSearchBoxInit, r)
		}
	}()
	sb, err = sdk.NewSearchBox(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchBoxInit, err)
	}
	return sb, nil
}
