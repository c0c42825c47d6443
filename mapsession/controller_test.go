package mapsession

import (
	"context"
	"errors"
	"sync"
	"testing"

	"burnai-server/geo"
	"burnai-server/mapsdk"
	"burnai-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(sdk *fakeSDK, doc fakeDocument) (*Controller, *fakeLoader) {
	loader := &fakeLoader{sdk: sdk}
	return NewController(loader, doc, DefaultOptions("test-key")), loader
}

func mountReady(t *testing.T, sdk *fakeSDK) *MapSession {
	t.Helper()
	c, _ := newTestController(sdk, fullDocument())
	session, err := c.Mount(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateReady, session.State())
	return session
}

func latLng(lat, lng float64) *models.LatLng {
	return &models.LatLng{Lat: lat, Lng: lng}
}

func TestInit_HappyPath(t *testing.T) {
	sdk := &fakeSDK{}
	c, loader := newTestController(sdk, fullDocument())

	session := NewMapSession()
	assert.Equal(t, StateUninitialized, session.State())
	assert.Nil(t, session.Map())
	assert.Nil(t, session.SearchBox())
	assert.Nil(t, session.Heatmap())

	require.NoError(t, c.Init(context.Background(), session))

	assert.Equal(t, StateReady, session.State())
	assert.NotNil(t, session.Map())
	assert.NotNil(t, session.SearchBox())
	assert.NotNil(t, session.Heatmap())

	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, "test-key", loader.opts.APIKey)
	assert.Equal(t, "weekly", loader.opts.Version)
	assert.Equal(t, []string{"places", "visualization"}, loader.opts.Libraries)
	assert.Equal(t, "en", loader.opts.Language)
	assert.Equal(t, "US", loader.opts.Region)
	assert.Equal(t, 3, loader.opts.Retries)

	require.Len(t, sdk.maps, 1)
	assert.Equal(t, MapAnchorID, sdk.maps[0].anchor.ID)
	require.Len(t, sdk.boxes, 1)
	assert.Equal(t, SearchAnchorID, sdk.boxes[0].input.ID)
	assert.Equal(t, 1, sdk.maps[0].Count(mapsdk.EventBoundsChanged))
	assert.Equal(t, 1, sdk.boxes[0].Count(mapsdk.EventPlacesChanged))
}

func TestInit_DefaultMapConstruction(t *testing.T) {
	sdk := &fakeSDK{}
	mountReady(t, sdk)

	opts := sdk.maps[0].opts
	assert.Equal(t, models.LatLng{Lat: 37.7749, Lng: -122.4194}, opts.Center)
	assert.Equal(t, 13, opts.Zoom)
	assert.True(t, opts.DisableMapTypeControl)
	assert.True(t, opts.DisableFullscreenControl)
	assert.True(t, opts.DisableStreetViewControl)
	assert.Equal(t, []mapsdk.StyleRule{{FeatureType: "poi", ElementType: "labels", Visibility: "off"}}, opts.Styles)
}

func TestInit_HeatmapGradientAndEmptyData(t *testing.T) {
	sdk := &fakeSDK{}
	session := mountReady(t, sdk)

	require.Len(t, sdk.heatmaps, 1)
	h := sdk.heatmaps[0]
	assert.Equal(t, []string{
		"rgba(0, 255, 0, 0)",
		"rgba(0, 255, 0, 1)",
		"rgba(255, 255, 0, 1)",
		"rgba(255, 0, 0, 1)",
	}, h.Gradient())
	assert.Empty(t, h.Data())
	assert.Same(t, sdk.maps[0], h.opts.Map)

	// The gradient does not depend on data.
	session.UpdateBurnPotentialData([]models.BurnPotentialSample{{Location: models.LatLng{Lat: 1, Lng: 2}, Value: 1}})
	assert.Equal(t, BurnGradient(), h.Gradient())
}

func TestInit_Failures(t *testing.T) {
	tests := []struct {
		name      string
		loaderErr error
		doc       fakeDocument
		sdk       *fakeSDK
		wantErr   error
		wantMaps  int
		wantMap   bool
	}{
		{
			name:      "sdk load failure",
			loaderErr: mapsdk.ErrLoadFailed,
			doc:       fullDocument(),
			sdk:       &fakeSDK{},
			wantErr:   mapsdk.ErrLoadFailed,
		},
		{
			name:    "missing map anchor",
			doc:     fakeDocument{SearchAnchorID: true},
			sdk:     &fakeSDK{},
			wantErr: ErrMapAnchorMissing,
		},
		{
			name:     "missing search anchor",
			doc:      fakeDocument{MapAnchorID: true},
			sdk:      &fakeSDK{},
			wantErr:  ErrSearchAnchorMissing,
			wantMaps: 1,
			wantMap:  true,
		},
		{
			name:     "search box error",
			doc:      fullDocument(),
			sdk:      &fakeSDK{searchErr: errors.New("places library not loaded")},
			wantErr:  ErrSearchBoxInit,
			wantMaps: 1,
			wantMap:  true,
		},
		{
			name:     "search box panic",
			doc:      fullDocument(),
			sdk:      &fakeSDK{panicOn: true},
			wantErr:  ErrSearchBoxInit,
			wantMaps: 1,
			wantMap:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := &fakeLoader{sdk: tt.sdk, err: tt.loaderErr}
			c := NewController(loader, tt.doc, DefaultOptions(""))

			session, err := c.Mount(context.Background())

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, StateFailed, session.State())
			assert.Nil(t, session.SearchBox())
			assert.Nil(t, session.Heatmap())
			assert.Empty(t, tt.sdk.heatmaps, "heatmap must never be attached after a failure")
			assert.Len(t, tt.sdk.maps, tt.wantMaps)
			assert.Equal(t, tt.wantMap, session.Map() != nil)

			// Updates on a failed session are permanent no-ops.
			assert.NotPanics(t, func() {
				session.UpdateBurnPotentialData([]models.BurnPotentialSample{{Value: 0.5}})
			})

			session.Teardown()
			assert.Nil(t, session.Map(), "teardown releases any map built before the failure")
			assert.Equal(t, StateClosed, session.State())
		})
	}
}

func TestInit_SingleAttempt(t *testing.T) {
	sdk := &fakeSDK{}
	c, loader := newTestController(sdk, fullDocument())
	session, err := c.Mount(context.Background())
	require.NoError(t, err)

	err = c.Init(context.Background(), session)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, StateReady, session.State())
}

func TestUpdateBurnPotentialData_MapsSamplesInOrder(t *testing.T) {
	sdk := &fakeSDK{}
	session := mountReady(t, sdk)

	samples := []models.BurnPotentialSample{
		{Location: models.LatLng{Lat: 37.77, Lng: -122.41}, Value: 0},
		{Location: models.LatLng{Lat: 37.80, Lng: -122.27}, Value: 0.35},
		{Location: models.LatLng{Lat: 38.44, Lng: -122.71}, Value: 1},
	}
	session.UpdateBurnPotentialData(samples)

	got := sdk.heatmaps[0].Data()
	require.Len(t, got, len(samples))
	for i, s := range samples {
		assert.Equal(t, s.Location, got[i].Location)
		assert.Equal(t, s.Value, got[i].Weight)
	}

	// A later update replaces the whole point set.
	session.UpdateBurnPotentialData(samples[:1])
	assert.Len(t, sdk.heatmaps[0].Data(), 1)
	assert.Equal(t, 2, sdk.heatmaps[0].setCalls)

	session.UpdateBurnPotentialData(nil)
	assert.Empty(t, sdk.heatmaps[0].Data())
}

func TestUpdateBurnPotentialData_NoopWhenNotReady(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMapSession().UpdateBurnPotentialData([]models.BurnPotentialSample{{Value: 1}})
	})

	var nilSession *MapSession
	assert.NotPanics(t, func() {
		nilSession.UpdateBurnPotentialData([]models.BurnPotentialSample{{Value: 1}})
	})
}

func TestViewportSync_PropagatesBoundsToSearchBox(t *testing.T) {
	sdk := &fakeSDK{fittedZoom: 10}
	mountReady(t, sdk)
	m, box := sdk.maps[0], sdk.boxes[0]

	m.Fire(mapsdk.EventBoundsChanged)

	assert.Equal(t, 1, box.setCalls)
	assert.Equal(t, m.Bounds(), box.Bounds())
}

func TestPlacesChanged_ZeroPlaces(t *testing.T) {
	sdk := &fakeSDK{fittedZoom: 10}
	mountReady(t, sdk)

	sdk.boxes[0].selectPlaces()

	assert.Empty(t, sdk.markers)
	assert.Empty(t, sdk.maps[0].fitCalls)
	assert.Empty(t, sdk.maps[0].zoomCalls)
}

func TestPlacesChanged_PlaceWithoutGeometry(t *testing.T) {
	sdk := &fakeSDK{fittedZoom: 10}
	mountReady(t, sdk)

	sdk.boxes[0].selectPlaces(mapsdk.Place{Name: "Nowhere"})

	assert.Empty(t, sdk.markers)
	assert.Empty(t, sdk.maps[0].fitCalls)
}

func TestPlacesChanged_SkipsMissingGeometryAndContinues(t *testing.T) {
	sdk := &fakeSDK{fittedZoom: 10}
	session := mountReady(t, sdk)

	sdk.boxes[0].selectPlaces(
		mapsdk.Place{Name: "Nowhere"},
		mapsdk.Place{Name: "Twin Peaks", Geometry: &mapsdk.PlaceGeometry{Location: latLng(37.7544, -122.4477)}},
	)

	require.Len(t, sdk.markers, 1)
	assert.Equal(t, "Twin Peaks", sdk.markers[0].Title())
	assert.Equal(t, models.LatLng{Lat: 37.7544, Lng: -122.4477}, sdk.markers[0].Position())
	assert.Same(t, sdk.maps[0], sdk.markers[0].attached)
	assert.Len(t, session.Markers(), 1)
	require.Len(t, sdk.maps[0].fitCalls, 1)
	assert.True(t, sdk.maps[0].fitCalls[0].Contains(models.LatLng{Lat: 37.7544, Lng: -122.4477}))
}

func TestPlacesChanged_ViewportUnionAndLocationExtend(t *testing.T) {
	sdk := &fakeSDK{fittedZoom: 8}
	mountReady(t, sdk)

	oakland := geo.NewBounds(models.LatLng{Lat: 37.70, Lng: -122.35}, models.LatLng{Lat: 37.88, Lng: -122.11})
	sdk.boxes[0].selectPlaces(
		mapsdk.Place{Name: "Oakland", Geometry: &mapsdk.PlaceGeometry{Location: latLng(37.80, -122.27), Viewport: &oakland}},
		mapsdk.Place{Name: "Point Reyes", Geometry: &mapsdk.PlaceGeometry{Location: latLng(38.07, -122.88)}},
	)

	require.Len(t, sdk.markers, 2)
	require.Len(t, sdk.maps[0].fitCalls, 1)
	fitted := sdk.maps[0].fitCalls[0]
	assert.InDelta(t, 37.70, fitted.SouthWest().Lat, 1e-9)
	assert.InDelta(t, -122.88, fitted.SouthWest().Lng, 1e-9)
	assert.InDelta(t, 38.07, fitted.NorthEast().Lat, 1e-9)
	assert.InDelta(t, -122.11, fitted.NorthEast().Lng, 1e-9)
}

func TestPlacesChanged_ZoomClamp(t *testing.T) {
	tests := []struct {
		name       string
		fittedZoom int
		wantZoom   int
	}{
		{name: "over-zoomed point is clamped", fittedZoom: 18, wantZoom: 14},
		{name: "wide result keeps natural zoom", fittedZoom: 10, wantZoom: 10},
		{name: "exactly at cap", fittedZoom: 14, wantZoom: 14},
		{name: "world-scale fit keeps zoom 0", fittedZoom: 0, wantZoom: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sdk := &fakeSDK{fittedZoom: tt.fittedZoom}
			mountReady(t, sdk)

			sdk.boxes[0].selectPlaces(mapsdk.Place{
				Name:     "Ferry Building",
				Geometry: &mapsdk.PlaceGeometry{Location: latLng(37.7955, -122.3937)},
			})

			assert.Equal(t, tt.wantZoom, sdk.maps[0].Zoom())
			assert.Equal(t, []int{tt.wantZoom}, sdk.maps[0].zoomCalls)
		})
	}
}

func TestTeardown_ReleasesHandlesAndListeners(t *testing.T) {
	sdk := &fakeSDK{fittedZoom: 12}
	session := mountReady(t, sdk)
	sdk.boxes[0].selectPlaces(mapsdk.Place{Name: "Alcatraz", Geometry: &mapsdk.PlaceGeometry{Location: latLng(37.8267, -122.4230)}})
	require.Len(t, sdk.markers, 1)

	session.Teardown()

	assert.Equal(t, StateClosed, session.State())
	assert.Nil(t, session.Map())
	assert.Nil(t, session.SearchBox())
	assert.Nil(t, session.Heatmap())
	assert.Empty(t, session.Markers())
	assert.Equal(t, 0, sdk.maps[0].Count(mapsdk.EventBoundsChanged))
	assert.Equal(t, 0, sdk.boxes[0].Count(mapsdk.EventPlacesChanged))
	assert.Nil(t, sdk.heatmaps[0].attached)
	assert.Nil(t, sdk.markers[0].attached)

	// Updates after teardown are dropped and teardown is idempotent.
	session.UpdateBurnPotentialData([]models.BurnPotentialSample{{Value: 1}})
	assert.Empty(t, sdk.heatmaps[0].Data())
	assert.NotPanics(t, session.Teardown)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "uninitialized", StateUninitialized.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "failed", StateFailed.String())
	assert.Equal(t, "closed", StateClosed.String())
}

func TestUpdateBurnPotentialData_ConcurrentWithTeardown(t *testing.T) {
	sdk := &fakeSDK{}
	session := mountReady(t, sdk)
	samples := []models.BurnPotentialSample{{Location: models.LatLng{Lat: 38.5, Lng: -122.3}, Value: 0.7}}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				session.UpdateBurnPotentialData(samples)
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		session.Teardown()
	}()
	wg.Wait()

	h := sdk.heatmaps[0]
	assert.Nil(t, h.attached)
	assert.Zero(t, h.detachedSets, "no data is applied to a released heatmap")
	assert.Equal(t, StateClosed, session.State())
}
