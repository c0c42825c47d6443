package services

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"burnai-server/api/nominatim"
	"burnai-server/geo"
	"burnai-server/mapsdk"
	"burnai-server/mapsession"
	"burnai-server/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingGeocoder struct{}

func (failingGeocoder) Search(ctx context.Context, query string, bias geo.Bounds) ([]mapsdk.Place, error) {
	return nil, errors.New("geocoder unavailable")
}

func newSnapshotService(t *testing.T) *MapSnapshotService {
	t.Helper()
	dao := newBurnDao()
	require.NoError(t, dao.UpsertSample(models.BurnPotentialSample{ID: "napa", Location: models.LatLng{Lat: 38.29, Lng: -122.28}, Value: 0.9}))
	return NewMapSnapshotService(
		NewBurnPotentialService(dao),
		nominatim.NewNominatimApiClientMock("../resources/places_sample.json"),
		mapsession.DefaultOptions(""),
	)
}

func TestMapSnapshotService_Render(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newSnapshotService(t).Render(context.Background(), "", &buf))
	assert.Contains(t, buf.String(), "Burn Potential")
	assert.NotContains(t, buf.String(), "Napa, California")
}

func TestMapSnapshotService_RenderWithQuery(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newSnapshotService(t).Render(context.Background(), "  napa ", &buf))
	assert.Contains(t, buf.String(), "Napa, California")
}

func TestMapSnapshotService_SearchFailure(t *testing.T) {
	svc := NewMapSnapshotService(NewBurnPotentialService(newBurnDao()), failingGeocoder{}, mapsession.DefaultOptions(""))

	var buf bytes.Buffer
	err := svc.Render(context.Background(), "napa", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "geocoder unavailable")
	assert.Zero(t, buf.Len())
}

func TestMapSnapshotService_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := newSnapshotService(t).Render(ctx, "", &buf)
	assert.ErrorIs(t, err, mapsdk.ErrLoadFailed)
}
