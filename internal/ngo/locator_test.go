package ngo

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"

	"github.com/anna-sampada/spoilage-backend/internal/common"
)

type fakePlacesSearcher struct {
	gotReq *maps.NearbySearchRequest
	resp   maps.PlacesSearchResponse
	err    error
}

func (f *fakePlacesSearcher) NearbySearch(_ context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error) {
	f.gotReq = r
	return f.resp, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNearbyMapsResults(t *testing.T) {
	fake := &fakePlacesSearcher{
		resp: maps.PlacesSearchResponse{
			Results: []maps.PlacesSearchResult{
				{
					PlaceID:  "place-1",
					Name:     "Helping Hands Food Bank",
					Vicinity: "12 MG Road, Bengaluru",
					Geometry: maps.AddressGeometry{
						Location: maps.LatLng{Lat: 12.97, Lng: 77.59},
					},
				},
				{
					PlaceID: "place-2",
					Name:    "Seva Trust",
					Geometry: maps.AddressGeometry{
						Location: maps.LatLng{Lat: 12.98, Lng: 77.60},
					},
				},
			},
		},
	}
	l := NewLocatorWithClient(fake, 3000, testLogger())

	got, err := l.Nearby(context.Background(), 12.9716, 77.5946)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, NGO{
		ID:       "place-1",
		Name:     "Helping Hands Food Bank",
		Address:  "12 MG Road, Bengaluru",
		Location: Location{Lat: 12.97, Lng: 77.59},
	}, got[0])

	// Missing vicinity falls back to a placeholder address.
	assert.Equal(t, "Address not available", got[1].Address)

	require.NotNil(t, fake.gotReq)
	assert.Equal(t, uint(3000), fake.gotReq.Radius)
	assert.Equal(t, searchKeyword, fake.gotReq.Keyword)
	assert.Equal(t, &maps.LatLng{Lat: 12.9716, Lng: 77.5946}, fake.gotReq.Location)
}

func TestNearbyEmptyResults(t *testing.T) {
	l := NewLocatorWithClient(&fakePlacesSearcher{}, 0, testLogger())

	got, err := l.Nearby(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNearbySearchError(t *testing.T) {
	l := NewLocatorWithClient(&fakePlacesSearcher{err: errors.New("quota exceeded")}, 0, testLogger())

	_, err := l.Nearby(context.Background(), 12.97, 77.59)
	require.Error(t, err)
	assert.True(t, common.IsUnavailable(err))
}

func TestDefaultRadius(t *testing.T) {
	fake := &fakePlacesSearcher{}
	l := NewLocatorWithClient(fake, 0, testLogger())

	_, err := l.Nearby(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, uint(5000), fake.gotReq.Radius)
}

func TestNewLocatorRequiresKey(t *testing.T) {
	_, err := NewLocator("", 0, testLogger())
	require.Error(t, err)
}
