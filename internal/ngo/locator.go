package ngo

import (
	"context"
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"

	"github.com/anna-sampada/spoilage-backend/internal/common"
)

const searchKeyword = "NGO OR food bank OR food donation"

// Location is a WGS84 point.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NGO is one nearby donation candidate.
type NGO struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	Location Location `json:"location"`
}

// PlacesSearcher is the slice of the Maps client the locator needs.
type PlacesSearcher interface {
	NearbySearch(ctx context.Context, r *maps.NearbySearchRequest) (maps.PlacesSearchResponse, error)
}

type Locator struct {
	client PlacesSearcher
	radius uint
	logger *slog.Logger
}

func NewLocator(apiKey string, radius uint, logger *slog.Logger) (*Locator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google maps API key is required")
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create maps client: %w", err)
	}
	return NewLocatorWithClient(client, radius, logger), nil
}

func NewLocatorWithClient(client PlacesSearcher, radius uint, logger *slog.Logger) *Locator {
	if radius == 0 {
		radius = 5000
	}
	return &Locator{client: client, radius: radius, logger: logger}
}

// Nearby finds donation-capable organizations around the given point.
func (l *Locator) Nearby(ctx context.Context, lat, lng float64) ([]NGO, error) {
	resp, err := l.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: lat, Lng: lng},
		Radius:   l.radius,
		Keyword:  searchKeyword,
	})
	if err != nil {
		l.logger.Error("ngo.search.failed", "lat", lat, "lng", lng, "error", err)
		return nil, common.UnavailableErrorf("places search failed")
	}

	out := make([]NGO, 0, len(resp.Results))
	for _, place := range resp.Results {
		address := place.Vicinity
		if address == "" {
			address = "Address not available"
		}
		out = append(out, NGO{
			ID:      place.PlaceID,
			Name:    place.Name,
			Address: address,
			Location: Location{
				Lat: place.Geometry.Location.Lat,
				Lng: place.Geometry.Location.Lng,
			},
		})
	}
	l.logger.Info("ngo.search.ok", "lat", lat, "lng", lng, "results", len(out))
	return out, nil
}
