package nearby

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Geocoder resolves raw coordinates to a human-readable location query.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// MapsGeocoder resolves coordinates through the Google Maps Geocoding API.
type MapsGeocoder struct {
	client *maps.Client
}

// NewMapsGeocoder creates a geocoder with the given API key.
func NewMapsGeocoder(apiKey string) (*MapsGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &MapsGeocoder{client: client}, nil
}

// ReverseGeocode returns the formatted address of the first geocoding result.
func (g *MapsGeocoder) ReverseGeocode(ctx context.Context, lat, lon float64) (string, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lon},
		Language: "zh-TW",
	})
	if err != nil {
		return "", fmt.Errorf("reverse geocode failed: %w", err)
	}
	if len(results) == 0 {
		return "", fmt.Errorf("no geocoding results for %f, %f", lat, lon)
	}
	return results[0].FormattedAddress, nil
}

// CoordinateQuery is the fallback location string when no geocoder is
// configured or the lookup fails.
func CoordinateQuery(lat, lon float64) string {
	return fmt.Sprintf("latitude %f, longitude %f", lat, lon)
}
