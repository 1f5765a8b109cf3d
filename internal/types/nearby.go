package types

import (
	"time"

	"github.com/google/uuid"
)

// PlaceType categorizes a nearby recommendation.
type PlaceType string

const (
	PlaceRestaurant PlaceType = "restaurant"
	PlaceAttraction PlaceType = "attraction"
	PlaceShop       PlaceType = "shop"
)

// ValidPlaceType reports whether t is one of the closed place categories.
func ValidPlaceType(t PlaceType) bool {
	switch t {
	case PlaceRestaurant, PlaceAttraction, PlaceShop:
		return true
	}
	return false
}

// RadiusLabels is the fixed set of human-readable distance bands accepted by
// nearby search, ordered from narrowest to widest.
var RadiusLabels = []string{"100m", "300m", "500m", "1km", "3km", "5km", "10km"}

// DefaultRadius is used when a request omits the radius.
const DefaultRadius = "1km"

// ValidRadius reports whether label is one of the fixed radius bands.
func ValidRadius(label string) bool {
	for _, r := range RadiusLabels {
		if r == label {
			return true
		}
	}
	return false
}

// NearbyPlace is a single recommended restaurant, attraction, or shop near a
// queried location. Rating and PriceLevel are display strings from the model.
type NearbyPlace struct {
	Name        string    `json:"name"`
	Type        PlaceType `json:"type"`
	Description string    `json:"description"`
	Address     string    `json:"address"`
	Rating      string    `json:"rating"`
	PriceLevel  string    `json:"priceLevel"`
	Tags        []string  `json:"tags"`
}

// SearchRecord is a persisted nearby-search query plus its results.
type SearchRecord struct {
	ID           uuid.UUID     `json:"id"`
	Timestamp    time.Time     `json:"timestamp"`
	LocationName string        `json:"locationName"`
	Radius       string        `json:"radius"`
	Results      []NearbyPlace `json:"results"`
}
