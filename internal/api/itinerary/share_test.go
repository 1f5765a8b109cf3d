package itinerary

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voyageai/go-trip-planner/internal/types"
)

func TestSharePreferences_RoundTrip(t *testing.T) {
	prefs := types.UserPreferences{
		Origin:              "台北",
		Destination:         "東京",
		Duration:            5,
		BudgetAmount:        50000,
		TravelStyle:         "Relaxed",
		Companions:          "Family",
		TransportPreference: "鐵路",
		DietaryRestrictions: "素食",
		SpecialRequests:     "帶小孩",
		Interests:           []string{"美食", "溫泉", "動漫"},
	}

	decoded := DecodePreferences(EncodePreferences(prefs))
	assert.Equal(t, prefs, decoded)
}

func TestEncodePreferences_OmitsEmptyOptionalFields(t *testing.T) {
	q := EncodePreferences(types.UserPreferences{
		Origin:      "台北",
		Destination: "東京",
		Duration:    2,
	})
	assert.False(t, q.Has("style"))
	assert.False(t, q.Has("interests"))
	assert.Equal(t, "2", q.Get("days"))
}

func TestDecodePreferences_IgnoresGarbageNumbers(t *testing.T) {
	q := url.Values{}
	q.Set("origin", "台北")
	q.Set("destination", "東京")
	q.Set("days", "not-a-number")
	q.Set("interests", " 美食 ,, 歷史 ")

	prefs := DecodePreferences(q)
	assert.Equal(t, 0, prefs.Duration)
	assert.Equal(t, []string{"美食", "歷史"}, prefs.Interests)
}
