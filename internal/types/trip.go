package types

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType categorizes a single itinerary activity. The set is closed and
// mirrors the enum the model is asked to produce.
type ActivityType string

const (
	ActivityFood        ActivityType = "food"
	ActivitySightseeing ActivityType = "sightseeing"
	ActivityRelax       ActivityType = "relax"
	ActivityTravel      ActivityType = "travel"
	ActivityShopping    ActivityType = "shopping"
	ActivityOther       ActivityType = "other"
)

// ValidActivityType reports whether t is one of the closed activity categories.
func ValidActivityType(t ActivityType) bool {
	switch t {
	case ActivityFood, ActivitySightseeing, ActivityRelax, ActivityTravel, ActivityShopping, ActivityOther:
		return true
	}
	return false
}

// UserPreferences holds one form submission of trip inputs. Immutable once
// submitted; also reconstructable from share-link query parameters.
type UserPreferences struct {
	Origin              string   `json:"origin"`
	Destination         string   `json:"destination"`
	Duration            int      `json:"duration"` // days, 1-14 in the UI
	BudgetAmount        int      `json:"budgetAmount"`
	TravelStyle         string   `json:"travelStyle"`
	Companions          string   `json:"companions"`
	TransportPreference string   `json:"transportPreference"`
	DietaryRestrictions string   `json:"dietaryRestrictions"`
	SpecialRequests     string   `json:"specialRequests"`
	Interests           []string `json:"interests"`
}

// Activity is a single time-slot entry within a day plan. All monetary values
// are display strings produced by the model, never parsed numerics.
type Activity struct {
	Time          string       `json:"time"`
	Activity      string       `json:"activity"`
	Description   string       `json:"description"`
	Location      string       `json:"location"`
	Type          ActivityType `json:"type"`
	EstimatedCost string       `json:"estimatedCost,omitempty"`
}

// DayPlan is one day's ordered activity list.
type DayPlan struct {
	Day        int        `json:"day"`
	Title      string     `json:"title"`
	Theme      string     `json:"theme,omitempty"`
	Activities []Activity `json:"activities"`
}

// Itinerary is a generated multi-day travel plan. ID and CreatedAt are stamped
// by the generation service on success; the remaining fields come from the
// model and match the response schema field for field.
type Itinerary struct {
	ID                     uuid.UUID `json:"id"`
	CreatedAt              time.Time `json:"createdAt"`
	Destination            string    `json:"destination"`
	TripName               string    `json:"tripName"`
	Summary                string    `json:"summary"`
	EstimatedTransportCost string    `json:"estimatedTransportCost,omitempty"`
	TotalEstimatedCost     string    `json:"totalEstimatedCost,omitempty"`
	Days                   []DayPlan `json:"days"`
}
