package itinerary

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/voyageai/go-trip-planner/internal/types"
)

// Share-link query parameter names. A link encodes a plan's inputs, not its
// output, so another session can regenerate an equivalent plan.
const (
	paramOrigin      = "origin"
	paramDestination = "destination"
	paramDays        = "days"
	paramBudget      = "budget"
	paramStyle       = "style"
	paramCompanions  = "companions"
	paramInterests   = "interests"
	paramTransport   = "transport"
	paramDietary     = "dietary"
	paramSpecial     = "special"
)

// EncodePreferences renders preferences as URL query parameters. Empty
// optional fields are omitted from the link; decoding restores them as empty
// (the prompt builder applies the sentinel uniformly either way).
func EncodePreferences(prefs types.UserPreferences) url.Values {
	q := url.Values{}
	q.Set(paramOrigin, prefs.Origin)
	q.Set(paramDestination, prefs.Destination)
	q.Set(paramDays, strconv.Itoa(prefs.Duration))
	q.Set(paramBudget, strconv.Itoa(prefs.BudgetAmount))
	setIfPresent := func(key, value string) {
		if value != "" {
			q.Set(key, value)
		}
	}
	setIfPresent(paramStyle, prefs.TravelStyle)
	setIfPresent(paramCompanions, prefs.Companions)
	setIfPresent(paramTransport, prefs.TransportPreference)
	setIfPresent(paramDietary, prefs.DietaryRestrictions)
	setIfPresent(paramSpecial, prefs.SpecialRequests)
	if len(prefs.Interests) > 0 {
		q.Set(paramInterests, strings.Join(prefs.Interests, ","))
	}
	return q
}

// DecodePreferences reconstructs preferences from share-link query
// parameters. Unparsable numeric fields decode as zero; the handler's input
// validation decides whether the result is submittable.
func DecodePreferences(q url.Values) types.UserPreferences {
	prefs := types.UserPreferences{
		Origin:              q.Get(paramOrigin),
		Destination:         q.Get(paramDestination),
		TravelStyle:         q.Get(paramStyle),
		Companions:          q.Get(paramCompanions),
		TransportPreference: q.Get(paramTransport),
		DietaryRestrictions: q.Get(paramDietary),
		SpecialRequests:     q.Get(paramSpecial),
	}
	if days, err := strconv.Atoi(q.Get(paramDays)); err == nil {
		prefs.Duration = days
	}
	if budget, err := strconv.Atoi(q.Get(paramBudget)); err == nil {
		prefs.BudgetAmount = budget
	}
	if raw := q.Get(paramInterests); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				prefs.Interests = append(prefs.Interests, tag)
			}
		}
	}
	return prefs
}
