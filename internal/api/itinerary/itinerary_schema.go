package itinerary

import "google.golang.org/genai"

// activitySchema, daySchema and itinerarySchema declare the exact structure
// the model must return for itinerary generation. The schema is passed to the
// provider on every call so structural compliance is enforced at generation
// time; it is the single source of truth for field names, and the types in
// internal/types must stay in lockstep with it.
var activitySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"time":        {Type: genai.TypeString, Description: "Time of the activity (e.g., 09:00 AM)"},
		"activity":    {Type: genai.TypeString, Description: "Name of the activity or place"},
		"description": {Type: genai.TypeString, Description: "Short detailed description of what to do there"},
		"location":    {Type: genai.TypeString, Description: "Address or area name"},
		"type": {
			Type:        genai.TypeString,
			Enum:        []string{"food", "sightseeing", "relax", "travel", "shopping", "other"},
			Description: "Category of the activity",
		},
		"estimatedCost": {Type: genai.TypeString, Description: "Estimated cost per person in New Taiwan Dollar (NT$)"},
	},
	Required: []string{"time", "activity", "description", "location", "type"},
}

var daySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"day":   {Type: genai.TypeInteger, Description: "Day number (1, 2, 3...)"},
		"title": {Type: genai.TypeString, Description: "Title for the day (e.g., 'Historical Center Tour')"},
		"theme": {Type: genai.TypeString, Description: "Main theme of the day"},
		"activities": {
			Type:        genai.TypeArray,
			Items:       activitySchema,
			Description: "List of activities for the day, sorted by time",
		},
	},
	Required: []string{"day", "title", "activities"},
}

var itinerarySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"destination": {Type: genai.TypeString},
		"tripName":    {Type: genai.TypeString, Description: "A creative name for this trip"},
		"summary":     {Type: genai.TypeString, Description: "A brief 2-3 sentence summary of the entire trip"},
		"estimatedTransportCost": {
			Type:        genai.TypeString,
			Description: "Estimated round-trip transport cost between origin and destination in NT$",
		},
		"totalEstimatedCost": {
			Type:        genai.TypeString,
			Description: "Estimated total cost for the whole trip in NT$",
		},
		"days": {
			Type:        genai.TypeArray,
			Items:       daySchema,
			Description: "Daily breakdown of the itinerary",
		},
	},
	Required: []string{"destination", "tripName", "summary", "days"},
}
