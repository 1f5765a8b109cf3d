package nearby

import "google.golang.org/genai"

// nearbyPlaceSchema and nearbyResponseSchema declare the structure the model
// must return for nearby-place search. Field names mirror internal/types.
var nearbyPlaceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name": {Type: genai.TypeString},
		"type": {
			Type: genai.TypeString,
			Enum: []string{"restaurant", "attraction", "shop"},
		},
		"description": {Type: genai.TypeString, Description: "Short appealing description"},
		"address":     {Type: genai.TypeString, Description: "Approximate address or street name"},
		"rating":      {Type: genai.TypeString, Description: "Estimated rating out of 5 (e.g. 4.5)"},
		"priceLevel":  {Type: genai.TypeString, Description: "Average cost in NT$ (e.g. NT$300/人)"},
		"tags": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"name", "type", "description", "address", "rating", "priceLevel", "tags"},
}

var nearbyResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"places": {
			Type:  genai.TypeArray,
			Items: nearbyPlaceSchema,
		},
	},
	Required: []string{"places"},
}
