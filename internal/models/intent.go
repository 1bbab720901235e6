package models

type IntentType string

const (
	IntentGreeting      IntentType = "greeting"
	IntentFarewell      IntentType = "farewell"
	IntentHelp          IntentType = "help"
	IntentProductSearch IntentType = "product_search"
	IntentQuestion      IntentType = "question"
	IntentUnknown       IntentType = "unknown"
)

// Entities are the product hints pulled out of a search message.
type Entities struct {
	PriceRange []string `json:"price_range,omitempty"`
	Category   string   `json:"category,omitempty"`
	Brand      string   `json:"brand,omitempty"`
}

// Intent is created per turn and not persisted beyond the response.
type Intent struct {
	Type           IntentType `json:"intent_type"`
	Confidence     float64    `json:"confidence"`
	Keywords       []string   `json:"keywords"`
	Entities       *Entities  `json:"entities,omitempty"`
	RequiresSearch bool       `json:"requires_product_search"`
	// Fallback is set when no vocabulary matched and the message is treated as a search.
	Fallback bool `json:"fallback,omitempty"`
}

func UnknownIntent() Intent {
	return Intent{Type: IntentUnknown, Confidence: 0, Keywords: []string{}}
}

// ChatTurnResult is what one pipeline invocation hands back to the transport layer.
type ChatTurnResult struct {
	SessionID      string    `json:"session_id"`
	Message        string    `json:"message"`
	Intent         Intent    `json:"intent"`
	Suggestions    []string  `json:"suggestions"`
	Products       []Product `json:"products,omitempty"`
	TotalCount     *int      `json:"total_count,omitempty"`
	RequiresAction bool      `json:"requires_action"`
}
