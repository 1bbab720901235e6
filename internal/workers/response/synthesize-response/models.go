package synthesizeresponse

import "shopping-agent/internal/models"

type Branch string

const (
	BranchSearch       Branch = "search"
	BranchConversation Branch = "conversation"
)

// Input selects the search branch when Search is set, the conversation branch otherwise.
type Input struct {
	Intent      models.Intent        `json:"intent"`
	Search      *models.SearchResult `json:"search,omitempty"`
	Preferences models.Preferences   `json:"preferences"`
	// Seed makes template selection reproducible. Nil seeds from the clock.
	Seed *int64 `json:"seed,omitempty"`
}

type Output struct {
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
	Branch      Branch   `json:"branch"`
	HasProducts bool     `json:"hasProducts"`
}
