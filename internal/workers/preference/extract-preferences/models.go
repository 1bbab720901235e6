package extractpreferences

import "shopping-agent/internal/models"

type Input struct {
	Message  string              `json:"message"`
	Existing *models.Preferences `json:"existingPreferences,omitempty"`
}

type Output struct {
	Extracted models.Preferences `json:"extractedPreferences"`
	Merged    models.Preferences `json:"mergedPreferences"`
	Summary   string             `json:"preferenceSummary"`
}
