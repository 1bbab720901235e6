// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	apperrors "shopping-agent/internal/common/errors"
	"shopping-agent/internal/common/validation"
	classifyintent "shopping-agent/internal/workers/conversation/classify-intent"
	extractpreferences "shopping-agent/internal/workers/preference/extract-preferences"
	synthesizeresponse "shopping-agent/internal/workers/response/synthesize-response"
	filterproducts "shopping-agent/internal/workers/search/filter-products"
	rankproducts "shopping-agent/internal/workers/search/rank-products"
)

const Version = "1.0.0"

var ErrUnknownActivity = errors.New("unknown activity")

func LoadRegistry(path string) (*ActivityRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg ActivityRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &reg, reg.Validate()
}

func (r *ActivityRegistry) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Default lists the five pipeline stages in execution order.
func Default() *ActivityRegistry {
	stageErrors := []string{
		string(apperrors.ErrCodeParseError),
		string(apperrors.ErrCodeTimeout),
	}

	return ActivityRegistry{
		Version:     Version,
		LastUpdated: "2024-01-01",
		Activities: []Activity{
			{
				ID:          classifyintent.TaskType,
				DisplayName: "Classify Intent",
				Description: "Classifies a normalized chat message and extracts product entities",
				Category:    "conversation",
				TaskType:    classifyintent.TaskType,
				InputSchema: object([]string{"message"}, map[string]interface{}{
					"message": map[string]interface{}{"type": "string", "minLength": 1},
				}),
				OutputSchema: object([]string{"intent"}, map[string]interface{}{"intent": objectType}),
				ErrorCodes:   append([]string{string(apperrors.ErrCodeValidationFailed)}, stageErrors...),
				Timeout:      "5s",
				Tags:         []string{"nlp", "rules"},
			},
			{
				ID:          extractpreferences.TaskType,
				DisplayName: "Extract Preferences",
				Description: "Extracts preferences from a message and merges them into the existing ones",
				Category:    "preference",
				TaskType:    extractpreferences.TaskType,
				InputSchema: object([]string{"message"}, map[string]interface{}{
					"message":             stringType,
					"existingPreferences": objectType,
				}),
				OutputSchema: object([]string{"mergedPreferences"}, map[string]interface{}{
					"extractedPreferences": objectType,
					"mergedPreferences":    objectType,
					"preferenceSummary":    stringType,
				}),
				ErrorCodes: stageErrors,
				Timeout:    "5s",
				Tags:       []string{"nlp", "session"},
			},
			{
				ID:          filterproducts.TaskType,
				DisplayName: "Filter Products",
				Description: "Keeps the catalog products that satisfy the query and every active preference",
				Category:    "search",
				TaskType:    filterproducts.TaskType,
				InputSchema: object([]string{"products"}, map[string]interface{}{
					"products":    arrayType,
					"query":       stringType,
					"preferences": objectType,
				}),
				OutputSchema: object([]string{"products", "totalCount"}, map[string]interface{}{
					"products":       arrayType,
					"totalCount":     integerType,
					"appliedFilters": objectType,
				}),
				ErrorCodes: stageErrors,
				Timeout:    "10s",
				Tags:       []string{"catalog"},
			},
			{
				ID:          rankproducts.TaskType,
				DisplayName: "Rank Products",
				Description: "Orders products by keyword similarity to the query and rating",
				Category:    "search",
				TaskType:    rankproducts.TaskType,
				InputSchema: object([]string{"products"}, map[string]interface{}{
					"products": arrayType,
					"query":    stringType,
				}),
				OutputSchema: object([]string{"ranked"}, map[string]interface{}{"ranked": arrayType}),
				ErrorCodes:   stageErrors,
				Timeout:      "10s",
				Tags:         []string{"catalog", "ranking"},
			},
			{
				ID:          synthesizeresponse.TaskType,
				DisplayName: "Synthesize Response",
				Description: "Renders the Japanese reply and suggestions for a search result or a conversational intent",
				Category:    "response",
				TaskType:    synthesizeresponse.TaskType,
				InputSchema: object([]string{"intent"}, map[string]interface{}{
					"intent":      objectType,
					"search":      objectType,
					"preferences": objectType,
					"seed":        integerType,
				}),
				OutputSchema: object([]string{"message", "suggestions"}, map[string]interface{}{
					"message":     stringType,
					"suggestions": stringArray,
					"branch":      stringType,
					"hasProducts": map[string]interface{}{"type": "boolean"},
				}),
				ErrorCodes: stageErrors,
				Timeout:    "5s",
				Tags:       []string{"templates"},
			},
		},
	}.withDefaults()
}

func (r ActivityRegistry) withDefaults() *ActivityRegistry {
	for i := range r.Activities {
		a := &r.Activities[i]
		if a.Version == "" {
			a.Version = Version
		}
		if a.ImplementationStatus == "" {
			a.ImplementationStatus = "completed"
		}
		if a.Retries == 0 {
			a.Retries = 3
		}
	}
	return &r
}

// Find looks an activity up by task type.
func (r *ActivityRegistry) Find(taskType string) (*Activity, error) {
	for i := range r.Activities {
		if r.Activities[i].TaskType == taskType {
			return &r.Activities[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownActivity, taskType)
}

// TaskTypes returns the registered task types sorted.
func (r *ActivityRegistry) TaskTypes() []string {
	out := make([]string, 0, len(r.Activities))
	for _, a := range r.Activities {
		out = append(out, a.TaskType)
	}
	sort.Strings(out)
	return out
}

// Validate checks ids and task types are unique and timeouts parse.
func (r *ActivityRegistry) Validate() error {
	ids := make(map[string]bool)
	tasks := make(map[string]bool)
	for _, a := range r.Activities {
		if a.ID == "" || a.TaskType == "" {
			return fmt.Errorf("activity %q: id and taskType are required", a.DisplayName)
		}
		if ids[a.ID] {
			return fmt.Errorf("duplicate activity id %q", a.ID)
		}
		if tasks[a.TaskType] {
			return fmt.Errorf("duplicate task type %q", a.TaskType)
		}
		ids[a.ID], tasks[a.TaskType] = true, true

		if a.Timeout != "" {
			if _, err := time.ParseDuration(a.Timeout); err != nil {
				return fmt.Errorf("activity %s: invalid timeout %q", a.ID, a.Timeout)
			}
		}
	}
	return nil
}

// ValidateInput checks raw job variables against the activity's input schema.
func (a *Activity) ValidateInput(variables string) error {
	var doc interface{}
	if err := json.Unmarshal([]byte(variables), &doc); err != nil {
		return apperrors.NewParseError(err)
	}
	if err := validation.Check(a.InputSchema, doc); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("%s: %s", a.TaskType, err.Error()))
	}
	return nil
}
