package pipeline

import (
	"fmt"

	"shopping-agent/internal/common/camunda"
	"shopping-agent/internal/common/logger"
	classifyintent "shopping-agent/internal/workers/conversation/classify-intent"
	extractpreferences "shopping-agent/internal/workers/preference/extract-preferences"
	synthesizeresponse "shopping-agent/internal/workers/response/synthesize-response"
	filterproducts "shopping-agent/internal/workers/search/filter-products"
	rankproducts "shopping-agent/internal/workers/search/rank-products"
)

// Stages holds one handler per pipeline stage. The same handlers back the Zeebe workers.
type Stages struct {
	Classifier  *classifyintent.Handler
	Preferences *extractpreferences.Handler
	Filter      *filterproducts.Handler
	Ranker      *rankproducts.Handler
	Synthesizer *synthesizeresponse.Handler
}

// NewStages builds every stage from its default config.
func NewStages(log logger.Logger) (*Stages, error) {
	classifier, err := classifyintent.NewHandler(classifyintent.DefaultConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("classify-intent: %w", err)
	}
	prefs, err := extractpreferences.NewHandler(extractpreferences.DefaultConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("extract-preferences: %w", err)
	}

	return &Stages{
		Classifier:  classifier,
		Preferences: prefs,
		Filter:      filterproducts.NewHandler(filterproducts.DefaultConfig(), log),
		Ranker:      rankproducts.NewHandler(rankproducts.DefaultConfig(), log),
		Synthesizer: synthesizeresponse.NewHandler(synthesizeresponse.DefaultConfig(), log),
	}, nil
}

// JobHandlers maps each stage task type to its Zeebe job handler.
func (s *Stages) JobHandlers() map[string]camunda.JobHandler {
	return map[string]camunda.JobHandler{
		classifyintent.TaskType:     s.Classifier,
		extractpreferences.TaskType: s.Preferences,
		filterproducts.TaskType:     s.Filter,
		rankproducts.TaskType:       s.Ranker,
		synthesizeresponse.TaskType: s.Synthesizer,
	}
}
