package pipeline

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"shopping-agent/internal/catalog"
	apperrors "shopping-agent/internal/common/errors"
	"shopping-agent/internal/common/logger"
	"shopping-agent/internal/common/metrics"
	"shopping-agent/internal/common/observability"
	"shopping-agent/internal/common/text"
	"shopping-agent/internal/models"
	"shopping-agent/internal/session"
	classifyintent "shopping-agent/internal/workers/conversation/classify-intent"
	extractpreferences "shopping-agent/internal/workers/preference/extract-preferences"
	synthesizeresponse "shopping-agent/internal/workers/response/synthesize-response"
	filterproducts "shopping-agent/internal/workers/search/filter-products"
	rankproducts "shopping-agent/internal/workers/search/rank-products"

	"github.com/google/uuid"
)

const emptyMessage = "メッセージが空です"

type Orchestrator struct {
	stages   *Stages
	catalog  catalog.Provider
	sessions *session.Manager
	recorder *observability.Recorder
	seed     *int64
	now      func() time.Time
	logger   logger.Logger
}

type Option func(*Orchestrator)

// WithSeed fixes the random source of template selection and recommendations.
func WithSeed(seed int64) Option {
	return func(o *Orchestrator) {
		o.seed = &seed
	}
}

func WithRecorder(r *observability.Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

func New(stages *Stages, provider catalog.Provider, sessions *session.Manager, log logger.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		stages:   stages,
		catalog:  provider,
		sessions: sessions,
		now:      time.Now,
		logger:   log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// HandleMessage runs one chat turn for sessionID. The whole turn commits atomically or not at all.
// An empty sessionID starts a new session; an unknown one is created under that id.
func (o *Orchestrator) HandleMessage(ctx context.Context, sessionID, message string) (*models.ChatTurnResult, error) {
	start := o.now()

	plain := text.Clean(message)
	if plain == "" {
		return nil, apperrors.NewValidationError(emptyMessage)
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	var result *models.ChatTurnResult
	_, err := o.sessions.Update(ctx, sessionID, true, func(s *models.Session) error {
		result = o.turn(ctx, s, plain, text.Sanitize(message))
		return nil
	})

	duration := o.now().Sub(start)
	if err != nil {
		metrics.ChatTurns.WithLabelValues("none", "error").Inc()
		o.recorder.RecordTurn(ctx, "none", "error", duration)
		o.logger.Error("chat turn failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err,
		})
		return nil, err
	}

	intent := string(result.Intent.Type)
	metrics.ChatTurns.WithLabelValues(intent, "ok").Inc()
	metrics.ChatTurnDuration.WithLabelValues(intent).Observe(duration.Seconds())
	o.recorder.RecordTurn(ctx, intent, "ok", duration)

	fields := map[string]interface{}{
		"sessionId":  sessionID,
		"intent":     intent,
		"durationMs": duration.Milliseconds(),
	}
	if result.TotalCount != nil {
		fields["totalCount"] = *result.TotalCount
	}
	o.logger.Info("chat turn completed", fields)
	return result, nil
}

// turn mutates s in place; the manager discards s if the turn is abandoned. plain drives analysis
// and search, escaped is what gets stored in history.
func (o *Orchestrator) turn(ctx context.Context, s *models.Session, plain, escaped string) *models.ChatTurnResult {
	intent, prefs := o.analyze(ctx, plain, s.Preferences)
	s.Preferences = prefs

	input := &synthesizeresponse.Input{
		Intent:      intent,
		Preferences: s.Preferences,
		Seed:        o.seed,
	}

	var search *models.SearchResult
	if intent.RequiresSearch {
		search = o.searchOrEmpty(ctx, searchQuery(intent, plain), s.Preferences)
		input.Search = search
		s.AppendSearch(models.SearchRecord{
			Query:       escaped,
			ResultCount: search.TotalCount,
			Timestamp:   o.now(),
		}, o.sessions.Options().MaxSearchHistory)
	}

	reply := o.synthesize(ctx, input)

	limit := o.sessions.Options().MaxHistory
	s.AppendMessage(models.Message{Role: models.RoleUser, Text: escaped, Timestamp: o.now()}, limit)
	s.AppendMessage(models.Message{Role: models.RoleAssistant, Text: reply.Message, Timestamp: o.now()}, limit)

	result := &models.ChatTurnResult{
		SessionID:   s.ID,
		Message:     reply.Message,
		Intent:      intent,
		Suggestions: reply.Suggestions,
	}
	if search != nil {
		total := search.TotalCount
		result.Products = search.Products
		result.TotalCount = &total
		result.RequiresAction = total > 0
	}
	return result
}

// searchQuery uses the message as the query only for input no vocabulary recognized. Otherwise the
// accumulated preferences drive the filter.
func searchQuery(intent models.Intent, message string) string {
	if intent.Fallback {
		return message
	}
	return ""
}

// analyze classifies the message and merges its preferences concurrently.
func (o *Orchestrator) analyze(ctx context.Context, message string, existing models.Preferences) (models.Intent, models.Preferences) {
	var (
		wg     sync.WaitGroup
		intent = models.UnknownIntent()
		merged = existing.Clone()
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		out, err := o.stages.Classifier.Execute(ctx, &classifyintent.Input{Message: message})
		if err != nil {
			o.fault(classifyintent.TaskType, err)
			return
		}
		intent = out.Intent
	}()
	go func() {
		defer wg.Done()
		out, err := o.stages.Preferences.Execute(ctx, &extractpreferences.Input{Message: message, Existing: &existing})
		if err != nil {
			o.fault(extractpreferences.TaskType, err)
			return
		}
		merged = out.Merged
	}()
	wg.Wait()

	return intent, merged
}

// searchOrEmpty absorbs every search failure into an empty result.
func (o *Orchestrator) searchOrEmpty(ctx context.Context, query string, prefs models.Preferences) *models.SearchResult {
	result, err := o.search(ctx, query, prefs)
	if err != nil {
		o.fault("search", err)
		return &models.SearchResult{
			Products:       []models.Product{},
			Query:          query,
			FiltersApplied: filterproducts.AppliedFilters(prefs),
		}
	}
	return result
}

func (o *Orchestrator) search(ctx context.Context, query string, prefs models.Preferences) (*models.SearchResult, error) {
	start := o.now()

	all, err := o.catalog.All(ctx)
	if err != nil {
		return nil, apperrors.NewCatalogUnavailableError(err)
	}

	filtered, err := o.stages.Filter.Execute(ctx, &filterproducts.Input{Products: all, Query: query, Preferences: prefs})
	if err != nil {
		return nil, apperrors.NewStageFailedError(filterproducts.TaskType, err)
	}

	products := filtered.Products
	ranked, err := o.stages.Ranker.Execute(ctx, &rankproducts.Input{Products: filtered.Products, Query: query})
	if err != nil {
		o.fault(rankproducts.TaskType, err)
	} else {
		products = ranked.Products()
	}

	metrics.SearchResults.Observe(float64(filtered.TotalCount))
	o.recorder.RecordSearch(ctx, filtered.TotalCount)

	return &models.SearchResult{
		Products:       products,
		TotalCount:     filtered.TotalCount,
		Query:          query,
		FiltersApplied: filtered.AppliedFilters,
		SearchTime:     o.now().Sub(start),
	}, nil
}

func (o *Orchestrator) synthesize(ctx context.Context, input *synthesizeresponse.Input) *synthesizeresponse.Output {
	out, err := o.stages.Synthesizer.Execute(ctx, input)
	if err != nil {
		o.fault(synthesizeresponse.TaskType, err)
		return &synthesizeresponse.Output{Message: synthesizeresponse.Apology, Suggestions: []string{}}
	}
	return out
}

func (o *Orchestrator) fault(stage string, err error) {
	metrics.StageFaults.WithLabelValues(stage).Inc()
	o.logger.Warn("stage fault absorbed", map[string]interface{}{
		"stage": stage,
		"error": err,
	})
}

func (o *Orchestrator) rng() *rand.Rand {
	if o.seed != nil {
		return rand.New(rand.NewSource(*o.seed))
	}
	return rand.New(rand.NewSource(o.now().UnixNano()))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
