package extractpreferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"shopping-agent/internal/common/camunda"
	apperrors "shopping-agent/internal/common/errors"
	"shopping-agent/internal/common/logger"
	"shopping-agent/internal/common/text"
	"shopping-agent/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "extract-preferences"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type compiledPricePattern struct {
	re    *regexp.Regexp
	price models.PriceRange
}

type Handler struct {
	config        *Config
	pricePatterns []compiledPricePattern
	tokenizer     *text.Tokenizer
	errHandler    *apperrors.ErrorHandler
	logger        logger.Logger
}

func NewHandler(config *Config, log logger.Logger) (*Handler, error) {
	h := &Handler{
		config:     config,
		tokenizer:  text.NewTokenizer(config.StopWords),
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
	for _, p := range config.PricePatterns {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile price pattern %q: %w", p.Pattern, err)
		}
		h.pricePatterns = append(h.pricePatterns, compiledPricePattern{re: re, price: p.Range})
	}
	return h, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		camunda.FailJob(ctx, client, job, apperrors.NewParseError(err), h.errHandler)
		return
	}
	input.Message = text.Clean(input.Message)

	output, err := h.execute(ctx, &input)
	if err != nil {
		camunda.FailJob(ctx, client, job, err, h.errHandler)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

// execute never fails on content: a fault keeps the existing preferences unchanged.
func (h *Handler) execute(_ context.Context, input *Input) (output *Output, err error) {
	if input == nil {
		return nil, ErrNilInput
	}

	var existing models.Preferences
	if input.Existing != nil {
		existing = input.Existing.Clone()
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("preference extraction panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			output, err = &Output{Merged: existing, Summary: Summary(existing)}, nil
		}
	}()

	extracted := h.Extract(input.Message)
	merged := Merge(existing, extracted)

	h.logger.Debug("preferences extracted", map[string]interface{}{
		"priceRange": extracted.PriceRange,
		"quality":    extracted.Quality,
		"brands":     len(extracted.Brands),
		"categories": len(extracted.Categories),
		"features":   len(extracted.Features),
		"excluded":   len(extracted.ExcludedItems),
	})

	return &Output{Extracted: extracted, Merged: merged, Summary: Summary(merged)}, nil
}

// Extract reads the preferences stated in a single normalized message.
func (h *Handler) Extract(message string) models.Preferences {
	lower := strings.ToLower(message)

	p := models.Preferences{
		PriceRange: h.extractPrice(message, lower),
		Quality:    models.Quality(firstHit(lower, h.config.QualityKeywords)),
		Categories: allHits(lower, h.config.CategoryKeywords),
		Features:   allHits(lower, h.config.FeatureKeywords),
	}

	for _, b := range h.config.Brands {
		if strings.Contains(lower, strings.ToLower(b)) {
			p.Brands = appendUnique(p.Brands, b)
		}
	}

	words := strings.Fields(lower)
	for _, marker := range h.config.ExclusionMarkers {
		for i := 1; i < len(words); i++ {
			if words[i] == marker {
				p.ExcludedItems = appendUnique(p.ExcludedItems, words[i-1])
			}
		}
	}

	if kw := h.tokenizer.Keywords(message); len(kw) > 0 {
		p.Keywords = kw
	}
	return p
}

func (h *Handler) extractPrice(message, lower string) models.PriceRange {
	if v := firstHit(lower, h.config.PriceKeywords); v != "" {
		return models.PriceRange(v)
	}
	for _, p := range h.pricePatterns {
		if p.re.MatchString(message) {
			return p.price
		}
	}
	return ""
}

func firstHit(s string, table []KeywordValue) string {
	for _, kv := range table {
		if strings.Contains(s, kv.Keyword) {
			return kv.Value
		}
	}
	return ""
}

func allHits(s string, table []KeywordValue) []string {
	var out []string
	for _, kv := range table {
		if strings.Contains(s, kv.Keyword) {
			out = appendUnique(out, kv.Value)
		}
	}
	return out
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
