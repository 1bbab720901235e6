package classifyintent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"shopping-agent/internal/common/camunda"
	apperrors "shopping-agent/internal/common/errors"
	"shopping-agent/internal/common/logger"
	"shopping-agent/internal/common/text"
	"shopping-agent/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "classify-intent"
)

var (
	ErrEmptyMessage = errors.New("EMPTY_MESSAGE")
	ErrNilInput     = errors.New("input cannot be nil")
)

type compiledRule struct {
	intent     models.IntentType
	confidence float64
	pattern    *regexp.Regexp
}

type Handler struct {
	config        *Config
	rules         []compiledRule
	pricePatterns []*regexp.Regexp
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

	for _, r := range config.Rules {
		re, err := compileVocabulary(r.Patterns)
		if err != nil {
			return nil, fmt.Errorf("compile %s vocabulary: %w", r.Intent, err)
		}
		h.rules = append(h.rules, compiledRule{intent: r.Intent, confidence: r.Confidence, pattern: re})
	}
	for _, p := range config.PricePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile price pattern %q: %w", p, err)
		}
		h.pricePatterns = append(h.pricePatterns, re)
	}
	return h, nil
}

// compileVocabulary builds one case-insensitive alternation of literal terms. Terms match as
// plain substrings, so "hi" also matches inside "white".
func compileVocabulary(terms []string) (*regexp.Regexp, error) {
	parts := make([]string, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(t))
	}
	if len(parts) == 0 {
		return regexp.Compile(`$^`)
	}
	return regexp.Compile(`(?i)(?:` + strings.Join(parts, "|") + `)`)
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
		if errors.Is(err, ErrEmptyMessage) {
			err = apperrors.NewValidationError(err.Error())
		}
		camunda.FailJob(ctx, client, job, err, h.errHandler)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

// execute classifies an already normalized message.
func (h *Handler) execute(_ context.Context, input *Input) (output *Output, err error) {
	if input == nil {
		return nil, ErrNilInput
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, fmt.Errorf("%w: message is blank", ErrEmptyMessage)
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("intent classification panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			output, err = &Output{Intent: models.UnknownIntent()}, nil
		}
	}()

	start := time.Now()
	intent := h.classify(input.Message)

	h.logger.Debug("intent classified", map[string]interface{}{
		"intent":     intent.Type,
		"confidence": intent.Confidence,
		"fallback":   intent.Fallback,
		"durationMs": time.Since(start).Milliseconds(),
	})
	return &Output{Intent: intent}, nil
}

func (h *Handler) classify(message string) models.Intent {
	intent := models.Intent{
		Type:     models.IntentProductSearch,
		Keywords: h.tokenizer.Keywords(message),
	}

	matched := false
	for _, r := range h.rules {
		if r.pattern.MatchString(message) {
			intent.Type = r.intent
			intent.Confidence = r.confidence
			matched = true
			break
		}
	}
	if !matched {
		intent.Confidence = h.config.FallbackConfidence
		intent.Fallback = true
	}

	if intent.Type == models.IntentProductSearch {
		intent.RequiresSearch = true
		intent.Entities = h.extractEntities(message)
	}
	return intent
}

func (h *Handler) extractEntities(message string) *models.Entities {
	e := &models.Entities{}

	for _, re := range h.pricePatterns {
		matches := re.FindAllStringSubmatch(message, -1)
		if len(matches) == 0 {
			continue
		}
		for _, m := range matches {
			if len(m) > 1 {
				e.PriceRange = append(e.PriceRange, m[1])
			}
		}
		break
	}

	for _, c := range h.config.Categories {
		if strings.Contains(message, c) {
			e.Category = c
			break
		}
	}

	lower := strings.ToLower(message)
	for _, b := range h.config.Brands {
		if strings.Contains(lower, strings.ToLower(b)) {
			e.Brand = b
			break
		}
	}
	return e
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
