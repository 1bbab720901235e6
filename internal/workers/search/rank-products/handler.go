package rankproducts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
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
	TaskType = "rank-products"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type Handler struct {
	config     *Config
	tokenizer  *text.Tokenizer
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
		tokenizer:  text.NewTokenizer(config.StopWords),
		errHandler: apperrors.NewErrorHandler(log),
		logger:     log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
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
	input.Query = text.Clean(input.Query)

	output, err := h.execute(ctx, &input)
	if err != nil {
		camunda.FailJob(ctx, client, job, err, h.errHandler)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (output *Output, err error) {
	if input == nil {
		return nil, ErrNilInput
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("ranking panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			output, err = &Output{Ranked: unscored(input.Products)}, nil
		}
	}()

	start := time.Now()
	ranked := h.Rank(input.Products, input.Query)

	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError(TaskType, err)
	}

	if elapsed := time.Since(start); elapsed > h.config.SlowThreshold {
		h.logger.Warn("slow ranking", map[string]interface{}{
			"products":   len(input.Products),
			"durationMs": elapsed.Milliseconds(),
		})
	}

	if h.config.MaxItems > 0 && len(ranked) > h.config.MaxItems {
		ranked = ranked[:h.config.MaxItems]
	}
	return &Output{Ranked: ranked}, nil
}

// Rank orders products by descending relevance to query. Ties, an empty query
// and an empty list all keep the input order.
func (h *Handler) Rank(products []models.Product, query string) []RankedProduct {
	ranked := make([]RankedProduct, len(products))
	if strings.TrimSpace(query) == "" {
		for i, p := range products {
			ranked[i] = RankedProduct{Product: p, Score: h.config.Weights.Rating * p.Rating}
		}
		return ranked
	}

	q := h.tokenizer.KeywordSet(query)
	for i, p := range products {
		ranked[i] = RankedProduct{Product: p, Score: h.score(q, p)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func (h *Handler) score(q map[string]struct{}, p models.Product) float64 {
	w := h.config.Weights
	return w.Name*text.JaccardSets(q, h.tokenizer.KeywordSet(p.Name)) +
		w.Description*text.JaccardSets(q, h.tokenizer.KeywordSet(p.Description)) +
		w.Category*text.JaccardSets(q, h.tokenizer.KeywordSet(p.Category)) +
		w.Rating*p.Rating
}

func unscored(products []models.Product) []RankedProduct {
	out := make([]RankedProduct, len(products))
	for i, p := range products {
		out[i] = RankedProduct{Product: p}
	}
	return out
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
