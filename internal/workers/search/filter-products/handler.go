package filterproducts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
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
	TaskType = "filter-products"
)

var (
	ErrNilInput = errors.New("input cannot be nil")
)

type Handler struct {
	config     *Config
	errHandler *apperrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config:     config,
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
			h.logger.Error("filtering panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
			})
			output, err = &Output{Products: []models.Product{}}, nil
		}
	}()

	start := time.Now()
	filtered := h.Filter(input.Products, input.Query, input.Preferences)

	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError(TaskType, err)
	}

	h.logger.Info("filtering completed", map[string]interface{}{
		"inputCount":  len(input.Products),
		"outputCount": len(filtered),
		"durationMs":  time.Since(start).Milliseconds(),
	})

	return &Output{
		Products:       filtered,
		TotalCount:     len(filtered),
		AppliedFilters: AppliedFilters(input.Preferences),
	}, nil
}

// Filter keeps the products that satisfy every active constraint, in input order.
func (h *Handler) Filter(products []models.Product, query string, prefs models.Preferences) []models.Product {
	q := strings.ToLower(query)
	ceiling, bounded := h.config.PriceCeilings[prefs.PriceRange]
	if prefs.PriceRange == "" {
		bounded = false
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q != "" && !matchesQuery(p, q) {
			continue
		}
		if bounded && p.Price > ceiling {
			continue
		}
		if len(prefs.Brands) > 0 && !contains(prefs.Brands, p.Brand) {
			continue
		}
		if len(prefs.Categories) > 0 && !contains(prefs.Categories, p.Category) {
			continue
		}
		if len(prefs.Features) > 0 && !hasAnyFeature(p, prefs.Features) {
			continue
		}
		if isExcluded(p, prefs.ExcludedItems) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// AppliedFilters reports the non-empty constraints of prefs.
func AppliedFilters(prefs models.Preferences) models.AppliedFilters {
	return models.AppliedFilters{
		PriceRange: prefs.PriceRange,
		Brands:     nonEmpty(prefs.Brands),
		Categories: nonEmpty(prefs.Categories),
		Features:   nonEmpty(prefs.Features),
	}
}

func matchesQuery(p models.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Category), q) ||
		strings.Contains(strings.ToLower(p.Brand), q)
}

func hasAnyFeature(p models.Product, features []string) bool {
	for _, f := range features {
		if p.HasFeature(f) {
			return true
		}
	}
	return false
}

func isExcluded(p models.Product, excluded []string) bool {
	if len(excluded) == 0 {
		return false
	}
	name := strings.ToLower(p.Name)
	for _, e := range excluded {
		if e != "" && strings.Contains(name, e) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func nonEmpty(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	return append([]string(nil), in...)
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
