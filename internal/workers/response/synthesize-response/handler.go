package synthesizeresponse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
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
	TaskType = "synthesize-response"
)

var (
	ErrNilInput       = errors.New("input cannot be nil")
	ErrEmptyPool      = errors.New("TEMPLATE_POOL_EMPTY")
	ErrMissingProduct = errors.New("single result without product")
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

	output, err := h.execute(ctx, &input)
	if err != nil {
		camunda.FailJob(ctx, client, job, err, h.errHandler)
		return
	}

	camunda.CompleteJob(ctx, client, job, output, h.logger)
}

// execute never fails for a non-nil input: faults collapse into the apology message.
func (h *Handler) execute(_ context.Context, input *Input) (output *Output, err error) {
	if input == nil {
		return nil, ErrNilInput
	}

	branch := BranchConversation
	if input.Search != nil {
		branch = BranchSearch
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("response synthesis panicked", map[string]interface{}{
				"panic":  fmt.Sprint(r),
				"branch": branch,
			})
			output, err = fallback(branch), nil
		}
	}()

	rng := newRand(input.Seed)

	var out *Output
	if branch == BranchSearch {
		out, err = h.searchResponse(rng, input.Search, input.Preferences)
	} else {
		out, err = h.conversationResponse(rng, input.Intent)
	}
	if err != nil {
		h.logger.Error("response synthesis failed", map[string]interface{}{
			"error":  err,
			"branch": branch,
		})
		return fallback(branch), nil
	}
	return out, nil
}

func fallback(branch Branch) *Output {
	return &Output{Message: Apology, Suggestions: []string{}, Branch: branch}
}

func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func (h *Handler) pick(rng *rand.Rand, pool string) (string, error) {
	templates := h.config.Templates[pool]
	if len(templates) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyPool, pool)
	}
	return templates[rng.Intn(len(templates))], nil
}

// ==========================
// Conversation branch
// ==========================

func conversationPool(t models.IntentType) string {
	switch t {
	case models.IntentGreeting:
		return PoolGreeting
	case models.IntentFarewell:
		return PoolFarewell
	case models.IntentHelp:
		return PoolHelp
	case models.IntentProductSearch:
		return PoolSearchIntent
	default:
		return PoolUnknown
	}
}

func (h *Handler) conversationResponse(rng *rand.Rand, intent models.Intent) (*Output, error) {
	msg, err := h.pick(rng, conversationPool(intent.Type))
	if err != nil {
		return nil, err
	}
	return &Output{
		Message:     msg,
		Suggestions: h.IntentSuggestions(intent.Type),
		Branch:      BranchConversation,
	}, nil
}

// ==========================
// Search branch
// ==========================

func (h *Handler) searchResponse(rng *rand.Rand, result *models.SearchResult, prefs models.Preferences) (*Output, error) {
	var (
		msg string
		err error
	)
	switch {
	case result.TotalCount == 0:
		msg, err = h.noResults(rng, prefs)
	case result.TotalCount == 1:
		if len(result.Products) == 0 {
			return nil, ErrMissingProduct
		}
		msg, err = h.singleResult(rng, result.Products[0], prefs)
	default:
		msg, err = h.multipleResults(rng, result.Products, result.TotalCount, prefs)
	}
	if err != nil {
		return nil, err
	}
	return &Output{
		Message:     msg,
		Suggestions: h.ResultSuggestions(result.Products),
		Branch:      BranchSearch,
		HasProducts: result.TotalCount > 0,
	}, nil
}

func (h *Handler) noResults(rng *rand.Rand, prefs models.Preferences) (string, error) {
	msg, err := h.pick(rng, PoolNoResults)
	if err != nil {
		return "", err
	}
	switch {
	case prefs.PriceRange == models.PriceLow:
		msg += " 価格を少し上げてみることをお勧めします。"
	case len(prefs.Brands) > 0:
		msg += " " + strings.Join(prefs.Brands, ", ") + "以外のブランドもご検討ください。"
	case len(prefs.Categories) > 0:
		msg += " " + strings.Join(prefs.Categories, ", ") + "以外のカテゴリもご検討ください。"
	}
	return msg, nil
}

func (h *Handler) singleResult(rng *rand.Rand, p models.Product, prefs models.Preferences) (string, error) {
	opening, err := h.pick(rng, PoolSingleResult)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(opening + "\n\n")
	fmt.Fprintf(&b, "【%s】\n", displayName(p))
	fmt.Fprintf(&b, "価格: %s\n", text.FormatPrice(p.Price))
	if p.Rating > 0 {
		fmt.Fprintf(&b, "評価: %s/5.0\n", text.FormatRating(p.Rating))
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "説明: %s\n", text.Truncate(p.Description, h.config.DescriptionLimit))
	}

	switch {
	case prefs.PriceRange == models.PriceLow:
		b.WriteString("\nこの商品はお求めやすい価格帯です。")
	case prefs.Quality == models.QualityHigh:
		b.WriteString("\nこの商品は高評価でおすすめです。")
	}
	return b.String(), nil
}

func (h *Handler) multipleResults(rng *rand.Rand, products []models.Product, total int, prefs models.Preferences) (string, error) {
	pool := PoolMultipleResults
	switch {
	case prefs.PriceRange == models.PriceLow:
		pool = PoolPriceFocus
	case prefs.Quality == models.QualityHigh:
		pool = PoolQualityFocus
	}
	opening, err := h.pick(rng, pool)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(opening + "\n")
	fmt.Fprintf(&b, "検索結果: %d件\n\n", total)

	top := products
	if len(top) > h.config.TopN {
		top = top[:h.config.TopN]
	}
	for i, p := range top {
		fmt.Fprintf(&b, "%d. %s\n", i+1, displayName(p))
		fmt.Fprintf(&b, "   価格: %s\n", text.FormatPrice(p.Price))
		if p.Rating > 0 {
			fmt.Fprintf(&b, "   評価: %s/5.0\n", text.FormatRating(p.Rating))
		}
		b.WriteString("\n")
	}

	if total > h.config.TopN {
		fmt.Fprintf(&b, "他にも%d件の商品があります。詳細は商品一覧をご確認ください。", total-h.config.TopN)
	}
	return b.String(), nil
}

func displayName(p models.Product) string {
	if p.Name == "" {
		return "商品"
	}
	return p.Name
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
