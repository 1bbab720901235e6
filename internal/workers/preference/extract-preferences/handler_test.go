package extractpreferences

import (
	"context"
	"testing"

	"shopping-agent/internal/common/logger"
	"shopping-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(DefaultConfig(), logger.NewTestLogger(t))
	require.NoError(t, err)
	return h
}

// ==========================
// Extraction
// ==========================

func TestHandler_Extract(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name           string
		message        string
		validateOutput func(t *testing.T, p models.Preferences)
	}{
		{
			name:    "price keyword, brand and feature",
			message: "安いSonyのワイヤレスイヤホン",
			validateOutput: func(t *testing.T, p models.Preferences) {
				assert.Equal(t, models.PriceLow, p.PriceRange)
				assert.Equal(t, []string{"Sony"}, p.Brands)
				assert.Equal(t, []string{"wireless"}, p.Features)
				assert.Empty(t, p.Quality)
			},
		},
		{
			name:    "price keyword beats numeric pattern",
			message: "激安で3000円以上",
			validateOutput: func(t *testing.T, p models.Preferences) {
				assert.Equal(t, models.PriceVeryLow, p.PriceRange)
			},
		},
		{
			name:    "numeric ceiling in man-yen",
			message: "1万円以下のバッグ",
			validateOutput: func(t *testing.T, p models.Preferences) {
				assert.Equal(t, models.PriceLow, p.PriceRange)
			},
		},
		{
			name:    "numeric floor",
			message: "10000円以上のもの",
			validateOutput: func(t *testing.T, p models.Preferences) {
				assert.Equal(t, models.PriceHigh, p.PriceRange)
			},
		},
		{
			name:    "numeric band",
			message: "3000円〜5000円くらい",
			validateOutput: func(t *testing.T, p models.Preferences) {
				assert.Equal(t, models.PriceMedium, p.PriceRange)
			},
		},
		{
			name:    "quality precedence and categories",
			message: "高品質な家電とファッション",
			validateOutput: func(t *testing.T, p models.Preferences) {
				assert.Equal(t, models.QualityHigh, p.Quality)
				assert.Equal(t, []string{"electronics", "clothing"}, p.Categories)
			},
		},
		{
			name:    "synonyms collapse to one category",
			message: "電化製品か家電",
			validateOutput: func(t *testing.T, p models.Preferences) {
				assert.Equal(t, []string{"electronics"}, p.Categories)
			},
		},
		{
			name:    "exclusion takes the preceding token",
			message: "Sony not Apple",
			validateOutput: func(t *testing.T, p models.Preferences) {
				assert.Equal(t, []string{"sony"}, p.ExcludedItems)
				assert.Equal(t, []string{"Apple", "Sony"}, p.Brands)
			},
		},
		{
			name:    "nothing to extract",
			message: "うーん",
			validateOutput: func(t *testing.T, p models.Preferences) {
				assert.Empty(t, p.PriceRange)
				assert.Empty(t, p.Brands)
				assert.Empty(t, p.ExcludedItems)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validateOutput(t, h.Extract(tt.message))
		})
	}
}

func TestHandler_Execute_MergesIntoExisting(t *testing.T) {
	h := newTestHandler(t)
	existing := &models.Preferences{PriceRange: models.PriceHigh, Brands: []string{"Nike"}}

	out, err := h.Execute(context.Background(), &Input{Message: "安いAdidasの靴", Existing: existing})
	require.NoError(t, err)

	assert.Equal(t, models.PriceLow, out.Extracted.PriceRange)
	assert.Equal(t, models.PriceLow, out.Merged.PriceRange)
	assert.Equal(t, []string{"Adidas", "Nike"}, out.Merged.Brands)
	assert.Equal(t, []string{"Nike"}, existing.Brands, "input must not be mutated")
	assert.Equal(t, "希望: 価格: 安い, ブランド: Adidas, Nike", out.Summary)
}

func TestHandler_Execute_NilInput(t *testing.T) {
	h := newTestHandler(t)
	_, err := h.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilInput)
}

func TestHandler_Execute_FaultKeepsExisting(t *testing.T) {
	h := newTestHandler(t)
	h.pricePatterns = []compiledPricePattern{{}} // nil regexp panics

	existing := &models.Preferences{Brands: []string{"Sony"}}
	out, err := h.Execute(context.Background(), &Input{Message: "何か", Existing: existing})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sony"}, out.Merged.Brands)
	assert.True(t, out.Extracted.IsEmpty())
}

// ==========================
// Summary and suggestions
// ==========================

func TestSummary(t *testing.T) {
	assert.Equal(t, "特に希望は設定されていません。", Summary(models.Preferences{}))
	assert.Equal(t,
		"希望: 価格: 非常に安い, 品質: 人気, カテゴリ: books, 機能: compact",
		Summary(models.Preferences{
			PriceRange: models.PriceVeryLow,
			Quality:    models.QualityPopular,
			Categories: []string{"books"},
			Features:   []string{"compact"},
		}),
	)
}

func TestSuggestPreferences(t *testing.T) {
	assert.Equal(t, []string{"1万円以下の商品", "5千円以下の商品", "格安商品"}, SuggestPreferences("価格が気になる"))
	assert.Equal(t, []string{"1万円以下の商品", "5千円以下の商品", "格安商品"}, SuggestPreferences("安い高品質の家電"), "first matching rule fills the three slots")
	assert.Equal(t, []string{"スマートフォン", "ノートPC", "テレビ"}, SuggestPreferences("家電"))
	assert.Equal(t, []string{"価格の安い商品", "高評価の商品", "人気商品"}, SuggestPreferences("hello"))
}
