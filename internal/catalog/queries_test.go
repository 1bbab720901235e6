package catalog

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	apperrors "shopping-agent/internal/common/errors"
	"shopping-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingProvider struct{}

func (failingProvider) All(context.Context) ([]models.Product, error) {
	return nil, errors.New("backend down")
}

func (failingProvider) Get(context.Context, string) (models.Product, error) {
	return models.Product{}, errors.New("backend down")
}

func ids(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

// ==========================
// Popular / Recommended
// ==========================

func TestPopular(t *testing.T) {
	m := NewMemory(SeedProducts())

	all, err := Popular(context.Background(), m, "", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"clothing_002", "clothing_001", "laptop_001"}, ids(all))

	electronics, err := Popular(context.Background(), m, "electronics", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"laptop_001", "phone_001", "phone_002", "laptop_002"}, ids(electronics))

	_, err = Popular(context.Background(), failingProvider{}, "", 3)
	assert.Error(t, err)
}

func TestRecommended(t *testing.T) {
	m := NewMemory(SeedProducts())

	got, err := Recommended(context.Background(), m, 3, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Rating, RecommendedMinRating)
	}

	again, err := Recommended(context.Background(), m, 3, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, ids(got), ids(again))

	everything, err := Recommended(context.Background(), m, 0, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Len(t, everything, 6)
}

// ==========================
// Compare
// ==========================

func TestCompare(t *testing.T) {
	m := NewMemory(SeedProducts())

	c, err := Compare(context.Background(), m, []string{"phone_001", "missing", "phone_002"})
	require.NoError(t, err)

	assert.Len(t, c.Products, 2)
	assert.Equal(t, 110000.0, c.Price.Min)
	assert.Equal(t, 120000.0, c.Price.Max)
	assert.Equal(t, 115000.0, c.Price.Average)
	assert.Equal(t, 10000.0, c.Price.Range)
	assert.Equal(t, 4.8, c.Rating.Highest)
	assert.Equal(t, 4.6, c.Rating.Lowest)
	assert.InDelta(t, 4.7, c.Rating.Average, 1e-9)

	require.Len(t, c.Features, 3)
	assert.Equal(t, "5G", c.Features[0].Feature)
	for _, f := range c.Features {
		assert.Equal(t, 2, f.Count())
	}
}

func TestCompare_Insufficient(t *testing.T) {
	m := NewMemory(SeedProducts())

	_, err := Compare(context.Background(), m, []string{"phone_001", "missing"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInsufficientProducts, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsValidation(err))
}

func TestCompare_ProviderError(t *testing.T) {
	_, err := Compare(context.Background(), failingProvider{}, []string{"a", "b"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))
}

// ==========================
// Suggest
// ==========================

func TestSuggest(t *testing.T) {
	m := NewMemory(SeedProducts())

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "product names", query: "mac", want: []string{"MacBook Air M2"}},
		{name: "brand", query: "nike", want: []string{"Nike Air Max 270", "Nikeの商品"}},
		{name: "category", query: "book", want: []string{"MacBook Air M2", "booksの商品"}},
		{name: "no match", query: "zzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Suggest(context.Background(), m, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	capped, err := Suggest(context.Background(), m, "")
	require.NoError(t, err)
	assert.Len(t, capped, MaxSuggestions)
}
