package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	apperrors "shopping-agent/internal/common/errors"
	"shopping-agent/internal/models"
)

const (
	RecommendedMinRating = 4.5
	MaxSuggestions       = 5
)

// Popular returns products ordered by review count, optionally restricted to one category.
func Popular(ctx context.Context, p Provider, category string, limit int) ([]models.Product, error) {
	all, err := p.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ReviewCount > all[j].ReviewCount
	})

	out := make([]models.Product, 0, len(all))
	for _, prod := range all {
		if category != "" && prod.Category != category {
			continue
		}
		out = append(out, prod)
	}
	return head(out, limit), nil
}

// Recommended samples up to limit products rated at least RecommendedMinRating.
func Recommended(ctx context.Context, p Provider, limit int, rng *rand.Rand) ([]models.Product, error) {
	all, err := p.All(ctx)
	if err != nil {
		return nil, err
	}
	var rated []models.Product
	for _, prod := range all {
		if prod.Rating >= RecommendedMinRating {
			rated = append(rated, prod)
		}
	}
	rng.Shuffle(len(rated), func(i, j int) { rated[i], rated[j] = rated[j], rated[i] })
	if rated == nil {
		rated = []models.Product{}
	}
	return head(rated, limit), nil
}

// Compare resolves ids in order, skipping unknown ones, and needs at least two matches.
func Compare(ctx context.Context, p Provider, ids []string) (*models.Comparison, error) {
	var products []models.Product
	for _, id := range ids {
		prod, err := p.Get(ctx, id)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", id, err)
		}
		products = append(products, prod)
	}
	if len(products) < 2 {
		return nil, apperrors.NewInsufficientProductsError(len(products))
	}

	return &models.Comparison{
		Products: products,
		Price:    comparePrices(products),
		Features: compareFeatures(products),
		Rating:   compareRatings(products),
	}, nil
}

func comparePrices(products []models.Product) models.PriceComparison {
	c := models.PriceComparison{Min: products[0].Price, Max: products[0].Price}
	sum := 0.0
	for _, p := range products {
		if p.Price < c.Min {
			c.Min = p.Price
		}
		if p.Price > c.Max {
			c.Max = p.Price
		}
		sum += p.Price
	}
	c.Average = sum / float64(len(products))
	c.Range = c.Max - c.Min
	return c
}

func compareFeatures(products []models.Product) []models.FeatureAvailable {
	seen := make(map[string]struct{})
	var features []string
	for _, p := range products {
		for _, f := range p.Features {
			if _, ok := seen[f]; !ok {
				seen[f] = struct{}{}
				features = append(features, f)
			}
		}
	}
	sort.Strings(features)

	out := make([]models.FeatureAvailable, 0, len(features))
	for _, f := range features {
		fa := models.FeatureAvailable{Feature: f, Available: make([]bool, len(products))}
		for i, p := range products {
			fa.Available[i] = p.HasFeature(f)
		}
		out = append(out, fa)
	}
	return out
}

func compareRatings(products []models.Product) models.RatingComparison {
	c := models.RatingComparison{Highest: products[0].Rating, Lowest: products[0].Rating}
	sum := 0.0
	for _, p := range products {
		if p.Rating > c.Highest {
			c.Highest = p.Rating
		}
		if p.Rating < c.Lowest {
			c.Lowest = p.Rating
		}
		sum += p.Rating
	}
	c.Average = sum / float64(len(products))
	return c
}

// Suggest completes a search query from product names, then categories, then brands.
func Suggest(ctx context.Context, p Provider, query string) ([]string, error) {
	all, err := p.All(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))

	suggestions := []string{}
	seenNames := make(map[string]struct{})
	for _, prod := range all {
		name := strings.ToLower(prod.Name)
		if _, dup := seenNames[name]; dup || !strings.Contains(name, q) {
			continue
		}
		seenNames[name] = struct{}{}
		suggestions = append(suggestions, prod.Name)
	}

	for _, c := range distinct(all, func(p models.Product) string { return p.Category }) {
		if strings.Contains(strings.ToLower(c), q) {
			suggestions = append(suggestions, c+"の商品")
		}
	}
	for _, b := range distinct(all, func(p models.Product) string { return p.Brand }) {
		if strings.Contains(strings.ToLower(b), q) {
			suggestions = append(suggestions, b+"の商品")
		}
	}
	return head(suggestions, MaxSuggestions), nil
}

func distinct(products []models.Product, field func(models.Product) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range products {
		v := field(p)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}

func head[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}
