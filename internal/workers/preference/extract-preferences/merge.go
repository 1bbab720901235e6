package extractpreferences

import (
	"sort"

	"shopping-agent/internal/models"
)

// Merge folds incoming into existing. A non-empty incoming scalar overwrites; set fields are
// sorted unions. Neither argument is modified.
func Merge(existing, incoming models.Preferences) models.Preferences {
	out := existing.Clone()
	if incoming.PriceRange != "" {
		out.PriceRange = incoming.PriceRange
	}
	if incoming.Quality != "" {
		out.Quality = incoming.Quality
	}
	out.Brands = union(existing.Brands, incoming.Brands)
	out.Categories = union(existing.Categories, incoming.Categories)
	out.Features = union(existing.Features, incoming.Features)
	out.ExcludedItems = union(existing.ExcludedItems, incoming.ExcludedItems)
	out.Keywords = union(existing.Keywords, incoming.Keywords)
	return out
}

// Clear is the only way accumulated preferences shrink.
func Clear() models.Preferences {
	return models.Preferences{}
}

func union(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(a)+len(b))
	for _, s := range a {
		set[s] = struct{}{}
	}
	for _, s := range b {
		set[s] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
