package models

type PriceRange string

const (
	PriceVeryLow  PriceRange = "very_low"
	PriceLow      PriceRange = "low"
	PriceMedium   PriceRange = "medium"
	PriceHigh     PriceRange = "high"
	PriceVeryHigh PriceRange = "very_high"
)

type Quality string

const (
	QualityHigh    Quality = "high"
	QualityMedium  Quality = "medium"
	QualityGood    Quality = "good"
	QualityPopular Quality = "popular"
)

// Preferences are the accumulated shopping constraints of a session.
// Scalars are overwritten by newer values; slices only grow until an explicit clear.
type Preferences struct {
	PriceRange    PriceRange `json:"price_range,omitempty"`
	Quality       Quality    `json:"quality,omitempty"`
	Brands        []string   `json:"brands,omitempty"`
	Categories    []string   `json:"categories,omitempty"`
	Features      []string   `json:"features,omitempty"`
	ExcludedItems []string   `json:"excluded_items,omitempty"`
	Keywords      []string   `json:"keywords,omitempty"`
}

func (p Preferences) IsEmpty() bool {
	return p.PriceRange == "" && p.Quality == "" &&
		len(p.Brands) == 0 && len(p.Categories) == 0 && len(p.Features) == 0 &&
		len(p.ExcludedItems) == 0 && len(p.Keywords) == 0
}

func (p Preferences) Clone() Preferences {
	return Preferences{
		PriceRange:    p.PriceRange,
		Quality:       p.Quality,
		Brands:        cloneStrings(p.Brands),
		Categories:    cloneStrings(p.Categories),
		Features:      cloneStrings(p.Features),
		ExcludedItems: cloneStrings(p.ExcludedItems),
		Keywords:      cloneStrings(p.Keywords),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
