package models

import "time"

type Store struct {
	Name     string  `json:"name" yaml:"name"`
	Price    float64 `json:"price" yaml:"price"`
	Shipping float64 `json:"shipping" yaml:"shipping"`
}

// Product is an immutable catalog record.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Price       float64  `json:"price" yaml:"price"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Subcategory string   `json:"subcategory,omitempty" yaml:"subcategory"`
	Brand       string   `json:"brand" yaml:"brand"`
	Rating      float64  `json:"rating" yaml:"rating"`
	ReviewCount int      `json:"review_count" yaml:"review_count"`
	ImageURL    string   `json:"image_url,omitempty" yaml:"image_url"`
	Features    []string `json:"features" yaml:"features"`
	Stores      []Store  `json:"stores" yaml:"stores"`
}

func (p Product) HasFeature(feature string) bool {
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// LowestPrice is the cheapest store price, or the list price when no store carries it.
func (p Product) LowestPrice() float64 {
	if len(p.Stores) == 0 {
		return p.Price
	}
	min := p.Stores[0].Price
	for _, s := range p.Stores[1:] {
		if s.Price < min {
			min = s.Price
		}
	}
	return min
}

func (p Product) Clone() Product {
	c := p
	c.Features = cloneStrings(p.Features)
	if p.Stores != nil {
		c.Stores = append([]Store(nil), p.Stores...)
	}
	return c
}

func CloneProducts(in []Product) []Product {
	out := make([]Product, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// AppliedFilters lists the preference constraints that were active for a search.
type AppliedFilters struct {
	PriceRange PriceRange `json:"price_range,omitempty"`
	Brands     []string   `json:"brands,omitempty"`
	Categories []string   `json:"categories,omitempty"`
	Features   []string   `json:"features,omitempty"`
}

// SearchResult is recomputed on every search and never persisted.
type SearchResult struct {
	Products       []Product      `json:"products"`
	TotalCount     int            `json:"total_count"`
	Query          string         `json:"query"`
	FiltersApplied AppliedFilters `json:"filters_applied"`
	SearchTime     time.Duration  `json:"search_time_ns"`
}

// Comparison summarizes two or more products side by side.
type Comparison struct {
	Products []Product          `json:"products"`
	Price    PriceComparison    `json:"price_comparison"`
	Features []FeatureAvailable `json:"feature_comparison"`
	Rating   RatingComparison   `json:"rating_comparison"`
}

type PriceComparison struct {
	Min     float64 `json:"min_price"`
	Max     float64 `json:"max_price"`
	Average float64 `json:"average_price"`
	Range   float64 `json:"price_range"`
}

// FeatureAvailable holds, per compared product in order, whether it has Feature.
type FeatureAvailable struct {
	Feature   string `json:"feature"`
	Available []bool `json:"available"`
}

func (f FeatureAvailable) Count() int {
	n := 0
	for _, ok := range f.Available {
		if ok {
			n++
		}
	}
	return n
}

type RatingComparison struct {
	Highest float64 `json:"highest_rating"`
	Lowest  float64 `json:"lowest_rating"`
	Average float64 `json:"average_rating"`
}
