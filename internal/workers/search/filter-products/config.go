package filterproducts

import (
	"time"

	"shopping-agent/internal/models"
)

type Config struct {
	// PriceCeilings caps the list price per price range. A range without an entry is unbounded.
	PriceCeilings map[models.PriceRange]float64
	Timeout       time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		PriceCeilings: map[models.PriceRange]float64{
			models.PriceVeryLow: 5000,
			models.PriceLow:     15000,
			models.PriceMedium:  50000,
			models.PriceHigh:    100000,
		},
		Timeout: 10 * time.Second,
	}
}
