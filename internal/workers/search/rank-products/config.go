package rankproducts

import (
	"time"

	"shopping-agent/internal/common/text"
)

// Weights of the relevance score. Rating is taken on its raw 0-5 scale.
type Weights struct {
	Name        float64
	Description float64
	Category    float64
	Rating      float64
}

type Config struct {
	Weights Weights
	// MaxItems truncates the ranked list; 0 keeps everything.
	MaxItems int
	// StopWords are ignored when building keyword sets for the query and product text.
	StopWords     []string
	SlowThreshold time.Duration
	Timeout       time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Weights: Weights{
			Name:        0.4,
			Description: 0.3,
			Category:    0.2,
			Rating:      0.1,
		},
		MaxItems:      0,
		StopWords:     text.DefaultStopWords(),
		SlowThreshold: 500 * time.Millisecond,
		Timeout:       10 * time.Second,
	}
}
