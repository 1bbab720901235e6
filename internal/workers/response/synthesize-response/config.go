package synthesizeresponse

import (
	"time"

	"shopping-agent/internal/models"
)

type Config struct {
	Templates map[string][]string
	// TopN products are listed in a multi-result message.
	TopN             int
	DescriptionLimit int
	// PriceSpread above which sort suggestions are offered.
	PriceSpread          float64
	HighRating           float64
	MaxIntentSuggestions int
	MaxResultSuggestions int
	// IntentSuggestions are the follow-ups of a conversational reply; DefaultSuggestions cover
	// intents without an entry.
	IntentSuggestions  map[models.IntentType][]string
	DefaultSuggestions []string
	// BroadenSearch replaces result suggestions when a search finds nothing.
	BroadenSearch []string
	ResultPrompts ResultPrompts
	Timeout       time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Templates:            defaultTemplates(),
		TopN:                 3,
		DescriptionLimit:     100,
		PriceSpread:          10000,
		HighRating:           4.5,
		MaxIntentSuggestions: 3,
		MaxResultSuggestions: 5,
		IntentSuggestions:    defaultIntentSuggestions(),
		DefaultSuggestions:   []string{"商品を探したい", "おすすめ商品を教えて", "使い方を教えて"},
		BroadenSearch:        []string{"価格を変更して検索", "カテゴリを変更して検索", "別のキーワードで検索"},
		ResultPrompts:        defaultResultPrompts(),
		Timeout:              5 * time.Second,
	}
}
