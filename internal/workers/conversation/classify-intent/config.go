package classifyintent

import (
	"time"

	"shopping-agent/internal/common/text"
	"shopping-agent/internal/models"
)

// Rule maps a vocabulary to an intent. Rules are tried in order; the first match wins.
type Rule struct {
	Intent     models.IntentType
	Confidence float64
	Patterns   []string
}

type Config struct {
	Rules []Rule
	// FallbackConfidence is assigned when no rule matches and the message is treated as a search.
	FallbackConfidence float64
	// PricePatterns are regexes with one numeric capture group; the first pattern with a match wins.
	PricePatterns []string
	Categories    []string
	Brands        []string
	// StopWords are dropped from the extracted keywords.
	StopWords []string
	Timeout   time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Rules: []Rule{
			{
				Intent:     models.IntentGreeting,
				Confidence: 0.9,
				Patterns:   []string{"こんにちは", "はじめまして", "おはよう", "こんばんは", "hello", "hi", "good morning", "good evening"},
			},
			{
				Intent:     models.IntentFarewell,
				Confidence: 0.9,
				Patterns:   []string{"さようなら", "ありがとう", "お疲れ様", "失礼します", "goodbye", "bye", "thank you", "thanks"},
			},
			{
				Intent:     models.IntentHelp,
				Confidence: 0.8,
				Patterns:   []string{"ヘルプ", "使い方", "説明", "サポート", "help", "how to", "support"},
			},
			{
				Intent:     models.IntentProductSearch,
				Confidence: 0.7,
				Patterns:   []string{"探したい", "検索", "見つけたい", "買いたい", "search", "find", "look for", "buy"},
			},
			{
				Intent:     models.IntentQuestion,
				Confidence: 0.6,
				Patterns:   []string{"?", "？", "ですか", "でしょうか", "か", "what", "how", "why", "when", "where"},
			},
		},
		FallbackConfidence: 0.5,
		PricePatterns:      []string{`(\d+)円`, `(\d+)万円`, `(\d+)千円`, `(\d+)yen`, `(\d+)万`, `(\d+)k`},
		Categories:         []string{"電化製品", "服", "本", "食品", "化粧品", "スポーツ", "家具", "玩具"},
		Brands:             []string{"Apple", "Sony", "Panasonic", "Nike", "Adidas", "Uniqlo"},
		StopWords:          text.DefaultStopWords(),
		Timeout:            5 * time.Second,
	}
}
