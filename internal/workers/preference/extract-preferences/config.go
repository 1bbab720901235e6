package extractpreferences

import (
	"time"

	"shopping-agent/internal/common/text"
	"shopping-agent/internal/models"
)

// KeywordValue maps a substring to the value it implies. Tables are scanned in order.
type KeywordValue struct {
	Keyword string
	Value   string
}

type PricePattern struct {
	Pattern string
	Range   models.PriceRange
}

type Config struct {
	PriceKeywords    []KeywordValue
	PricePatterns    []PricePattern
	QualityKeywords  []KeywordValue
	Brands           []string
	CategoryKeywords []KeywordValue
	FeatureKeywords  []KeywordValue
	ExclusionMarkers []string
	StopWords        []string
	Timeout          time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		PriceKeywords: []KeywordValue{
			{"安い", string(models.PriceLow)},
			{"安価", string(models.PriceLow)},
			{"高価", string(models.PriceHigh)},
			{"高い", string(models.PriceHigh)},
			{"格安", string(models.PriceVeryLow)},
			{"激安", string(models.PriceVeryLow)},
			{"高級", string(models.PriceVeryHigh)},
			{"プレミアム", string(models.PriceVeryHigh)},
		},
		PricePatterns: []PricePattern{
			{`(\d+)円以下`, models.PriceLow},
			{`(\d+)万円以下`, models.PriceLow},
			{`(\d+)円以上`, models.PriceHigh},
			{`(\d+)万円以上`, models.PriceHigh},
			{`(\d+)円〜(\d+)円`, models.PriceMedium},
			{`(\d+)万円〜(\d+)万円`, models.PriceMedium},
		},
		QualityKeywords: []KeywordValue{
			{"高品質", string(models.QualityHigh)},
			{"品質", string(models.QualityMedium)},
			{"良質", string(models.QualityGood)},
			{"上質", string(models.QualityHigh)},
			{"高評価", string(models.QualityHigh)},
			{"人気", string(models.QualityPopular)},
		},
		Brands: []string{
			"Apple", "Sony", "Panasonic", "Sharp", "Toshiba",
			"Nike", "Adidas", "Uniqlo", "Zara", "H&M",
			"Samsung", "LG", "Canon", "Nikon", "Fujifilm",
		},
		CategoryKeywords: []KeywordValue{
			{"電化製品", "electronics"},
			{"家電", "electronics"},
			{"服", "clothing"},
			{"ファッション", "clothing"},
			{"本", "books"},
			{"書籍", "books"},
			{"食品", "food"},
			{"食べ物", "food"},
			{"化粧品", "cosmetics"},
			{"美容", "cosmetics"},
			{"スポーツ", "sports"},
			{"家具", "furniture"},
			{"玩具", "toys"},
			{"おもちゃ", "toys"},
		},
		FeatureKeywords: []KeywordValue{
			{"無線", "wireless"},
			{"ワイヤレス", "wireless"},
			{"防水", "waterproof"},
			{"軽量", "lightweight"},
			{"コンパクト", "compact"},
			{"大容量", "large_capacity"},
			{"高速", "high_speed"},
			{"省エネ", "energy_saving"},
			{"スマート", "smart"},
			{"自動", "automatic"},
		},
		ExclusionMarkers: []string{"除外", "除く", "ない", "不要", "いらない", "except", "without", "not"},
		StopWords:        text.DefaultStopWords(),
		Timeout:          5 * time.Second,
	}
}
