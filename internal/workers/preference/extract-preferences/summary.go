package extractpreferences

import (
	"strings"

	"shopping-agent/internal/models"
)

const noPreferences = "特に希望は設定されていません。"

var priceLabels = map[models.PriceRange]string{
	models.PriceVeryLow:  "非常に安い",
	models.PriceLow:      "安い",
	models.PriceMedium:   "普通",
	models.PriceHigh:     "高い",
	models.PriceVeryHigh: "非常に高い",
}

var qualityLabels = map[models.Quality]string{
	models.QualityHigh:    "高品質",
	models.QualityMedium:  "普通",
	models.QualityGood:    "良質",
	models.QualityPopular: "人気",
}

// Summary renders the active preferences as one Japanese line.
func Summary(p models.Preferences) string {
	var parts []string
	if p.PriceRange != "" {
		parts = append(parts, "価格: "+labelOr(priceLabels[p.PriceRange], string(p.PriceRange)))
	}
	if p.Quality != "" {
		parts = append(parts, "品質: "+labelOr(qualityLabels[p.Quality], string(p.Quality)))
	}
	if len(p.Brands) > 0 {
		parts = append(parts, "ブランド: "+strings.Join(p.Brands, ", "))
	}
	if len(p.Categories) > 0 {
		parts = append(parts, "カテゴリ: "+strings.Join(p.Categories, ", "))
	}
	if len(p.Features) > 0 {
		parts = append(parts, "機能: "+strings.Join(p.Features, ", "))
	}
	if len(parts) == 0 {
		return noPreferences
	}
	return "希望: " + strings.Join(parts, ", ")
}

func labelOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}

type suggestionRule struct {
	triggers    []string
	suggestions []string
}

var suggestionRules = []suggestionRule{
	{[]string{"安い", "価格"}, []string{"1万円以下の商品", "5千円以下の商品", "格安商品"}},
	{[]string{"高品質", "品質"}, []string{"高評価の商品", "人気商品", "プレミアム商品"}},
	{[]string{"ブランド", "メーカー"}, []string{"Apple製品", "Sony製品", "Nike製品"}},
	{[]string{"電化製品", "家電"}, []string{"スマートフォン", "ノートPC", "テレビ"}},
}

var defaultPreferenceSuggestions = []string{"価格の安い商品", "高評価の商品", "人気商品"}

// SuggestPreferences proposes up to three refinements for message.
func SuggestPreferences(message string) []string {
	lower := strings.ToLower(message)
	var out []string
	for _, r := range suggestionRules {
		for _, t := range r.triggers {
			if strings.Contains(lower, t) {
				out = append(out, r.suggestions...)
				break
			}
		}
	}
	if len(out) == 0 {
		out = defaultPreferenceSuggestions
	}
	if len(out) > 3 {
		out = out[:3]
	}
	return append([]string(nil), out...)
}
