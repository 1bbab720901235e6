package synthesizeresponse

import "shopping-agent/internal/models"

// ResultPrompts are the follow-up actions offered for a non-empty search result.
type ResultPrompts struct {
	Compare        string
	SortAscending  string
	SortDescending string
	HighRatedOnly  string
	FilterByBrand  string
}

func defaultIntentSuggestions() map[models.IntentType][]string {
	return map[models.IntentType][]string{
		models.IntentGreeting:      {"商品を探したい", "おすすめ商品を教えて", "価格を比較したい"},
		models.IntentProductSearch: {"価格の安い商品を探したい", "高評価の商品を教えて", "商品の詳細を教えて"},
		models.IntentHelp:          {"商品検索の使い方", "価格比較の方法", "お気に入り登録の方法"},
	}
}

func defaultResultPrompts() ResultPrompts {
	return ResultPrompts{
		Compare:        "商品を比較する",
		SortAscending:  "価格の安い順で並び替え",
		SortDescending: "価格の高い順で並び替え",
		HighRatedOnly:  "高評価商品のみ表示",
		FilterByBrand:  "ブランドで絞り込み",
	}
}

// IntentSuggestions returns the follow-up prompts for a conversational reply.
func (h *Handler) IntentSuggestions(t models.IntentType) []string {
	s, ok := h.config.IntentSuggestions[t]
	if !ok {
		s = h.config.DefaultSuggestions
	}
	return limit(append([]string{}, s...), h.config.MaxIntentSuggestions)
}

// ResultSuggestions derives follow-up actions from the products of a search.
func (h *Handler) ResultSuggestions(products []models.Product) []string {
	if len(products) == 0 {
		return append([]string{}, h.config.BroadenSearch...)
	}

	prompts := h.config.ResultPrompts
	var out []string
	if len(products) > 1 {
		out = append(out, prompts.Compare)
	}

	lo, hi := products[0].Price, products[0].Price
	highRated := false
	brands := make(map[string]struct{})
	for _, p := range products {
		if p.Price < lo {
			lo = p.Price
		}
		if p.Price > hi {
			hi = p.Price
		}
		if p.Rating >= h.config.HighRating {
			highRated = true
		}
		if p.Brand != "" {
			brands[p.Brand] = struct{}{}
		}
	}

	if hi-lo > h.config.PriceSpread {
		out = append(out, prompts.SortAscending, prompts.SortDescending)
	}
	if highRated {
		out = append(out, prompts.HighRatedOnly)
	}
	if len(brands) > 1 {
		out = append(out, prompts.FilterByBrand)
	}
	if out == nil {
		out = []string{}
	}
	return limit(out, h.config.MaxResultSuggestions)
}

func limit(s []string, n int) []string {
	if n > 0 && len(s) > n {
		return s[:n]
	}
	return s
}
