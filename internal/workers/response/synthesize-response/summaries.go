package synthesizeresponse

import (
	"fmt"
	"strings"

	"shopping-agent/internal/common/text"
	"shopping-agent/internal/models"
)

const insufficientComparison = "比較する商品が不足しています。"

// ComparisonText renders a product comparison as a chat message.
func ComparisonText(c *models.Comparison) string {
	if c == nil || len(c.Products) < 2 {
		return insufficientComparison
	}
	n := len(c.Products)

	var b strings.Builder
	b.WriteString("商品比較結果をご紹介します。\n\n")

	b.WriteString("【価格比較】\n")
	fmt.Fprintf(&b, "最安値: %s\n", text.FormatPrice(c.Price.Min))
	fmt.Fprintf(&b, "最高値: %s\n", text.FormatPrice(c.Price.Max))
	fmt.Fprintf(&b, "平均価格: %s\n\n", text.FormatPrice(c.Price.Average))

	b.WriteString("【評価比較】\n")
	fmt.Fprintf(&b, "最高評価: %s/5.0\n", text.FormatRating(c.Rating.Highest))
	fmt.Fprintf(&b, "最低評価: %s/5.0\n", text.FormatRating(c.Rating.Lowest))
	fmt.Fprintf(&b, "平均評価: %.1f/5.0\n\n", c.Rating.Average)

	if len(c.Features) > 0 {
		b.WriteString("【機能比較】\n")
		for _, f := range c.Features {
			fmt.Fprintf(&b, "%s: %d/%d商品に搭載\n", f.Feature, f.Count(), n)
		}
	}
	return b.String()
}

// SessionSummaryText renders message count, recent user messages, preferences and favorites.
func SessionSummaryText(s *models.Session) string {
	var b strings.Builder
	b.WriteString("セッション要約をご紹介します。\n\n")
	if s == nil {
		return b.String()
	}

	var userMessages []models.Message
	for _, m := range s.ConversationHistory {
		if m.Role == models.RoleUser {
			userMessages = append(userMessages, m)
		}
	}
	if len(userMessages) > 0 {
		fmt.Fprintf(&b, "会話回数: %d回\n", len(userMessages))
		b.WriteString("最近の検索:\n")
		recent := userMessages
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		for _, m := range recent {
			if m.Text != "" {
				fmt.Fprintf(&b, "・%s\n", text.Truncate(m.Text, 50))
			}
		}
		b.WriteString("\n")
	}

	if p := s.Preferences; !p.IsEmpty() {
		b.WriteString("設定された希望:\n")
		if p.PriceRange != "" {
			fmt.Fprintf(&b, "・価格: %s\n", p.PriceRange)
		}
		if len(p.Brands) > 0 {
			fmt.Fprintf(&b, "・ブランド: %s\n", strings.Join(p.Brands, ", "))
		}
		if len(p.Categories) > 0 {
			fmt.Fprintf(&b, "・カテゴリ: %s\n", strings.Join(p.Categories, ", "))
		}
		b.WriteString("\n")
	}

	if len(s.Favorites) > 0 {
		fmt.Fprintf(&b, "お気に入り商品: %d件\n", len(s.Favorites))
		for i, f := range s.Favorites {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "%d. %s (%s)\n", i+1, displayName(f), text.FormatPrice(f.Price))
		}
	}
	return b.String()
}
