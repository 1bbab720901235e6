package synthesizeresponse

import (
	"context"
	"strings"
	"testing"
	"time"

	"shopping-agent/internal/catalog"
	"shopping-agent/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComparisonText(t *testing.T) {
	m := catalog.NewMemory(catalog.SeedProducts())
	c, err := catalog.Compare(context.Background(), m, []string{"phone_001", "phone_002"})
	require.NoError(t, err)

	got := ComparisonText(c)

	assert.True(t, strings.HasPrefix(got, "商品比較結果をご紹介します。\n\n【価格比較】\n"))
	assert.Contains(t, got, "最安値: ¥110,000\n最高値: ¥120,000\n平均価格: ¥115,000\n\n")
	assert.Contains(t, got, "最高評価: 4.8/5.0\n最低評価: 4.6/5.0\n平均評価: 4.7/5.0\n\n")
	assert.Contains(t, got, "【機能比較】\n5G: 2/2商品に搭載\n")

	assert.Equal(t, "比較する商品が不足しています。", ComparisonText(nil))
}

func TestSessionSummaryText(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := models.NewSession("s1", now)
	for _, msg := range []string{"こんにちは", "スマホを探したい", "安いものがいい", "Appleがいい"} {
		s.AppendMessage(models.Message{Role: models.RoleUser, Text: msg, Timestamp: now}, 0)
		s.AppendMessage(models.Message{Role: models.RoleAssistant, Text: "ok", Timestamp: now}, 0)
	}
	s.Preferences = models.Preferences{PriceRange: models.PriceLow, Brands: []string{"Apple"}}
	for _, p := range catalog.SeedProducts()[:4] {
		s.AddFavorite(p)
	}

	got := SessionSummaryText(s)

	assert.Contains(t, got, "会話回数: 4回\n最近の検索:\n・スマホを探したい\n・安いものがいい\n・Appleがいい\n\n")
	assert.NotContains(t, got, "・こんにちは")
	assert.Contains(t, got, "設定された希望:\n・価格: low\n・ブランド: Apple\n\n")
	assert.Contains(t, got, "お気に入り商品: 4件\n1. iPhone 15 (¥120,000)\n")
	assert.NotContains(t, got, "4. Dell")
}

func TestSessionSummaryText_Empty(t *testing.T) {
	got := SessionSummaryText(models.NewSession("s1", time.Now()))
	assert.Equal(t, "セッション要約をご紹介します。\n\n", got)
}
