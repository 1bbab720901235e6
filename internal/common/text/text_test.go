package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "strips tags", input: "<b>iPhone</b> がほしい", want: "iPhone がほしい"},
		{name: "escapes specials", input: `Tom & "Jerry's"`, want: "Tom &amp; &quot;Jerry&#x27;s&quot;"},
		{name: "unifies newlines", input: "a\r\nb\rc", want: "a\nb\nc"},
		{name: "trims", input: "   こんにちは \n", want: "こんにちは"},
		{name: "lone angle brackets escaped", input: "1 < 2", want: "1 &lt; 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.input))
		})
	}
}

func TestClean(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "strips tags", input: "<b>iPhone</b> がほしい", want: "iPhone がほしい"},
		{name: "keeps specials", input: "H&M Basic Tee", want: "H&M Basic Tee"},
		{name: "keeps quotes", input: `Levi's "501"`, want: `Levi's "501"`},
		{name: "unifies newlines", input: " a\r\nb ", want: "a\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.input))
			assert.Equal(t, Sanitize(tt.input), htmlEscape(Clean(tt.input)))
		})
	}
}

func htmlEscape(s string) string {
	return htmlEscaper.Replace(s)
}

func TestTokenizer_Keywords(t *testing.T) {
	tok := NewTokenizer(DefaultStopWords())

	assert.Equal(t, []string{"15", "iphone"}, tok.Keywords("iPhone 15"))
	assert.Equal(t, []string{"air", "max", "nike"}, tok.Keywords("Nike Air Max and the max"))
	assert.Equal(t, []string{"electronics"}, tok.Keywords("electronics"))
	assert.Empty(t, tok.Keywords("a の I"))
	assert.Empty(t, tok.Keywords(""))
	assert.Equal(t, []string{"pythonプログラミング入門"}, tok.Keywords("Pythonプログラミング入門"))
}

func TestTokenizer_CustomStopWords(t *testing.T) {
	tok := NewTokenizer([]string{"Max"})

	assert.Equal(t, []string{"air", "and", "nike", "the"}, tok.Keywords("Nike Air Max and the max"))
	assert.Equal(t, []string{"air", "max", "nike"}, NewTokenizer(nil).Keywords("nike air max"))
}

func TestDefaultStopWords_ReturnsFreshSlice(t *testing.T) {
	words := DefaultStopWords()
	for i := range words {
		words[i] = "iphone"
	}

	assert.Equal(t, []string{"iphone"}, NewTokenizer(DefaultStopWords()).Keywords("です iphone"))
}

func TestTokenizer_Jaccard(t *testing.T) {
	tok := NewTokenizer(DefaultStopWords())

	assert.Equal(t, 0.0, tok.Jaccard("", "nike"))
	assert.Equal(t, 0.0, tok.Jaccard("the", "nike"))
	assert.Equal(t, 1.0, tok.Jaccard("Nike", "nike"))
	assert.InDelta(t, 1.0/3.0, tok.Jaccard("nike", "Nike Air Max"), 1e-9)
	assert.InDelta(t, 0.5, tok.Jaccard("dell xps", "xps 13 dell laptop"), 1e-9)
	assert.Equal(t, tok.Jaccard("air max", "nike air"), tok.Jaccard("nike air", "air max"))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "¥0", FormatPrice(0))
	assert.Equal(t, "¥800", FormatPrice(800))
	assert.Equal(t, "¥2,500", FormatPrice(2500))
	assert.Equal(t, "¥120,000", FormatPrice(120000))
	assert.Equal(t, "¥1,234,568", FormatPrice(1234567.6))
	assert.Equal(t, "-¥15,000", FormatPrice(-15000))
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "4.8", FormatRating(4.8))
	assert.Equal(t, "5.0", FormatRating(5))
	assert.Equal(t, "4.25", FormatRating(4.25))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "あいう...", Truncate("あいうえおかきく", 6))
	assert.Equal(t, "exact", Truncate("exact", 5))
}
