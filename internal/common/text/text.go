// Package text holds the normalizing, tokenizing and display helpers shared by every pipeline stage.
package text

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
	wordPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]+`)

	htmlEscaper     = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "'", "&#x27;")
	newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// DefaultStopWords returns the particles and function words dropped from keyword sets.
func DefaultStopWords() []string {
	return []string{
		"の", "に", "は", "を", "が", "で", "と", "から", "まで",
		"です", "ます", "ください", "お願い", "ありがとう",
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	}
}

// Clean strips markup, unifies line endings and trims. Unlike Sanitize it leaves
// entities unescaped, so the result can be matched against raw catalog text.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}
	s := tagPattern.ReplaceAllString(raw, "")
	s = newlineReplacer.Replace(s)
	return strings.TrimSpace(s)
}

// Sanitize is Clean followed by HTML escaping, for text that is stored or displayed.
// It is not idempotent: call it once on raw user input.
func Sanitize(raw string) string {
	return htmlEscaper.Replace(Clean(raw))
}

// Tokenizer splits text into keyword sets. It is immutable once built.
type Tokenizer struct {
	stop map[string]struct{}
}

func NewTokenizer(stopWords []string) *Tokenizer {
	stop := make(map[string]struct{}, len(stopWords))
	for _, w := range stopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stop: stop}
}

// Keywords lowercases and tokenizes text, removing stop words and single-rune tokens.
// The result is deduplicated and sorted.
func (t *Tokenizer) Keywords(s string) []string {
	set := t.KeywordSet(s)
	if len(set) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// KeywordSet is Keywords as a set.
func (t *Tokenizer) KeywordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	if s == "" {
		return set
	}
	for _, word := range wordPattern.FindAllString(strings.ToLower(s), -1) {
		if utf8.RuneCountInString(word) <= 1 {
			continue
		}
		if _, stop := t.stop[word]; stop {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}

// Jaccard returns |A∩B|/|A∪B| over the keyword sets of a and b, or 0 if either is empty.
func (t *Tokenizer) Jaccard(a, b string) float64 {
	return JaccardSets(t.KeywordSet(a), t.KeywordSet(b))
}

// JaccardSets is Jaccard over precomputed keyword sets.
func JaccardSets(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(small) > len(large) {
		small, large = large, small
	}
	inter := 0
	for k := range small {
		if _, ok := large[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// FormatPrice renders a yen amount with thousands separators, e.g. ¥120,000.
func FormatPrice(price float64) string {
	n := int64(math.Round(price))
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var b strings.Builder
	b.WriteString(sign)
	b.WriteString("¥")
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatRating renders a rating with at least one decimal place (4.8, 5.0).
func FormatRating(r float64) string {
	s := strconv.FormatFloat(r, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Truncate shortens s to at most max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	if max <= 3 {
		return string([]rune(s)[:max])
	}
	return string([]rune(s)[:max-3]) + "..."
}
