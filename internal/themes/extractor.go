// Package themes tags journal text with topical categories.
package themes

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/lexicon"
)

// Extract returns the themes whose keywords appear in text, in table order.
// Text matching no theme yields the single general tag.
func Extract(table []lexicon.Theme, text string) []string {
	lower := strings.ToLower(text)

	var found []string
	for _, th := range table {
		for _, kw := range th.Keywords {
			if strings.Contains(lower, kw) {
				found = append(found, th.Name)
				break
			}
		}
	}

	if len(found) == 0 {
		return []string{domain.GeneralTheme}
	}
	return found
}

// Label turns a tag into display text: "personal_growth" becomes "Personal Growth"
func Label(tag string) string {
	words := strings.Fields(strings.ReplaceAll(tag, "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
