// Package sentiment scores journal text on a [-1, 1] valence scale.
//
// The scorer is a transparent lexicon heuristic: contextual phrases, weighted
// word categories, negation and intensifier windows, then density and length
// adjustments. It is pure and deterministic for a given lexicon.
package sentiment

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pbaille/journal/internal/lexicon"
)

const (
	// PhraseWeight is added (or subtracted) once per matched contextual phrase
	PhraseWeight = 0.4

	// HighMultiplier and LowMultiplier scale a word preceded by an intensifier
	HighMultiplier = 1.5
	LowMultiplier  = 0.7

	negationWindow    = 3
	intensifierWindow = 2

	longTextTokens   = 20
	lengthBoost      = 1.1
	neutralDefault   = 0.05
	exclamationBoost = 0.1
	capsBoost        = 0.05
	capsRatio        = 0.3
	capsMinLength    = 10
)

var nonWord = regexp.MustCompile(`[^\w\s']`)

// Match describes how one token contributed to the score
type Match struct {
	Token        string  `json:"token"`
	Word         string  `json:"word"`
	Category     string  `json:"category"`
	Weight       float64 `json:"weight"`
	Multiplier   float64 `json:"multiplier"`
	Negated      bool    `json:"negated"`
	Contribution float64 `json:"contribution"`
}

// PhraseMatch is a contextual phrase found in the text
type PhraseMatch struct {
	Phrase string  `json:"phrase"`
	Weight float64 `json:"weight"`
}

// Result is the full breakdown of a scoring run
type Result struct {
	Score          float64       `json:"score"`
	Raw            float64       `json:"raw"`
	Tokens         int           `json:"tokens"`
	SentimentWords int           `json:"sentimentWords"`
	Phrases        []PhraseMatch `json:"phrases,omitempty"`
	Matches        []Match       `json:"matches,omitempty"`
}

// Score returns the valence of text in [-1, 1]
func Score(lex *lexicon.Lexicon, text string) float64 {
	return Analyze(lex, text).Score
}

// Tokenize lowercases text, replaces punctuation other than apostrophes with
// spaces and splits on whitespace.
func Tokenize(text string) []string {
	return strings.Fields(nonWord.ReplaceAllString(strings.ToLower(text), " "))
}

// Analyze scores text and reports every phrase and word that contributed
func Analyze(lex *lexicon.Lexicon, text string) Result {
	if text == "" {
		return Result{}
	}

	lower := strings.ToLower(text)
	tokens := Tokenize(text)

	var res Result
	res.Tokens = len(tokens)
	total := 0.0

	for _, p := range lex.Phrases.Positive {
		if strings.Contains(lower, p) {
			total += PhraseWeight
			res.SentimentWords++
			res.Phrases = append(res.Phrases, PhraseMatch{Phrase: p, Weight: PhraseWeight})
		}
	}
	for _, p := range lex.Phrases.Negative {
		if strings.Contains(lower, p) {
			total -= PhraseWeight
			res.SentimentWords++
			res.Phrases = append(res.Phrases, PhraseMatch{Phrase: p, Weight: -PhraseWeight})
		}
	}

	for i, tok := range tokens {
		cat, word, ok := lookup(lex, tok)
		if !ok {
			continue
		}
		res.SentimentWords++

		m := Match{
			Token:      tok,
			Word:       word,
			Category:   cat.Name,
			Weight:     cat.Weight,
			Multiplier: intensity(lex, tokens, i),
			Negated:    negated(lex, tokens, i),
		}
		m.Contribution = m.Weight * m.Multiplier
		if m.Negated {
			m.Contribution = -m.Contribution
		}
		total += m.Contribution
		res.Matches = append(res.Matches, m)
	}

	if res.SentimentWords == 0 {
		total += punctuationSignal(text)
	}

	if res.SentimentWords > 0 && res.Tokens > 0 {
		density := float64(res.SentimentWords) / float64(res.Tokens)
		total *= 1 + density
	} else if res.Tokens > longTextTokens &&
		!strings.Contains(lower, "why") && !strings.Contains(lower, "what") {
		total = neutralDefault
	}

	if res.Tokens > longTextTokens {
		total *= lengthBoost
	}

	res.Raw = total
	res.Score = clamp(total)
	return res
}

// lookup finds the category for a token. A token matches a word it equals,
// contains or is part of, and the first category with a match wins. With
// tiered matching, exact matches across every category are tried first.
func lookup(lex *lexicon.Lexicon, tok string) (*lexicon.Category, string, bool) {
	opts := lex.Matching
	partial := func(tok, word string) bool {
		if strings.Contains(tok, word) {
			return true
		}
		return len(tok) >= opts.MinPartialLen && strings.Contains(word, tok)
	}

	if opts.Tiered {
		if cat, word, ok := firstMatch(lex, tok, func(tok, word string) bool { return tok == word }); ok {
			return cat, word, true
		}
	}
	return firstMatch(lex, tok, partial)
}

func firstMatch(lex *lexicon.Lexicon, tok string, match func(tok, word string) bool) (*lexicon.Category, string, bool) {
	for i := range lex.Categories {
		cat := &lex.Categories[i]
		for _, word := range cat.Words {
			if match(tok, word) {
				return cat, word, true
			}
		}
	}
	return nil, "", false
}

// negated reports whether a negation marker appears in the preceding window
func negated(lex *lexicon.Lexicon, tokens []string, i int) bool {
	for j := max(0, i-negationWindow); j < i; j++ {
		for _, neg := range lex.Negations {
			if strings.Contains(tokens[j], neg) {
				return true
			}
		}
	}
	return false
}

// intensity returns the multiplier of the first intensifier in the preceding
// window, scanning oldest to newest. Multi-word intensifiers must start and
// end inside the window.
func intensity(lex *lexicon.Lexicon, tokens []string, i int) float64 {
	for j := max(0, i-intensifierWindow); j < i; j++ {
		if isIntensifier(lex.Intensifiers.High, tokens, j, i) {
			return HighMultiplier
		}
		if isIntensifier(lex.Intensifiers.Low, tokens, j, i) {
			return LowMultiplier
		}
	}
	return 1
}

func isIntensifier(list []string, tokens []string, j, end int) bool {
	for _, w := range list {
		parts := strings.Fields(w)
		if len(parts) == 0 || j+len(parts) > end {
			continue
		}
		hit := true
		for k, p := range parts {
			if tokens[j+k] != p {
				hit = false
				break
			}
		}
		if hit {
			return true
		}
	}
	return false
}

// punctuationSignal scores exclamation marks and shouting in text that has no
// sentiment words
func punctuationSignal(text string) float64 {
	signal := 0.0
	if strings.Count(text, "!") >= 2 {
		signal += exclamationBoost
	}

	length := utf8.RuneCountInString(text)
	caps := 0
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			caps++
		}
	}
	if length > capsMinLength && float64(caps)/float64(length) > capsRatio {
		signal += capsBoost
	}
	return signal
}

func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
