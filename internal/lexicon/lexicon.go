// Package lexicon holds the static word tables that drive entry annotation.
//
// Tables are plain data: build them once with Default or Load at startup and
// pass them to the scorer, extractor and prompt selector. Nothing in this
// package mutates a table after it is returned.
package lexicon

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pbaille/journal/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a table fails validation
var ErrInvalid = errors.New("invalid lexicon")

// Category is a weighted list of sentiment words
type Category struct {
	Name   string   `yaml:"name" json:"name"`
	Weight float64  `yaml:"weight" json:"weight"`
	Words  []string `yaml:"words" json:"words"`
}

// Intensifiers scale the contribution of a nearby sentiment word
type Intensifiers struct {
	High []string `yaml:"high" json:"high"`
	Low  []string `yaml:"low" json:"low"`
}

// Phrases are multi-word strings that signal sentiment on their own
type Phrases struct {
	Positive []string `yaml:"positive" json:"positive"`
	Negative []string `yaml:"negative" json:"negative"`
}

// Matching tunes how tokens are looked up in the categories. The zero value
// is the plain rule: a token matches a word it equals, contains or is part of.
type Matching struct {
	// Tiered tries exact matches across every category before containment
	Tiered bool `yaml:"tiered" json:"tiered"`

	// MinPartialLen is the shortest token allowed to match as part of a
	// longer word; 0 allows any length
	MinPartialLen int `yaml:"min_partial_len" json:"minPartialLen"`
}

// Lexicon is the sentiment scoring table.
// Categories are tried in slice order; the first category with a matching
// word decides the weight of a token.
type Lexicon struct {
	Categories   []Category   `yaml:"categories" json:"categories"`
	Intensifiers Intensifiers `yaml:"intensifiers" json:"intensifiers"`
	Negations    []string     `yaml:"negations" json:"negations"`
	Phrases      Phrases      `yaml:"phrases" json:"phrases"`
	Matching     Matching     `yaml:"matching" json:"matching"`
}

// Theme is a topical tag and the keywords that select it
type Theme struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Prompts are the reflective questions offered after an entry
type Prompts struct {
	ByTheme map[string][]string `yaml:"by_theme" json:"byTheme"`
	Default []string            `yaml:"default" json:"default"`
}

// Tables bundles every annotation table
type Tables struct {
	Sentiment Lexicon `yaml:"sentiment" json:"sentiment"`
	Themes    []Theme `yaml:"themes" json:"themes"`
	Prompts   Prompts `yaml:"prompts" json:"prompts"`
}

// ThemeNames returns the theme tags in declaration order
func (t *Tables) ThemeNames() []string {
	names := make([]string, len(t.Themes))
	for i, th := range t.Themes {
		names[i] = th.Name
	}
	return names
}

// Load reads a YAML override file on top of the default tables.
// Sections left out of the file keep their default contents.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML override document on top of the default tables
func Parse(data []byte) (*Tables, error) {
	var override Tables
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	t := Default()
	t.merge(&override)
	t.normalize()

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tables) merge(o *Tables) {
	if len(o.Sentiment.Categories) > 0 {
		t.Sentiment.Categories = o.Sentiment.Categories
	}
	if len(o.Sentiment.Intensifiers.High) > 0 {
		t.Sentiment.Intensifiers.High = o.Sentiment.Intensifiers.High
	}
	if len(o.Sentiment.Intensifiers.Low) > 0 {
		t.Sentiment.Intensifiers.Low = o.Sentiment.Intensifiers.Low
	}
	if len(o.Sentiment.Negations) > 0 {
		t.Sentiment.Negations = o.Sentiment.Negations
	}
	if len(o.Sentiment.Phrases.Positive) > 0 {
		t.Sentiment.Phrases.Positive = o.Sentiment.Phrases.Positive
	}
	if len(o.Sentiment.Phrases.Negative) > 0 {
		t.Sentiment.Phrases.Negative = o.Sentiment.Phrases.Negative
	}
	if o.Sentiment.Matching != (Matching{}) {
		t.Sentiment.Matching = o.Sentiment.Matching
	}
	if len(o.Themes) > 0 {
		t.Themes = o.Themes
	}
	if len(o.Prompts.ByTheme) > 0 {
		t.Prompts.ByTheme = o.Prompts.ByTheme
	}
	if len(o.Prompts.Default) > 0 {
		t.Prompts.Default = o.Prompts.Default
	}
}

// normalize lowercases every matchable word so lookups stay case-insensitive
func (t *Tables) normalize() {
	for i := range t.Sentiment.Categories {
		lowerAll(t.Sentiment.Categories[i].Words)
	}
	lowerAll(t.Sentiment.Intensifiers.High)
	lowerAll(t.Sentiment.Intensifiers.Low)
	lowerAll(t.Sentiment.Negations)
	lowerAll(t.Sentiment.Phrases.Positive)
	lowerAll(t.Sentiment.Phrases.Negative)
	for i := range t.Themes {
		lowerAll(t.Themes[i].Keywords)
	}
}

func lowerAll(words []string) {
	for i, w := range words {
		words[i] = strings.ToLower(strings.TrimSpace(w))
	}
}

// Validate checks the tables for structural problems
func (t *Tables) Validate() error {
	if t.Sentiment.Matching.MinPartialLen < 0 {
		return fmt.Errorf("%w: negative min_partial_len", ErrInvalid)
	}
	for _, c := range t.Sentiment.Categories {
		if c.Name == "" {
			return fmt.Errorf("%w: category without name", ErrInvalid)
		}
		if len(c.Words) == 0 {
			return fmt.Errorf("%w: category %q has no words", ErrInvalid, c.Name)
		}
		if c.Weight < -1 || c.Weight > 1 {
			return fmt.Errorf("%w: category %q weight %v outside [-1, 1]", ErrInvalid, c.Name, c.Weight)
		}
		for _, w := range c.Words {
			if w == "" {
				return fmt.Errorf("%w: category %q has an empty word", ErrInvalid, c.Name)
			}
		}
	}

	seen := make(map[string]bool)
	for _, th := range t.Themes {
		if th.Name == "" {
			return fmt.Errorf("%w: theme without name", ErrInvalid)
		}
		if th.Name == domain.GeneralTheme {
			return fmt.Errorf("%w: theme name %q is reserved", ErrInvalid, th.Name)
		}
		if seen[th.Name] {
			return fmt.Errorf("%w: duplicate theme %q", ErrInvalid, th.Name)
		}
		seen[th.Name] = true
		if len(th.Keywords) == 0 {
			return fmt.Errorf("%w: theme %q has no keywords", ErrInvalid, th.Name)
		}
		for _, k := range th.Keywords {
			if k == "" {
				return fmt.Errorf("%w: theme %q has an empty keyword", ErrInvalid, th.Name)
			}
		}
	}

	if len(t.Prompts.Default) == 0 {
		return fmt.Errorf("%w: no default prompts", ErrInvalid)
	}
	for theme, prompts := range t.Prompts.ByTheme {
		if len(prompts) == 0 {
			return fmt.Errorf("%w: theme %q has an empty prompt list", ErrInvalid, theme)
		}
	}

	return nil
}
