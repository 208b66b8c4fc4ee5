package domain

import (
	"strings"
	"time"
)

// GeneralTheme is the tag assigned when no theme keyword matches
const GeneralTheme = "general"

// DefaultPrompt is shown before any entry has been written
const DefaultPrompt = "What's on your mind today?"

// DefaultActiveDay is reported as the most active day of an empty journal
const DefaultActiveDay = "Today"

// ExportVersion is the version stamped on export documents
const ExportVersion = "1.0"

// Trend classifies the average sentiment of recent entries
type Trend string

const (
	TrendPositive    Trend = "positive"
	TrendChallenging Trend = "challenging"
	TrendStable      Trend = "stable"
)

// Entry is one journal submission with its derived annotations
type Entry struct {
	ID           string     `json:"id"`
	Content      string     `json:"content"`
	Date         string     `json:"date"`
	Timestamp    time.Time  `json:"timestamp"`
	Sentiment    float64    `json:"sentiment"`
	Themes       []string   `json:"themes"`
	AIPrompt     string     `json:"aiPrompt,omitempty"`
	WordCount    int        `json:"wordCount"`
	WritingTime  int        `json:"writingTime"`
	LastModified *time.Time `json:"lastModified,omitempty"`
}

// DominantTheme returns the first theme tag, or GeneralTheme when there are none
func (e *Entry) DominantTheme() string {
	if len(e.Themes) == 0 {
		return GeneralTheme
	}
	return e.Themes[0]
}

// HasTheme reports whether the entry carries the given tag
func (e *Entry) HasTheme(theme string) bool {
	for _, t := range e.Themes {
		if t == theme {
			return true
		}
	}
	return false
}

// Insights is the rolling summary recomputed after every entry mutation
type Insights struct {
	WeeklyThemes   []string `json:"weeklyThemes"`
	SentimentTrend Trend    `json:"sentimentTrend"`
	MostActiveDay  string   `json:"mostActiveDay"`
	TotalEntries   int      `json:"totalEntries"`
}

// EmptyInsights is the snapshot of a journal with no entries
func EmptyInsights() Insights {
	return Insights{
		WeeklyThemes:   []string{},
		SentimentTrend: TrendStable,
		MostActiveDay:  DefaultActiveDay,
		TotalEntries:   0,
	}
}

// Export is the backup document written by export and read by import
type Export struct {
	Entries       []Entry   `json:"entries"`
	Insights      Insights  `json:"insights"`
	CurrentPrompt string    `json:"currentPrompt"`
	ExportDate    time.Time `json:"exportDate"`
	Version       string    `json:"version"`
}

// DateOf formats the calendar day of t as YYYY-MM-DD in UTC
func DateOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// CountWords counts whitespace-separated words
func CountWords(content string) int {
	return len(strings.Fields(content))
}
