package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/pbaille/journal/internal/domain"
)

// Time ranges accepted by Query.Range
const (
	RangeAll     = "all"
	RangeWeek    = "week"
	RangeMonth   = "month"
	RangeQuarter = "quarter"
)

// Sort orders accepted by Query.Sort
const (
	SortDate      = "date"
	SortSentiment = "sentiment"
	SortLength    = "length"
)

// Query selects and orders entries for browsing
type Query struct {
	Text  string
	Theme string
	Range string
	Sort  string
	Now   time.Time
}

// Filter applies q to entries and returns a new slice
func Filter(entries []domain.Entry, q Query) []domain.Entry {
	text := strings.ToLower(strings.TrimSpace(q.Text))
	cutoff, limited := rangeCutoff(q.Range, q.Now)

	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if text != "" && !matchesText(&e, text) {
			continue
		}
		if q.Theme != "" && q.Theme != RangeAll && !e.HasTheme(q.Theme) {
			continue
		}
		if limited && e.Date < cutoff {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(a, b int) bool {
		switch q.Sort {
		case SortSentiment:
			return out[a].Sentiment > out[b].Sentiment
		case SortLength:
			return out[a].WordCount > out[b].WordCount
		default:
			return out[a].Date > out[b].Date
		}
	})

	return out
}

func matchesText(e *domain.Entry, text string) bool {
	if strings.Contains(strings.ToLower(e.Content), text) {
		return true
	}
	for _, th := range e.Themes {
		if strings.Contains(strings.ToLower(th), text) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(e.AIPrompt), text)
}

func rangeCutoff(r string, now time.Time) (string, bool) {
	if now.IsZero() {
		now = time.Now()
	}
	switch r {
	case RangeWeek:
		return domain.DateOf(now.AddDate(0, 0, -7)), true
	case RangeMonth:
		return domain.DateOf(now.AddDate(0, -1, 0)), true
	case RangeQuarter:
		return domain.DateOf(now.AddDate(0, -3, 0)), true
	default:
		return "", false
	}
}
