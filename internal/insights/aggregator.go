// Package insights derives summaries from the entry collection.
//
// Every function here is a pure function of the entries it is given. Callers
// recompute after each mutation instead of maintaining running totals.
package insights

import (
	"sort"
	"time"

	"github.com/pbaille/journal/internal/domain"
)

const (
	// RecentWindow is the number of newest entries that feed themes and trend
	RecentWindow = 7

	// TopThemes is the number of themes reported in a snapshot
	TopThemes = 3

	trendThreshold = 0.01
)

// Recompute builds the insights snapshot for entries ordered newest first.
// Weekdays are taken in the local time zone.
func Recompute(entries []domain.Entry) domain.Insights {
	return RecomputeIn(entries, time.Local)
}

// RecomputeIn is Recompute with weekdays taken in loc
func RecomputeIn(entries []domain.Entry, loc *time.Location) domain.Insights {
	recent := Recent(entries)

	return domain.Insights{
		WeeklyThemes:   topThemeNames(recent, TopThemes),
		SentimentTrend: ClassifyTrend(AverageSentiment(recent), trendThreshold),
		MostActiveDay:  mostActiveDay(entries, loc),
		TotalEntries:   len(entries),
	}
}

// Recent returns the newest RecentWindow entries
func Recent(entries []domain.Entry) []domain.Entry {
	if len(entries) > RecentWindow {
		return entries[:RecentWindow]
	}
	return entries
}

// AverageSentiment is the mean sentiment, 0 for no entries
func AverageSentiment(entries []domain.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.Sentiment
	}
	return sum / float64(len(entries))
}

// ClassifyTrend maps an average sentiment to a trend using a symmetric threshold
func ClassifyTrend(avg, threshold float64) domain.Trend {
	switch {
	case avg > threshold:
		return domain.TrendPositive
	case avg < -threshold:
		return domain.TrendChallenging
	default:
		return domain.TrendStable
	}
}

// ThemeCount is a theme tag and how many entries carry it
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// CountThemes tallies theme tags across entries, most frequent first.
// Equal counts keep the order in which the tags were first seen.
func CountThemes(entries []domain.Entry) []ThemeCount {
	index := make(map[string]int)
	var counts []ThemeCount

	for _, e := range entries {
		for _, th := range e.Themes {
			i, ok := index[th]
			if !ok {
				i = len(counts)
				index[th] = i
				counts = append(counts, ThemeCount{Theme: th})
			}
			counts[i].Count++
		}
	}

	sort.SliceStable(counts, func(a, b int) bool {
		return counts[a].Count > counts[b].Count
	})
	return counts
}

func topThemeNames(entries []domain.Entry, n int) []string {
	counts := CountThemes(entries)
	if len(counts) > n {
		counts = counts[:n]
	}

	names := make([]string, len(counts))
	for i, c := range counts {
		names[i] = c.Theme
	}
	return names
}

func mostActiveDay(entries []domain.Entry, loc *time.Location) string {
	var order []string
	counts := make(map[string]int)

	for _, e := range entries {
		day := e.Timestamp.In(loc).Weekday().String()
		if _, ok := counts[day]; !ok {
			order = append(order, day)
		}
		counts[day]++
	}

	best := domain.DefaultActiveDay
	bestCount := 0
	for _, day := range order {
		if counts[day] > bestCount {
			best = day
			bestCount = counts[day]
		}
	}
	return best
}
