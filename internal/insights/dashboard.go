package insights

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/pbaille/journal/internal/domain"
)

const (
	// DefaultDashboardDays is the range used when none is given
	DefaultDashboardDays = 30

	dashboardThemes    = 5
	dashboardThreshold = 0.2
	excerptLength      = 50
)

// Metrics summarizes the entries written within a day range
type Metrics struct {
	Days             int          `json:"days"`
	AverageSentiment float64      `json:"averageSentiment"`
	TotalWords       int          `json:"totalWords"`
	EntriesCount     int          `json:"entriesCount"`
	TopThemes        []ThemeCount `json:"topThemes"`
	SentimentTrend   domain.Trend `json:"sentimentTrend"`
	ConsistencyScore int          `json:"consistencyScore"`
}

// Dashboard computes metrics over entries dated within the last days days of now
func Dashboard(entries []domain.Entry, days int, now time.Time) Metrics {
	if days <= 0 {
		days = DefaultDashboardDays
	}

	cutoff := domain.DateOf(now.AddDate(0, 0, -days))
	var inRange []domain.Entry
	for _, e := range entries {
		if e.Date >= cutoff {
			inRange = append(inRange, e)
		}
	}

	m := Metrics{
		Days:           days,
		TopThemes:      []ThemeCount{},
		SentimentTrend: domain.TrendStable,
	}
	if len(inRange) == 0 {
		return m
	}

	m.AverageSentiment = AverageSentiment(inRange)
	m.EntriesCount = len(inRange)
	for _, e := range inRange {
		m.TotalWords += e.WordCount
	}

	m.TopThemes = CountThemes(inRange)
	if len(m.TopThemes) > dashboardThemes {
		m.TopThemes = m.TopThemes[:dashboardThemes]
	}

	m.SentimentTrend = ClassifyTrend(m.AverageSentiment, dashboardThreshold)

	ratio := float64(len(inRange)) / float64(days) * 100
	m.ConsistencyScore = int(math.Min(100, math.Round(ratio)))

	return m
}

// Point is one entry on the sentiment chart
type Point struct {
	Date      string  `json:"date"`
	Sentiment float64 `json:"sentiment"`
	Label     string  `json:"label"`
	Themes    string  `json:"themes"`
	Excerpt   string  `json:"excerpt"`
}

// Series returns chart points ordered from oldest to newest day
func Series(entries []domain.Entry) []Point {
	sorted := make([]domain.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(a, b int) bool {
		return sorted[a].Date < sorted[b].Date
	})

	points := make([]Point, len(sorted))
	for i, e := range sorted {
		themes := "General"
		if len(e.Themes) > 0 {
			themes = strings.Join(e.Themes, ", ")
		}
		points[i] = Point{
			Date:      e.Date,
			Sentiment: e.Sentiment,
			Label:     Label(e.Sentiment),
			Themes:    themes,
			Excerpt:   excerpt(e.Content, excerptLength),
		}
	}
	return points
}

func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		r = r[:n]
	}
	return string(r) + "..."
}
