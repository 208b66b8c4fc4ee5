package journal

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// annotations counts entries run through the annotation pipeline.
	// Labels: operation (add, update, import)
	annotations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "journal",
		Subsystem: "annotate",
		Name:      "entries_total",
		Help:      "Entries annotated, by operation",
	}, []string{"operation"})

	// sentimentScores tracks the distribution of entry sentiment scores
	sentimentScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "journal",
		Subsystem: "annotate",
		Name:      "sentiment_score",
		Help:      "Distribution of entry sentiment scores",
		Buckets:   []float64{-0.75, -0.5, -0.3, -0.1, 0, 0.1, 0.3, 0.5, 0.75, 1},
	})

	// themeTags counts theme tags assigned to entries.
	// Labels: theme
	themeTags = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "journal",
		Subsystem: "annotate",
		Name:      "themes_total",
		Help:      "Theme tags assigned to entries",
	}, []string{"theme"})

	// stateErrors counts swallowed failures saving or loading journal state.
	// Labels: key
	stateErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "journal",
		Subsystem: "state",
		Name:      "errors_total",
		Help:      "Failures reading or writing saved prompt and insights",
	}, []string{"key"})
)

func recordAnnotation(operation string, sentiment float64, themes []string) {
	annotations.WithLabelValues(operation).Inc()
	sentimentScores.Observe(sentiment)
	for _, th := range themes {
		themeTags.WithLabelValues(th).Inc()
	}
}
