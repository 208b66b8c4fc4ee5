package insights

import (
	"strings"

	"github.com/pbaille/journal/internal/domain"
)

const (
	reflectionEmpty       = "Start writing to see your weekly reflection!"
	reflectionPositive    = "Your entries show a generally positive outlook, with moments of gratitude and growth shining through."
	reflectionChallenging = "It seems like you've been working through some challenges. Remember that difficult periods often lead to the most growth."
	reflectionBalanced    = "You're navigating life with balance, acknowledging both challenges and positive moments."

	reflectionThreshold = 0.2
)

// WeeklyReflection writes a short summary of the recent window
func WeeklyReflection(entries []domain.Entry) string {
	recent := Recent(entries)
	if len(recent) == 0 {
		return reflectionEmpty
	}

	counts := CountThemes(recent)
	if len(counts) == 0 {
		return "Keep writing to build your reflection!"
	}

	var sb strings.Builder
	sb.WriteString("This week, you've been focusing a lot on ")
	sb.WriteString(strings.Replace(counts[0].Theme, "_", " ", 1))
	sb.WriteString(". ")

	switch ClassifyTrend(AverageSentiment(recent), reflectionThreshold) {
	case domain.TrendPositive:
		sb.WriteString(reflectionPositive)
	case domain.TrendChallenging:
		sb.WriteString(reflectionChallenging)
	default:
		sb.WriteString(reflectionBalanced)
	}

	return sb.String()
}

// Label describes a sentiment score in words
func Label(score float64) string {
	switch {
	case score > 0.3:
		return "Very Positive"
	case score > 0.1:
		return "Positive"
	case score > -0.1:
		return "Neutral"
	case score > -0.3:
		return "Challenging"
	default:
		return "Very Challenging"
	}
}
