package insights

import (
	"math"
	"sort"

	"github.com/pbaille/journal/internal/domain"
)

// Similar is an entry with its similarity to a target entry
type Similar struct {
	Entry      domain.Entry `json:"entry"`
	Similarity float64      `json:"similarity"`
}

// Related ranks the other entries by how closely their themes and sentiment
// match target. themeNames fixes the vector layout; the general tag is
// appended to it. Entries with no similarity are left out.
func Related(target domain.Entry, entries []domain.Entry, themeNames []string, n int) []Similar {
	dims := make(map[string]int, len(themeNames)+1)
	for i, name := range themeNames {
		dims[name] = i
	}
	dims[domain.GeneralTheme] = len(themeNames)

	want := featureVector(&target, dims)

	var out []Similar
	for _, e := range entries {
		if e.ID == target.ID {
			continue
		}
		sim := CosineSimilarity(want, featureVector(&e, dims))
		if sim <= 0 {
			continue
		}
		out = append(out, Similar{Entry: e, Similarity: sim})
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Similarity > out[b].Similarity
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// featureVector lays out one dimension per theme followed by sentiment
func featureVector(e *domain.Entry, dims map[string]int) []float64 {
	v := make([]float64, len(dims)+1)
	for _, th := range e.Themes {
		if i, ok := dims[th]; ok {
			v[i] = 1
		}
	}
	v[len(dims)] = e.Sentiment
	return v
}

// CosineSimilarity computes similarity between two vectors
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
