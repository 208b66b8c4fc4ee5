// Package prompt picks the next reflective question to show the writer.
package prompt

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/pbaille/journal/internal/lexicon"
)

// Selector draws prompts from a prompt table using its own random source
type Selector struct {
	prompts lexicon.Prompts

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Selector. A nil source is seeded from the clock.
func New(prompts lexicon.Prompts, src rand.Source) *Selector {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>1)
	}
	return &Selector{prompts: prompts, rng: rand.New(src)}
}

// Candidates returns the list a prompt would be drawn from for the given
// themes: the dominant theme's prompts when it has any, the defaults otherwise.
func (s *Selector) Candidates(themes []string) []string {
	if len(themes) > 0 {
		if list := s.prompts.ByTheme[themes[0]]; len(list) > 0 {
			return list
		}
	}
	return s.prompts.Default
}

// Next picks a prompt uniformly at random from Candidates(themes)
func (s *Selector) Next(themes []string) string {
	list := s.Candidates(themes)
	if len(list) == 0 {
		return ""
	}

	s.mu.Lock()
	i := s.rng.IntN(len(list))
	s.mu.Unlock()

	return list[i]
}
