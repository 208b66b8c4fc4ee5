package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/insights"
	"github.com/pbaille/journal/internal/lexicon"
	"github.com/pbaille/journal/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clock returns a time that advances one hour per call
func clock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		now := t
		t = t.Add(time.Hour)
		return now
	}
}

var start = time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestJournal(t *testing.T, s Store) *Journal {
	t.Helper()
	if s == nil {
		s = newTestStore(t)
	}
	return New(s, nil,
		WithClock(clock(start)),
		WithRandSource(rand.NewPCG(1, 2)),
		WithLocation(time.UTC),
	)
}

func TestAdd(t *testing.T) {
	j := newTestJournal(t, nil)

	out, err := j.Add(NewEntry{Content: "I had a great meeting with my boss", WritingTime: 90})
	require.NoError(t, err)

	e := out.Entry
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "2024-01-01", e.Date)
	assert.Equal(t, []string{lexicon.ThemeWork}, e.Themes)
	assert.Equal(t, j.Analyze(e.Content).Sentiment.Score, e.Sentiment)
	assert.Equal(t, domain.DefaultPrompt, e.AIPrompt)
	assert.Equal(t, 8, e.WordCount)
	assert.Equal(t, 90, e.WritingTime)

	assert.Contains(t, j.Tables().Prompts.ByTheme[lexicon.ThemeWork], out.Prompt)
	assert.Equal(t, out.Prompt, j.CurrentPrompt())

	assert.Equal(t, 1, out.Insights.TotalEntries)
	assert.Equal(t, []string{lexicon.ThemeWork}, out.Insights.WeeklyThemes)
	assert.Equal(t, "Monday", out.Insights.MostActiveDay)

	stored, err := j.Get(e.ID[:8])
	require.NoError(t, err)
	assert.Equal(t, e.Content, stored.Content)
}

func TestAddUsesCurrentPromptAndCallerValues(t *testing.T) {
	j := newTestJournal(t, nil)
	j.SetPrompt("What deserves your attention today?")

	out, err := j.Add(NewEntry{Content: "quiet day", WordCount: 99, WritingTime: -5})
	require.NoError(t, err)
	assert.Equal(t, "What deserves your attention today?", out.Entry.AIPrompt)
	assert.Equal(t, 99, out.Entry.WordCount)
	assert.Equal(t, 0, out.Entry.WritingTime)
	assert.Equal(t, []string{domain.GeneralTheme}, out.Entry.Themes)
	assert.Contains(t, j.Tables().Prompts.Default, out.Prompt)
}

func TestAddEmpty(t *testing.T) {
	j := newTestJournal(t, nil)

	for _, content := range []string{"", "   \n", "<p> </p>"} {
		_, err := j.Add(NewEntry{Content: content})
		assert.ErrorIs(t, err, ErrEmptyContent, "content %q", content)
	}
}

func TestAddStripsHTML(t *testing.T) {
	j := newTestJournal(t, nil)

	out, err := j.Add(NewEntry{Content: "<p>Went for a <b>walk</b> in the garden</p>"})
	require.NoError(t, err)
	assert.Equal(t, "Went for a walk in the garden", out.Entry.Content)
	assert.Equal(t, []string{lexicon.ThemeNature}, out.Entry.Themes)
}

func TestUpdate(t *testing.T) {
	j := newTestJournal(t, nil)

	added, err := j.Add(NewEntry{Content: "I am happy"})
	require.NoError(t, err)
	promptAfterAdd := j.CurrentPrompt()

	out, err := j.Update(added.Entry.ID, "I am not happy about the deadline")
	require.NoError(t, err)

	assert.Equal(t, added.Entry.ID, out.Entry.ID)
	assert.Less(t, out.Entry.Sentiment, 0.0)
	assert.Equal(t, []string{lexicon.ThemeWork}, out.Entry.Themes)
	assert.Equal(t, 7, out.Entry.WordCount)
	require.NotNil(t, out.Entry.LastModified)
	assert.True(t, out.Entry.LastModified.After(out.Entry.Timestamp))
	assert.Equal(t, promptAfterAdd, out.Prompt)
	assert.Equal(t, domain.TrendChallenging, out.Insights.SentimentTrend)

	_, err = j.Update(added.Entry.ID, " ")
	assert.ErrorIs(t, err, ErrEmptyContent)

	_, err = j.Update("missing", "text")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDelete(t *testing.T) {
	j := newTestJournal(t, nil)

	a, err := j.Add(NewEntry{Content: "grateful for my family"})
	require.NoError(t, err)
	_, err = j.Add(NewEntry{Content: "stressful project"})
	require.NoError(t, err)

	snapshot, err := j.Delete(a.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.TotalEntries)
	assert.Equal(t, []string{lexicon.ThemeWork, lexicon.ThemeStress}, snapshot.WeeklyThemes)

	_, err = j.Delete(a.Entry.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	saved := j.SavedInsights()
	assert.Equal(t, snapshot, saved)
}

func TestInsightsWindow(t *testing.T) {
	j := newTestJournal(t, nil)

	// three old, very negative health entries followed by seven newer ones
	for i := 0; i < 3; i++ {
		_, err := j.Add(NewEntry{Content: "devastated and hopeless about my health"})
		require.NoError(t, err)
	}
	for i := 0; i < 7; i++ {
		_, err := j.Add(NewEntry{Content: "good day at work"})
		require.NoError(t, err)
	}

	snapshot, err := j.Insights()
	require.NoError(t, err)
	assert.Equal(t, 10, snapshot.TotalEntries)
	assert.Equal(t, []string{lexicon.ThemeWork}, snapshot.WeeklyThemes)
	assert.Equal(t, domain.TrendPositive, snapshot.SentimentTrend)

	again, err := j.Insights()
	require.NoError(t, err)
	assert.Equal(t, snapshot, again)
}

func TestNextPromptFollowsNewestEntry(t *testing.T) {
	j := newTestJournal(t, nil)

	_, err := j.Add(NewEntry{Content: "so grateful and thankful today"})
	require.NoError(t, err)

	gratitude := j.Tables().Prompts.ByTheme[lexicon.ThemeGratitude]
	for i := 0; i < 100; i++ {
		p, err := j.NextPrompt()
		require.NoError(t, err)
		assert.Contains(t, gratitude, p)
	}
}

func TestNextPromptEmptyJournal(t *testing.T) {
	j := newTestJournal(t, nil)

	p, err := j.NextPrompt()
	require.NoError(t, err)
	assert.Contains(t, j.Tables().Prompts.Default, p)
}

func TestSetPrompt(t *testing.T) {
	j := newTestJournal(t, nil)
	assert.Equal(t, domain.DefaultPrompt, j.CurrentPrompt())

	assert.Equal(t, "Custom?", j.SetPrompt("  Custom?  "))
	assert.Equal(t, "Custom?", j.CurrentPrompt())

	assert.Equal(t, domain.DefaultPrompt, j.SetPrompt(""))
}

func TestReset(t *testing.T) {
	j := newTestJournal(t, nil)
	_, err := j.Add(NewEntry{Content: "work work work"})
	require.NoError(t, err)

	require.NoError(t, j.Reset())

	entries, err := j.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, domain.DefaultPrompt, j.CurrentPrompt())
	assert.Equal(t, domain.EmptyInsights(), j.SavedInsights())

	snapshot, err := j.Insights()
	require.NoError(t, err)
	assert.Equal(t, domain.EmptyInsights(), snapshot)
}

func TestSavedInsightsMalformed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetState(keyInsights, "{not json"))

	j := newTestJournal(t, s)
	assert.Equal(t, domain.EmptyInsights(), j.SavedInsights())
}

func TestExportImport(t *testing.T) {
	src := newTestJournal(t, nil)
	for _, c := range []string{"I love my garden", "Worried about the presentation", "Learned something new"} {
		_, err := src.Add(NewEntry{Content: c})
		require.NoError(t, err)
	}

	var buf bytes.Buffer
	require.NoError(t, src.WriteExport(&buf))

	var doc domain.Export
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "1.0", doc.Version)
	assert.Len(t, doc.Entries, 3)
	assert.Equal(t, src.CurrentPrompt(), doc.CurrentPrompt)
	assert.Equal(t, 3, doc.Insights.TotalEntries)

	dst := newTestJournal(t, nil)
	res, err := dst.Import(bytes.NewReader(buf.Bytes()), false)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, doc.Insights, res.Insights)
	assert.Equal(t, doc.CurrentPrompt, dst.CurrentPrompt())

	srcEntries, err := src.List()
	require.NoError(t, err)
	dstEntries, err := dst.List()
	require.NoError(t, err)
	require.Len(t, dstEntries, len(srcEntries))
	for i := range srcEntries {
		assert.Equal(t, srcEntries[i].ID, dstEntries[i].ID)
		assert.Equal(t, srcEntries[i].Themes, dstEntries[i].Themes)
		assert.True(t, srcEntries[i].Timestamp.Equal(dstEntries[i].Timestamp))
	}
}

func TestImportFillsMissingFields(t *testing.T) {
	j := newTestJournal(t, nil)

	doc := `{"entries":[{"content":"Thankful for a walk with friends","sentiment":4}],"version":"1.0"}`
	res, err := j.Import(strings.NewReader(doc), true)
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)

	entries, err := j.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "2024-01-01", e.Date)
	assert.Equal(t, 6, e.WordCount)
	assert.Equal(t, []string{lexicon.ThemeRelationships, lexicon.ThemeGratitude, lexicon.ThemeNature}, e.Themes)
	assert.LessOrEqual(t, e.Sentiment, 1.0)
	assert.Greater(t, e.Sentiment, 0.0)
}

func TestImportInvalidLeavesStoreUntouched(t *testing.T) {
	j := newTestJournal(t, nil)
	_, err := j.Add(NewEntry{Content: "keep me"})
	require.NoError(t, err)

	tests := []string{
		"{not json",
		`{"entries":[{"content":"   "}]}`,
	}
	for _, doc := range tests {
		_, err := j.Import(strings.NewReader(doc), true)
		assert.ErrorIs(t, err, ErrInvalidImport)
	}

	entries, err := j.List()
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAnalyze(t *testing.T) {
	j := newTestJournal(t, nil)

	a := j.Analyze("I am very happy with my creative writing")
	assert.Greater(t, a.Sentiment.Score, 0.0)
	assert.Equal(t, []string{lexicon.ThemeCreativity}, a.Themes)
	assert.Equal(t, j.Tables().Prompts.ByTheme[lexicon.ThemeCreativity], a.Prompts)
	assert.NotEmpty(t, a.Label)

	entries, err := j.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadSide(t *testing.T) {
	j := newTestJournal(t, nil)
	a, err := j.Add(NewEntry{Content: "great day at work"})
	require.NoError(t, err)
	_, err = j.Add(NewEntry{Content: "one more great project at work"})
	require.NoError(t, err)
	_, err = j.Add(NewEntry{Content: "walk in the garden"})
	require.NoError(t, err)

	related, err := j.Related(a.Entry.ID, 5)
	require.NoError(t, err)
	require.NotEmpty(t, related)
	assert.Contains(t, related[0].Entry.Content, "project")

	found, err := j.Search(insights.Query{Text: "garden"})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	reflection, err := j.Reflection()
	require.NoError(t, err)
	assert.Contains(t, reflection, "work")

	metrics, err := j.Dashboard(7)
	require.NoError(t, err)
	assert.Equal(t, 3, metrics.EntriesCount)

	series, err := j.Series()
	require.NoError(t, err)
	assert.Len(t, series, 3)
}

// failingState wraps a store whose state table is unavailable
type failingState struct {
	Store
}

func (failingState) GetState(string) (string, bool, error) {
	return "", false, errors.New("state unavailable")
}

func (failingState) SetState(string, string) error {
	return errors.New("state unavailable")
}

func TestStateFailuresAreSwallowed(t *testing.T) {
	j := newTestJournal(t, failingState{Store: newTestStore(t)})

	out, err := j.Add(NewEntry{Content: "a calm evening"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPrompt, out.Entry.AIPrompt)
	assert.Equal(t, domain.DefaultPrompt, j.CurrentPrompt())
	assert.Equal(t, domain.EmptyInsights(), j.SavedInsights())
}

// failingList wraps a store that can write entries but not list them
type failingList struct {
	Store
}

func (failingList) List() ([]domain.Entry, error) {
	return nil, errors.New("list unavailable")
}

func TestCommittedWritesSurviveInsightsFailure(t *testing.T) {
	s := newTestStore(t)
	first, err := newTestJournal(t, s).Add(NewEntry{Content: "grateful for my family"})
	require.NoError(t, err)
	saved := first.Insights

	j := newTestJournal(t, failingList{Store: s})

	out, err := j.Add(NewEntry{Content: "stressful project"})
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, saved, out.Insights)
	assert.NotEmpty(t, out.Prompt)

	stored, err := s.Get(out.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "stressful project", stored.Content)

	updated, err := j.Update(out.Entry.ID, "calm project")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, saved, updated.Insights)

	stored, err = s.Get(out.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, "calm project", stored.Content)

	snapshot, err := j.Delete(out.Entry.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, snapshot)

	_, err = s.Get(out.Entry.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
