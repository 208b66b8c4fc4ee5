// Package journal ties the annotation engine to the entry store.
//
// Every mutation follows the same path: annotate the text, write the entry
// through to the store, recompute insights from the full entry list and save
// the derived state. Saving derived state is best effort; failures are logged
// and never surface to the caller.
package journal

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/htmltext"
	"github.com/pbaille/journal/internal/insights"
	"github.com/pbaille/journal/internal/lexicon"
	"github.com/pbaille/journal/internal/prompt"
	"github.com/pbaille/journal/internal/sentiment"
	"github.com/pbaille/journal/internal/themes"
)

// ErrEmptyContent is returned when an entry has no text
var ErrEmptyContent = errors.New("entry content is empty")

// State keys
const (
	keyPrompt   = "current_prompt"
	keyInsights = "insights"
)

// Store is the persistence collaborator. It must serialize mutations and
// return List newest first.
type Store interface {
	Append(e *domain.Entry) error
	Update(e *domain.Entry) error
	Remove(id string) error
	Get(id string) (*domain.Entry, error)
	List() ([]domain.Entry, error)
	Resolve(prefix string) (string, error)
	Import(entries []domain.Entry, replace bool) error
	Clear() error
	GetState(key string) (string, bool, error)
	SetState(key, value string) error
}

// Journal annotates and records entries
type Journal struct {
	store   Store
	tables  *lexicon.Tables
	prompts *prompt.Selector
	logger  *zap.Logger
	now     func() time.Time
	loc     *time.Location
}

// Option configures a Journal
type Option func(*Journal)

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(j *Journal) {
		if l != nil {
			j.logger = l
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// WithRandSource fixes the source used for prompt selection
func WithRandSource(src rand.Source) Option {
	return func(j *Journal) { j.prompts = prompt.New(j.tables.Prompts, src) }
}

// WithLocation sets the time zone used for weekdays in insights
func WithLocation(loc *time.Location) Option {
	return func(j *Journal) { j.loc = loc }
}

// New creates a Journal over s. A nil tables uses lexicon.Default().
func New(s Store, tables *lexicon.Tables, opts ...Option) *Journal {
	if tables == nil {
		tables = lexicon.Default()
	}

	j := &Journal{
		store:  s,
		tables: tables,
		logger: zap.NewNop(),
		now:    time.Now,
		loc:    time.Local,
	}
	j.prompts = prompt.New(tables.Prompts, nil)

	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Tables returns the annotation tables in use
func (j *Journal) Tables() *lexicon.Tables {
	return j.tables
}

// NewEntry is the writer-supplied part of an entry
type NewEntry struct {
	Content     string
	AIPrompt    string
	WordCount   int
	WritingTime int
}

// Outcome is an entry together with the journal state after saving it
type Outcome struct {
	Entry    *domain.Entry   `json:"entry"`
	Insights domain.Insights `json:"insights"`
	Prompt   string          `json:"prompt"`
}

// Annotation is the analysis of a piece of text without saving anything
type Annotation struct {
	Sentiment sentiment.Result `json:"sentiment"`
	Label     string           `json:"label"`
	Themes    []string         `json:"themes"`
	Prompts   []string         `json:"prompts"`
}

// Analyze runs the annotation pipeline over text
func (j *Journal) Analyze(text string) Annotation {
	res := sentiment.Analyze(&j.tables.Sentiment, text)
	tags := themes.Extract(j.tables.Themes, text)
	return Annotation{
		Sentiment: res,
		Label:     insights.Label(res.Score),
		Themes:    tags,
		Prompts:   j.prompts.Candidates(tags),
	}
}

func (j *Journal) annotate(content string) (float64, []string) {
	return sentiment.Score(&j.tables.Sentiment, content), themes.Extract(j.tables.Themes, content)
}

func cleanContent(content string) (string, error) {
	content = htmltext.Normalize(content)
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyContent
	}
	return content, nil
}

// Add annotates and saves a new entry, then picks the next prompt from its themes
func (j *Journal) Add(in NewEntry) (*Outcome, error) {
	content, err := cleanContent(in.Content)
	if err != nil {
		return nil, err
	}

	now := j.now()
	score, tags := j.annotate(content)

	e := &domain.Entry{
		ID:          uuid.New().String(),
		Content:     content,
		Date:        domain.DateOf(now),
		Timestamp:   now,
		Sentiment:   score,
		Themes:      tags,
		AIPrompt:    in.AIPrompt,
		WordCount:   in.WordCount,
		WritingTime: max(0, in.WritingTime),
	}
	if e.AIPrompt == "" {
		e.AIPrompt = j.CurrentPrompt()
	}
	if e.WordCount <= 0 {
		e.WordCount = domain.CountWords(content)
	}

	if err := j.store.Append(e); err != nil {
		return nil, err
	}
	recordAnnotation("add", score, tags)

	j.logger.Debug("entry added",
		zap.String("id", e.ID),
		zap.Float64("sentiment", e.Sentiment),
		zap.Strings("themes", e.Themes))

	snapshot := j.insightsAfterWrite()

	next := j.prompts.Next(e.Themes)
	j.saveState(keyPrompt, next)

	return &Outcome{Entry: e, Insights: snapshot, Prompt: next}, nil
}

// Update replaces the content of an entry and re-annotates it
func (j *Journal) Update(id, content string) (*Outcome, error) {
	content, err := cleanContent(content)
	if err != nil {
		return nil, err
	}

	e, err := j.Get(id)
	if err != nil {
		return nil, err
	}

	now := j.now()
	e.Content = content
	e.Sentiment, e.Themes = j.annotate(content)
	e.WordCount = domain.CountWords(content)
	e.LastModified = &now

	if err := j.store.Update(e); err != nil {
		return nil, err
	}
	recordAnnotation("update", e.Sentiment, e.Themes)

	j.logger.Debug("entry updated",
		zap.String("id", e.ID),
		zap.Float64("sentiment", e.Sentiment),
		zap.Strings("themes", e.Themes))

	snapshot := j.insightsAfterWrite()

	return &Outcome{Entry: e, Insights: snapshot, Prompt: j.CurrentPrompt()}, nil
}

// Delete removes an entry and returns the recomputed insights
func (j *Journal) Delete(id string) (domain.Insights, error) {
	full, err := j.store.Resolve(id)
	if err != nil {
		return domain.Insights{}, err
	}
	if err := j.store.Remove(full); err != nil {
		return domain.Insights{}, err
	}

	j.logger.Debug("entry deleted", zap.String("id", full))
	return j.insightsAfterWrite(), nil
}

// Get returns an entry by id or unique id prefix
func (j *Journal) Get(id string) (*domain.Entry, error) {
	full, err := j.store.Resolve(id)
	if err != nil {
		return nil, err
	}
	return j.store.Get(full)
}

// List returns every entry, newest first
func (j *Journal) List() ([]domain.Entry, error) {
	return j.store.List()
}

// Insights recomputes the snapshot from the stored entries
func (j *Journal) Insights() (domain.Insights, error) {
	entries, err := j.store.List()
	if err != nil {
		return domain.Insights{}, err
	}
	return insights.RecomputeIn(entries, j.loc), nil
}

func (j *Journal) refreshInsights() (domain.Insights, error) {
	snapshot, err := j.Insights()
	if err != nil {
		return domain.Insights{}, err
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		j.logger.Warn("encode insights", zap.Error(err))
		return snapshot, nil
	}
	j.saveState(keyInsights, string(data))
	return snapshot, nil
}

// insightsAfterWrite refreshes the snapshot once a mutation is committed. The
// write stands when the refresh fails, so the last saved snapshot is returned.
func (j *Journal) insightsAfterWrite() domain.Insights {
	snapshot, err := j.refreshInsights()
	if err != nil {
		stateErrors.WithLabelValues(keyInsights).Inc()
		j.logger.Warn("refresh insights after write", zap.Error(err))
		return j.SavedInsights()
	}
	return snapshot
}

// SavedInsights returns the snapshot saved by the last mutation. Missing or
// unreadable state yields the empty snapshot.
func (j *Journal) SavedInsights() domain.Insights {
	raw, ok := j.loadState(keyInsights)
	if !ok {
		return domain.EmptyInsights()
	}

	var snapshot domain.Insights
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		stateErrors.WithLabelValues(keyInsights).Inc()
		j.logger.Warn("decode saved insights", zap.Error(err))
		return domain.EmptyInsights()
	}
	if snapshot.WeeklyThemes == nil {
		snapshot.WeeklyThemes = []string{}
	}
	return snapshot
}

// CurrentPrompt returns the prompt to show at write time
func (j *Journal) CurrentPrompt() string {
	if p, ok := j.loadState(keyPrompt); ok && p != "" {
		return p
	}
	return domain.DefaultPrompt
}

// SetPrompt replaces the current prompt
func (j *Journal) SetPrompt(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		text = domain.DefaultPrompt
	}
	j.saveState(keyPrompt, text)
	return text
}

// NextPrompt draws a new prompt from the newest entry's themes
func (j *Journal) NextPrompt() (string, error) {
	entries, err := j.store.List()
	if err != nil {
		return "", err
	}

	var tags []string
	if len(entries) > 0 {
		tags = entries[0].Themes
	}

	next := j.prompts.Next(tags)
	j.saveState(keyPrompt, next)
	return next, nil
}

// Reset deletes every entry and all saved state
func (j *Journal) Reset() error {
	if err := j.store.Clear(); err != nil {
		return err
	}
	j.logger.Info("journal reset")
	return nil
}

// Related returns up to n entries whose themes and sentiment resemble the given entry
func (j *Journal) Related(id string, n int) ([]insights.Similar, error) {
	e, err := j.Get(id)
	if err != nil {
		return nil, err
	}
	entries, err := j.store.List()
	if err != nil {
		return nil, err
	}
	return insights.Related(*e, entries, j.tables.ThemeNames(), n), nil
}

// Search filters and sorts the stored entries
func (j *Journal) Search(q insights.Query) ([]domain.Entry, error) {
	entries, err := j.store.List()
	if err != nil {
		return nil, err
	}
	if q.Now.IsZero() {
		q.Now = j.now()
	}
	return insights.Filter(entries, q), nil
}

// Reflection summarizes the recent entries in a sentence or two
func (j *Journal) Reflection() (string, error) {
	entries, err := j.store.List()
	if err != nil {
		return "", err
	}
	return insights.WeeklyReflection(entries), nil
}

// Dashboard computes metrics over the last days days
func (j *Journal) Dashboard(days int) (insights.Metrics, error) {
	entries, err := j.store.List()
	if err != nil {
		return insights.Metrics{}, err
	}
	return insights.Dashboard(entries, days, j.now()), nil
}

// Series returns the sentiment chart points
func (j *Journal) Series() ([]insights.Point, error) {
	entries, err := j.store.List()
	if err != nil {
		return nil, err
	}
	return insights.Series(entries), nil
}

func (j *Journal) loadState(key string) (string, bool) {
	v, ok, err := j.store.GetState(key)
	if err != nil {
		stateErrors.WithLabelValues(key).Inc()
		j.logger.Warn("load state", zap.String("key", key), zap.Error(err))
		return "", false
	}
	return v, ok
}

func (j *Journal) saveState(key, value string) {
	if err := j.store.SetState(key, value); err != nil {
		stateErrors.WithLabelValues(key).Inc()
		j.logger.Warn("save state", zap.String("key", key), zap.Error(err))
	}
}
