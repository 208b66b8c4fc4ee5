package api

import (
	"bytes"
	"encoding/json"
	"math"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/journal"
	"github.com/pbaille/journal/internal/lexicon"
	"github.com/pbaille/journal/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestServer(t *testing.T) (http.Handler, *journal.Journal) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	now := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	j := journal.New(s, nil,
		journal.WithClock(func() time.Time {
			now = now.Add(time.Minute)
			return now
		}),
		journal.WithRandSource(rand.NewPCG(7, 7)),
		journal.WithLocation(time.UTC),
	)
	return New(j, ":0", nil).Handler(), j
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "GET", "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "OPTIONS", "/entries", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}

func TestAddEntry(t *testing.T) {
	h, _ := newTestServer(t)

	w := do(t, h, "POST", "/entries", `{"content":"So grateful for my family today","writingTime":120}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var out journal.Outcome
	decodeBody(t, w, &out)
	require.NotNil(t, out.Entry)
	assert.Equal(t, "2024-03-04", out.Entry.Date)
	assert.Equal(t, []string{lexicon.ThemeFamily, lexicon.ThemeGratitude}, out.Entry.Themes)
	assert.Greater(t, out.Entry.Sentiment, 0.0)
	assert.Equal(t, 120, out.Entry.WritingTime)
	assert.Equal(t, 1, out.Insights.TotalEntries)
	assert.NotEmpty(t, out.Prompt)
}

func TestAddEntryRejectsBadInput(t *testing.T) {
	h, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"content":`},
		{"missing content", `{"aiPrompt":"hi"}`},
		{"negative word count", `{"content":"hello","wordCount":-1}`},
		{"markup only", `{"content":"<p> </p>"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, "POST", "/entries", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			decodeBody(t, w, &body)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestEntryLifecycle(t *testing.T) {
	h, j := newTestServer(t)

	added, err := j.Add(journal.NewEntry{Content: "I am happy"})
	require.NoError(t, err)
	id := added.Entry.ID

	w := do(t, h, "GET", "/entries/"+id[:8], "")
	require.Equal(t, http.StatusOK, w.Code)
	var got domain.Entry
	decodeBody(t, w, &got)
	assert.Equal(t, id, got.ID)

	w = do(t, h, "PUT", "/entries/"+id, `{"content":"I am not happy with my boss"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated journal.Outcome
	decodeBody(t, w, &updated)
	assert.Less(t, updated.Entry.Sentiment, 0.0)
	assert.Equal(t, []string{lexicon.ThemeWork}, updated.Entry.Themes)
	assert.NotNil(t, updated.Entry.LastModified)

	w = do(t, h, "DELETE", "/entries/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	var deleted struct {
		Deleted  string          `json:"deleted"`
		Insights domain.Insights `json:"insights"`
	}
	decodeBody(t, w, &deleted)
	assert.Equal(t, 0, deleted.Insights.TotalEntries)
	assert.Equal(t, domain.DefaultActiveDay, deleted.Insights.MostActiveDay)

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/entries/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "DELETE", "/entries/"+id, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, "PUT", "/entries/"+id, `{"content":"x"}`).Code)
}

func TestListEntries(t *testing.T) {
	h, j := newTestServer(t)

	for _, c := range []string{"meeting with my boss", "walk under a grey sky", "deadline for the project"} {
		_, err := j.Add(journal.NewEntry{Content: c})
		require.NoError(t, err)
	}

	var page struct {
		Entries []domain.Entry `json:"entries"`
		Total   int            `json:"total"`
	}

	w := do(t, h, "GET", "/entries?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &page)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "deadline for the project", page.Entries[0].Content)

	w = do(t, h, "GET", "/entries?theme=work&q=boss", "")
	decodeBody(t, w, &page)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "meeting with my boss", page.Entries[0].Content)

	w = do(t, h, "GET", "/entries?theme=nature", "")
	decodeBody(t, w, &page)
	assert.Equal(t, 1, page.Total)

	w = do(t, h, "GET", "/entries?offset=10", "")
	decodeBody(t, w, &page)
	assert.Equal(t, 3, page.Total)
	assert.Empty(t, page.Entries)

	w = do(t, h, "GET", "/entries?limit=9223372036854775807&offset=1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &page)
	assert.Equal(t, 3, page.Total)
	require.Len(t, page.Entries, 2)
	assert.Equal(t, "walk under a grey sky", page.Entries[0].Content)
}

func TestPage(t *testing.T) {
	entries := []domain.Entry{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	tests := []struct {
		name          string
		limit, offset int
		want          []string
	}{
		{"first page", 2, 0, []string{"a", "b"}},
		{"partial last page", 2, 2, []string{"c"}},
		{"offset past end", 5, 3, []string{}},
		{"zero limit", 0, 1, []string{}},
		{"max limit", math.MaxInt, 1, []string{"b", "c"}},
		{"max limit and offset", math.MaxInt, math.MaxInt, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, e := range page(entries, tt.limit, tt.offset) {
				got = append(got, e.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRelatedEntries(t *testing.T) {
	h, j := newTestServer(t)

	a, err := j.Add(journal.NewEntry{Content: "great day at work"})
	require.NoError(t, err)
	_, err = j.Add(journal.NewEntry{Content: "good progress on the project"})
	require.NoError(t, err)

	w := do(t, h, "GET", "/entries/"+a.Entry.ID+"/related?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Related []struct {
			Entry      domain.Entry `json:"entry"`
			Similarity float64      `json:"similarity"`
		} `json:"related"`
	}
	decodeBody(t, w, &body)
	require.Len(t, body.Related, 1)
	assert.Greater(t, body.Related[0].Similarity, 0.0)

	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/entries/nope/related", "").Code)
}

func TestInsightEndpoints(t *testing.T) {
	h, j := newTestServer(t)

	w := do(t, h, "GET", "/insights", "")
	require.Equal(t, http.StatusOK, w.Code)
	var empty domain.Insights
	decodeBody(t, w, &empty)
	assert.Equal(t, domain.EmptyInsights(), empty)

	_, err := j.Add(journal.NewEntry{Content: "wonderful walk in nature"})
	require.NoError(t, err)

	w = do(t, h, "GET", "/insights", "")
	var snapshot domain.Insights
	decodeBody(t, w, &snapshot)
	assert.Equal(t, 1, snapshot.TotalEntries)
	assert.Equal(t, domain.TrendPositive, snapshot.SentimentTrend)
	assert.Equal(t, "Monday", snapshot.MostActiveDay)

	w = do(t, h, "GET", "/reflection", "")
	require.Equal(t, http.StatusOK, w.Code)
	var reflection map[string]string
	decodeBody(t, w, &reflection)
	assert.Contains(t, reflection["reflection"], "nature")

	w = do(t, h, "GET", "/dashboard?days=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	var metrics struct {
		Days         int `json:"days"`
		EntriesCount int `json:"entriesCount"`
	}
	decodeBody(t, w, &metrics)
	assert.Equal(t, 7, metrics.Days)
	assert.Equal(t, 1, metrics.EntriesCount)

	w = do(t, h, "GET", "/series", "")
	require.Equal(t, http.StatusOK, w.Code)
	var series struct {
		Points []json.RawMessage `json:"points"`
	}
	decodeBody(t, w, &series)
	assert.Len(t, series.Points, 1)
}

func TestPromptEndpoints(t *testing.T) {
	h, j := newTestServer(t)

	w := do(t, h, "GET", "/prompt", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"prompt":"`+domain.DefaultPrompt+`"}`, w.Body.String())

	_, err := j.Add(journal.NewEntry{Content: "feeling thankful and blessed"})
	require.NoError(t, err)

	w = do(t, h, "POST", "/prompt/next", "")
	require.Equal(t, http.StatusOK, w.Code)
	var next map[string]string
	decodeBody(t, w, &next)
	assert.Contains(t, j.Tables().Prompts.ByTheme[lexicon.ThemeGratitude], next["prompt"])
	assert.Equal(t, next["prompt"], j.CurrentPrompt())
}

func TestAnalyze(t *testing.T) {
	h, j := newTestServer(t)

	w := do(t, h, "POST", "/analyze", `{"content":"I am not happy about this deadline"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var a journal.Annotation
	decodeBody(t, w, &a)
	assert.Less(t, a.Sentiment.Score, 0.0)
	assert.Equal(t, []string{lexicon.ThemeWork}, a.Themes)

	entries, err := j.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExportImport(t *testing.T) {
	h, j := newTestServer(t)

	_, err := j.Add(journal.NewEntry{Content: "learned a lot today"})
	require.NoError(t, err)

	w := do(t, h, "GET", "/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "journal-backup-")

	var doc domain.Export
	decodeBody(t, w, &doc)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, domain.ExportVersion, doc.Version)

	other, _ := newTestServer(t)
	r := httptest.NewRequest("POST", "/import?replace=true", bytes.NewReader(w.Body.Bytes()))
	iw := httptest.NewRecorder()
	other.ServeHTTP(iw, r)
	require.Equal(t, http.StatusOK, iw.Code, iw.Body.String())

	var res journal.ImportResult
	decodeBody(t, iw, &res)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, doc.Insights, res.Insights)

	assert.Equal(t, http.StatusBadRequest, do(t, h, "POST", "/import", "{broken").Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := newTestServer(t)

	do(t, h, "GET", "/health", "")

	w := do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "journal_http_request_duration_seconds")
	assert.Contains(t, w.Body.String(), `route="GET /health"`)
}
