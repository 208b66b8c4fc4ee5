package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pbaille/journal/internal/domain"
	"github.com/pbaille/journal/internal/insights"
	"github.com/pbaille/journal/internal/journal"
	"github.com/pbaille/journal/internal/store"
)

const defaultRelated = 5

// Server handles HTTP requests for the journal API
type Server struct {
	journal  *journal.Journal
	addr     string
	logger   *zap.Logger
	validate *validator.Validate
}

// New creates a new API server
func New(j *journal.Journal, addr string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		journal:  j,
		addr:     addr,
		logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Handler builds the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Entries
	mux.HandleFunc("GET /entries", s.listEntries)
	mux.HandleFunc("POST /entries", s.addEntry)
	mux.HandleFunc("GET /entries/{id}", s.getEntry)
	mux.HandleFunc("PUT /entries/{id}", s.updateEntry)
	mux.HandleFunc("DELETE /entries/{id}", s.deleteEntry)
	mux.HandleFunc("GET /entries/{id}/related", s.relatedEntries)

	// Insights
	mux.HandleFunc("GET /insights", s.getInsights)
	mux.HandleFunc("GET /reflection", s.getReflection)
	mux.HandleFunc("GET /dashboard", s.getDashboard)
	mux.HandleFunc("GET /series", s.getSeries)

	// Prompts and analysis
	mux.HandleFunc("GET /prompt", s.getPrompt)
	mux.HandleFunc("POST /prompt/next", s.nextPrompt)
	mux.HandleFunc("POST /analyze", s.analyze)

	// Backup
	mux.HandleFunc("GET /export", s.exportData)
	mux.HandleFunc("POST /import", s.importData)

	// Health check and metrics
	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", promhttp.Handler())

	return withCORS(withMetrics(mux))
}

// Run starts the HTTP server
func (s *Server) Run() error {
	s.logger.Info("starting server", zap.String("addr", s.addr))
	return http.ListenAndServe(s.addr, s.Handler())
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddEntryRequest is the request body for adding an entry
type AddEntryRequest struct {
	Content     string `json:"content" validate:"required"`
	AIPrompt    string `json:"aiPrompt,omitempty"`
	WordCount   int    `json:"wordCount,omitempty" validate:"gte=0"`
	WritingTime int    `json:"writingTime,omitempty" validate:"gte=0"`
}

// UpdateEntryRequest is the request body for editing an entry
type UpdateEntryRequest struct {
	Content string `json:"content" validate:"required"`
}

// AnalyzeRequest is the request body for analyzing text without saving it
type AnalyzeRequest struct {
	Content string `json:"content"`
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.journal.Add(journal.NewEntry{
		Content:     req.Content,
		AIPrompt:    req.AIPrompt,
		WordCount:   req.WordCount,
		WritingTime: req.WritingTime,
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	var req UpdateEntryRequest
	if !s.decode(w, r, &req) {
		return
	}

	out, err := s.journal.Update(r.PathValue("id"), req.Content)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.journal.Delete(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"deleted":  r.PathValue("id"),
		"insights": snapshot,
	})
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.journal.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) relatedEntries(w http.ResponseWriter, r *http.Request) {
	n := intParam(r, "limit", defaultRelated)

	related, err := s.journal.Related(r.PathValue("id"), n)
	if err != nil {
		s.fail(w, err)
		return
	}
	if related == nil {
		related = []insights.Similar{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"related": related,
	})
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r, "limit", 20)
	offset := intParam(r, "offset", 0)

	q := r.URL.Query()
	entries, err := s.journal.Search(insights.Query{
		Text:  q.Get("q"),
		Theme: q.Get("theme"),
		Range: q.Get("range"),
		Sort:  q.Get("sort"),
	})
	if err != nil {
		s.fail(w, err)
		return
	}

	total := len(entries)
	entries = page(entries, limit, offset)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

func page(entries []domain.Entry, limit, offset int) []domain.Entry {
	if offset >= len(entries) {
		return []domain.Entry{}
	}
	if limit >= len(entries)-offset {
		return entries[offset:]
	}
	return entries[offset : offset+limit]
}

func (s *Server) getInsights(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.journal.Insights()
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) getReflection(w http.ResponseWriter, r *http.Request) {
	text, err := s.journal.Reflection()
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"reflection": text})
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	metrics, err := s.journal.Dashboard(intParam(r, "days", insights.DefaultDashboardDays))
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) getSeries(w http.ResponseWriter, r *http.Request) {
	points, err := s.journal.Series()
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"points": points})
}

func (s *Server) getPrompt(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"prompt": s.journal.CurrentPrompt()})
}

func (s *Server) nextPrompt(w http.ResponseWriter, r *http.Request) {
	p, err := s.journal.NextPrompt()
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"prompt": p})
}

func (s *Server) analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !s.decode(w, r, &req) {
		return
	}

	writeJSON(w, http.StatusOK, s.journal.Analyze(req.Content))
}

func (s *Server) exportData(w http.ResponseWriter, r *http.Request) {
	doc, err := s.journal.Export()
	if err != nil {
		s.fail(w, err)
		return
	}

	filename := "journal-backup-" + domain.DateOf(doc.ExportDate) + ".json"
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) importData(w http.ResponseWriter, r *http.Request) {
	replace, _ := strconv.ParseBool(r.URL.Query().Get("replace"))

	res, err := s.journal.Import(r.Body, replace)
	if err != nil {
		s.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// fail maps journal and store errors to HTTP statuses
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrAmbiguousID):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, journal.ErrEmptyContent), errors.Is(err, journal.ErrInvalidImport):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func intParam(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
