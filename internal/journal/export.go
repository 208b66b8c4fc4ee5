package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pbaille/journal/internal/domain"
)

// ErrInvalidImport is returned when an import document cannot be used
var ErrInvalidImport = errors.New("invalid import document")

// Export builds a backup document of the whole journal
func (j *Journal) Export() (*domain.Export, error) {
	entries, err := j.store.List()
	if err != nil {
		return nil, err
	}

	snapshot, err := j.Insights()
	if err != nil {
		return nil, err
	}

	return &domain.Export{
		Entries:       entries,
		Insights:      snapshot,
		CurrentPrompt: j.CurrentPrompt(),
		ExportDate:    j.now().UTC(),
		Version:       domain.ExportVersion,
	}, nil
}

// WriteExport writes the backup document as indented JSON
func (j *Journal) WriteExport(w io.Writer) error {
	doc, err := j.Export()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// ImportResult reports what an import changed
type ImportResult struct {
	Imported int             `json:"imported"`
	Insights domain.Insights `json:"insights"`
	Prompt   string          `json:"prompt"`
}

// Import reads a backup document and stores its entries. With replace set
// the existing entries are removed first. Insights in the document are
// ignored and recomputed.
func (j *Journal) Import(r io.Reader, replace bool) (*ImportResult, error) {
	var doc domain.Export
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if doc.Version != "" && doc.Version != domain.ExportVersion {
		j.logger.Warn("importing unknown export version", zap.String("version", doc.Version))
	}

	entries := make([]domain.Entry, 0, len(doc.Entries))
	for i := range doc.Entries {
		e, err := j.prepareImported(doc.Entries[i])
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrInvalidImport, i, err)
		}
		entries = append(entries, e)
	}

	if err := j.store.Import(entries, replace); err != nil {
		return nil, err
	}
	j.logger.Info("entries imported", zap.Int("count", len(entries)), zap.Bool("replace", replace))

	if strings.TrimSpace(doc.CurrentPrompt) != "" {
		j.saveState(keyPrompt, doc.CurrentPrompt)
	}

	return &ImportResult{
		Imported: len(entries),
		Insights: j.insightsAfterWrite(),
		Prompt:   j.CurrentPrompt(),
	}, nil
}

// prepareImported fills in whatever an older or hand-edited document left out
func (j *Journal) prepareImported(e domain.Entry) (domain.Entry, error) {
	content, err := cleanContent(e.Content)
	if err != nil {
		return e, err
	}
	e.Content = content

	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = j.now()
	}
	if e.Date == "" {
		e.Date = domain.DateOf(e.Timestamp)
	}
	if len(e.Themes) == 0 {
		e.Sentiment, e.Themes = j.annotate(content)
		recordAnnotation("import", e.Sentiment, e.Themes)
	}
	if math.IsNaN(e.Sentiment) {
		e.Sentiment = 0
	}
	e.Sentiment = math.Max(-1, math.Min(1, e.Sentiment))
	if e.WordCount <= 0 {
		e.WordCount = domain.CountWords(content)
	}
	e.WritingTime = max(0, e.WritingTime)

	return e, nil
}
