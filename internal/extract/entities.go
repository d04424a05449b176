package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/finspect/invoice-pipeline/internal/entity"
)

// Entities are the named-entity lists the secondary extraction mode works
// from: organizations, dates and money amounts spotted in the text.
type Entities struct {
	Organizations []string
	Dates         []string
	Money         []string
}

// Recognizer produces entity lists from raw text. The default heuristic
// recognizer is regex-based; callers can supply a real NER backend.
type Recognizer interface {
	Recognize(text string) Entities
}

// EntityExtractor runs the pattern engine first and fills gaps from entity
// lists. Entity results never overwrite fields the pattern engine populated;
// today only the supplier falls back to the first organization entity.
type EntityExtractor struct {
	pattern    *PatternExtractor
	recognizer Recognizer
	logger     *slog.Logger
}

func NewEntityExtractor(confidenceThreshold float64, rec Recognizer, logger *slog.Logger) *EntityExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = heuristicRecognizer{}
	}
	return &EntityExtractor{
		pattern:    NewPatternExtractor(confidenceThreshold, logger),
		recognizer: rec,
		logger:     logger,
	}
}

func (e *EntityExtractor) Extract(text string, raw map[string]any) (rec entity.InvoiceRecord) {
	rec = e.pattern.Extract(text, raw)
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extract.entity.panic", "recovered", r)
		}
	}()

	ents := e.recognizer.Recognize(text)
	if rec.Supplier == nil && len(ents.Organizations) > 0 {
		// fallback only; no confidence entry since no pattern verified it
		rec.Supplier = entity.StrPtr(ents.Organizations[0])
	}
	return rec
}

// heuristicRecognizer is a cheap stand-in for a trained NER model: company
// suffixes for organizations plus date- and money-shaped tokens.
type heuristicRecognizer struct{}

var (
	reOrg      = regexp.MustCompile(`(?m)^[\s]*([A-Z][A-Za-z&.\s]+(?:Inc|Corp|Corporation|Ltd|LLC|GmbH|Co)\.?)\s*$`)
	reNERDate  = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b\d{4}-\d{2}-\d{2}\b`)
	reNERMoney = regexp.MustCompile(`[$£€]\s*[\d,]+\.?\d*`)
)

func (heuristicRecognizer) Recognize(text string) Entities {
	var ents Entities
	for _, m := range reOrg.FindAllStringSubmatch(text, -1) {
		ents.Organizations = append(ents.Organizations, strings.TrimSpace(m[1]))
	}
	ents.Dates = reNERDate.FindAllString(text, -1)
	ents.Money = reNERMoney.FindAllString(text, -1)
	return ents
}
