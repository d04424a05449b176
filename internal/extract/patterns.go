package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/finspect/invoice-pipeline/constants"
	"github.com/finspect/invoice-pipeline/internal/entity"
)

// fieldPatterns is an ordered pattern list for one target field. Patterns are
// tried in order; the first match wins.
type fieldPatterns struct {
	field    string
	numeric  bool
	patterns []*regexp.Regexp
}

// patternTable fixes the per-field priority order. Keep the most specific
// label first (e.g. "total:" before "amount due:" before "grand total:").
var patternTable = []fieldPatterns{
	{
		field: constants.FieldInvoiceNumber,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)invoice\s*#?\s*:?\s*([A-Z0-9-]+)`),
			regexp.MustCompile(`(?im)inv\s*#?\s*:?\s*([A-Z0-9-]+)`),
			regexp.MustCompile(`(?im)invoice\s+number\s*:?\s*([A-Z0-9-]+)`),
		},
	},
	{
		field: constants.FieldInvoiceDate,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)date\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
			regexp.MustCompile(`(?im)invoice\s+date\s*:?\s*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`),
			regexp.MustCompile(`(?im)(\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{2,4})`),
		},
	},
	{
		field: constants.FieldSupplier,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)from\s*:?\s*([A-Za-z\s&.,]+?)(?:\n|$)`),
			regexp.MustCompile(`(?im)vendor\s*:?\s*([A-Za-z\s&.,]+?)(?:\n|$)`),
			regexp.MustCompile(`(?im)supplier\s*:?\s*([A-Za-z\s&.,]+?)(?:\n|$)`),
		},
	},
	{
		field:   constants.FieldTotal,
		numeric: true,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)total\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
			regexp.MustCompile(`(?im)amount\s+due\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
			regexp.MustCompile(`(?im)grand\s+total\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
		},
	},
	{
		field:   constants.FieldVAT,
		numeric: true,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)vat\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
			regexp.MustCompile(`(?im)tax\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
			regexp.MustCompile(`(?im)sales\s+tax\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
		},
	},
	{
		field:   constants.FieldSubtotal,
		numeric: true,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?im)subtotal\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
			regexp.MustCompile(`(?im)sub-total\s*:?\s*\$?\s*([\d,]+\.?\d*)`),
		},
	},
}

// lineItemPattern matches one body row of the shape
// "<words> <integer quantity> <money> <money>". Rows not matching this exact
// shape are silently skipped; that is a precision/recall trade-off, not a bug.
var lineItemPattern = regexp.MustCompile(`(?m)([A-Za-z\s]+)\s+(\d+)\s+\$?([\d,]+\.?\d*)\s+\$?([\d,]+\.?\d*)`)

// PatternExtractor extracts invoice fields with ordered regular expressions.
type PatternExtractor struct {
	// confidenceThreshold is reserved; matched fields receive the fixed
	// constants.DefaultConfidence score today.
	confidenceThreshold float64
	logger              *slog.Logger
}

func NewPatternExtractor(confidenceThreshold float64, logger *slog.Logger) *PatternExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PatternExtractor{confidenceThreshold: confidenceThreshold, logger: logger}
}

// Extract never fails: an internal fault yields the fields collected so far
// with an empty confidence map.
func (p *PatternExtractor) Extract(text string, raw map[string]any) (rec entity.InvoiceRecord) {
	rec = entity.NewInvoiceRecord()
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("extract.pattern.panic", "recovered", r)
			rec.ConfidenceScores = map[string]float64{}
		}
	}()

	for _, fp := range patternTable {
		value, ok := firstMatch(text, fp.patterns)
		if !ok {
			continue
		}
		if fp.numeric {
			// a field that fails numeric parsing is treated as not found
			f, err := parseAmount(value)
			if err != nil {
				p.logger.Debug("extract.pattern.unparsable", "field", fp.field, "value", value)
				continue
			}
			rec.SetAmount(fp.field, f)
		} else {
			rec.SetString(fp.field, value)
		}
		rec.ConfidenceScores[fp.field] = constants.DefaultConfidence
	}

	rec.LineItems = extractLineItems(text)
	return rec
}

func firstMatch(text string, patterns []*regexp.Regexp) (string, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// parseAmount strips thousands separators and parses a decimal amount.
func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

func extractLineItems(text string) []entity.LineItem {
	items := []entity.LineItem{}
	for _, m := range lineItemPattern.FindAllStringSubmatch(text, -1) {
		qty, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		unitPrice, err := parseAmount(m[3])
		if err != nil {
			continue
		}
		total, err := parseAmount(m[4])
		if err != nil {
			continue
		}
		items = append(items, entity.LineItem{
			Description: strings.TrimSpace(m[1]),
			Quantity:    entity.IntPtr(qty),
			UnitPrice:   entity.FloatPtr(unitPrice),
			Total:       entity.FloatPtr(total),
		})
	}
	return items
}
