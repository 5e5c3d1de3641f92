package normalizer

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/dmaldonado/patrimonio-backend/internal/domain"
)

// Fallback labels for rows saved with an empty category or subcategory
const (
	UncategorizedCategory    = "Sin categoria"
	UncategorizedSubcategory = "Sin subcategoria"
)

// categoryTable maps cleaned free-text input to its canonical category label.
// Unrecognized input passes through unchanged so user-defined categories
// coexist with the fixed set.
var categoryTable = map[string]string{
	"vivienda":   "Vivienda",
	"educacion":  "Educacion",
	"tarjeta":    "Tarjetas",
	"tarjetas":   "Tarjetas",
	"servicio":   "Servicios",
	"servicios":  "Servicios",
	"personal":   "Personales",
	"personales": "Personales",
	"vehiculo":   "Vehiculos",
	"vehiculos":  "Vehiculos",
	"limpieza":   "Limpieza",
}

// subcategoryRule matches cleaned subcategory text by substring.
// Rules are ordered: the first match wins.
type subcategoryRule struct {
	contains  string
	canonical string
}

// subcategoryRules are keyed by the already-canonicalized category.
var subcategoryRules = map[string][]subcategoryRule{
	"Educacion": {
		{contains: "pestalozzi", canonical: "Pestalozzi"},
		{contains: "san andr", canonical: "Uni. de San Andres"},
	},
	"Vehiculos": {
		{contains: "patente moto", canonical: "Patente Moto"},
		{contains: "patente auto", canonical: "Patente Auto"},
	},
	"Tarjetas": {
		{contains: "amex", canonical: "Amex"},
		{contains: "visa", canonical: "Visa Galicia"},
		{contains: "master", canonical: "Master Galicia"},
		{contains: "ml", canonical: "Tarjeta ML"},
	},
}

var (
	stripMarks  = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	nonAlnumRe  = regexp.MustCompile(`[^a-zA-Z0-9.\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// cleanText folds free-text input for lookup: strip diacritics, drop every
// character except letters, digits, periods and spaces, lowercase, collapse
// whitespace, trim.
func cleanText(s string) string {
	folded, _, err := transform.String(stripMarks, s)
	if err != nil {
		folded = s
	}
	folded = nonAlnumRe.ReplaceAllString(folded, "")
	folded = strings.ToLower(folded)
	folded = whitespaceRe.ReplaceAllString(folded, " ")
	return strings.TrimSpace(folded)
}

// NormalizeCategory canonicalizes a free-text category label against the fixed
// lookup table. Unknown input passes through trimmed; empty input becomes
// "Sin categoria".
func NormalizeCategory(raw string) string {
	trimmed := strings.TrimSpace(raw)

	if canonical, ok := categoryTable[cleanText(trimmed)]; ok {
		return canonical
	}

	if trimmed == "" {
		return UncategorizedCategory
	}
	return trimmed
}

// NormalizeSubcategory canonicalizes a subcategory label. Matching is
// conditional on the already-normalized category; unmatched input passes
// through trimmed, empty input becomes "Sin subcategoria".
func NormalizeSubcategory(category, raw string) string {
	trimmed := strings.TrimSpace(raw)
	cleaned := cleanText(trimmed)

	for _, rule := range subcategoryRules[category] {
		if strings.Contains(cleaned, rule.contains) {
			return rule.canonical
		}
	}

	if trimmed == "" {
		return UncategorizedSubcategory
	}
	return trimmed
}

// NormalizeRow returns a copy of the row with canonical category and
// subcategory labels. The input row is not modified.
func NormalizeRow(row *domain.ExpenseRow) *domain.ExpenseRow {
	normalized := *row
	normalized.Category = NormalizeCategory(row.Category)
	normalized.Subcategory = NormalizeSubcategory(normalized.Category, row.Subcategory)
	return &normalized
}

// Dedupe filters ledger rows that collide on (year, month, canonical category,
// canonical subcategory), keeping the row with the latest UpdatedAt (ties go to
// the highest id). The underlying duplicate rows stay in storage; only the
// aggregation view is filtered. Output is sorted by (category, subcategory,
// year, month) ascending.
func Dedupe(rows []*domain.ExpenseRow) []*domain.ExpenseRow {
	type ledgerKey struct {
		Year        int
		Month       int
		Category    string
		Subcategory string
	}

	byKey := make(map[ledgerKey]*domain.ExpenseRow, len(rows))
	for _, raw := range rows {
		row := NormalizeRow(raw)
		key := ledgerKey{Year: row.Year, Month: row.Month, Category: row.Category, Subcategory: row.Subcategory}

		prev, ok := byKey[key]
		if !ok || domain.MoreRecent(row.UpdatedAt, row.ID, prev.UpdatedAt, prev.ID) {
			byKey[key] = row
		}
	}

	out := make([]*domain.ExpenseRow, 0, len(byKey))
	for _, row := range byKey {
		out = append(out, row)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Subcategory != out[j].Subcategory {
			return out[i].Subcategory < out[j].Subcategory
		}
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})

	return out
}
