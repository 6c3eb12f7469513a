package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FieldRule recognizes one structured field in free query text and renders
// it as a backend filter fragment. Rules are pure and stateless; detection
// always runs against the original, unmodified query.
type FieldRule interface {
	// Name is the filter field name (date, owner, company).
	Name() string
	// Detect returns the typed value found in the query, or ok=false.
	// A missing field is a normal outcome, never an error.
	Detect(query string) (FieldValue, bool)
	// Build renders the detected value as a filter-expression fragment.
	Build(v FieldValue) string
}

// Stripper is the optional capability of removing the detected substring
// from the residual query text. Rules without it leave the text untouched.
type Stripper interface {
	Strip(text string, v FieldValue) string
}

// Date value kinds.
const (
	DateKindSingleDay     = "single_day"
	DateKindMonth         = "month"
	DateKindExplicitRange = "explicit_range"
)

// FieldValue is the detected value of a single field. Date detections fill
// Kind/Start/End; owner and company detections fill Value. Raw holds the
// literal matched span when the detector exposes one.
type FieldValue struct {
	Kind  string `json:"kind,omitempty"`
	Value string `json:"value,omitempty"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Raw   string `json:"raw_match,omitempty"`
}

// Date patterns. The leading "20" constrains years to the 2000s; this is a
// deliberate scope limitation of the source data, not a defect.
var (
	dateRangeExpr = regexp.MustCompile(`(20\d{2}-\d{2}-\d{2})\s*(?:~|∼|–|—|-|to|부터)\s*(20\d{2}-\d{2}-\d{2})(\s*까지)?`)
	dateISOExpr   = regexp.MustCompile(`20\d{2}-\d{2}-\d{2}`)
	dateFullExpr  = regexp.MustCompile(`(20\d{2})년\s*(\d{1,2})월\s*(\d{1,2})일`)
	// The optional day group emulates a negative lookahead: a trailing day
	// designator disqualifies the month interpretation.
	dateMonthExpr = regexp.MustCompile(`(20\d{2})년\s*(\d{1,2})월(\s*\d{1,2}\s*일)?`)
)

// DateRule detects a date constraint in strict priority order: explicit
// two-endpoint range, single ISO date, localized full date, localized
// year+month. Earlier forms shadow later ones.
type DateRule struct{}

func (DateRule) Name() string { return "date" }

func (DateRule) Detect(query string) (FieldValue, bool) {
	if m := dateRangeExpr.FindStringSubmatch(query); m != nil {
		return FieldValue{
			Kind:  DateKindExplicitRange,
			Start: m[1],
			End:   m[2],
			Raw:   m[0],
		}, true
	}

	if raw := dateISOExpr.FindString(query); raw != "" {
		return FieldValue{
			Kind:  DateKindSingleDay,
			Start: raw,
			End:   raw,
			Raw:   raw,
		}, true
	}

	if m := dateFullExpr.FindStringSubmatch(query); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		// Day bounds are checked loosely against 1-31 regardless of month.
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			iso := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
			return FieldValue{
				Kind:  DateKindSingleDay,
				Start: iso,
				End:   iso,
				Raw:   m[0],
			}, true
		}
	}

	if m := dateMonthExpr.FindStringSubmatch(query); m != nil && m[3] == "" {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			start := fmt.Sprintf("%04d-%02d-01", year, month)
			end := fmt.Sprintf("%04d-%02d-%02d", year, month, lastDayOfMonth(year, month))
			return FieldValue{
				Kind:  DateKindMonth,
				Start: start,
				End:   end,
				Raw:   m[0],
			}, true
		}
	}

	return FieldValue{}, false
}

func (DateRule) Build(v FieldValue) string {
	return fmt.Sprintf("date >= %q AND date <= %q", v.Start, v.End)
}

func (DateRule) Strip(text string, v FieldValue) string {
	return removeSpan(text, v.Raw)
}

// lastDayOfMonth accounts for month length and leap years; day zero of the
// following month normalizes to the last day of this one.
func lastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

var ownerExpr = regexp.MustCompile(`(?:담당자|작성자)\s*[:：]\s*([A-Za-z0-9가-힣]+)`)

// OwnerRule detects "담당자:" / "작성자:" (half- or full-width colon)
// followed by an alphanumeric or Korean-script token.
type OwnerRule struct{}

func (OwnerRule) Name() string { return "owner" }

func (OwnerRule) Detect(query string) (FieldValue, bool) {
	m := ownerExpr.FindStringSubmatch(query)
	if m == nil {
		return FieldValue{}, false
	}
	return FieldValue{Value: strings.TrimSpace(m[1])}, true
}

func (OwnerRule) Build(v FieldValue) string {
	return fmt.Sprintf("owner: ANY(%q)", v.Value)
}

// Strip reconstructs the label+value pattern from the detected value; the
// detector does not expose a literal span. If the bare value also appears
// elsewhere in the query, that occurrence is left alone.
func (OwnerRule) Strip(text string, v FieldValue) string {
	return stripLabeled(text, `(?:담당자|작성자)`, v.Value)
}

var companyExpr = regexp.MustCompile(`(?:거래처|회사)\s*[:：]\s*([A-Za-z0-9가-힣()\-]+)`)

// CompanyRule detects "거래처:" / "회사:" followed by a token that may also
// contain parentheses and hyphens.
type CompanyRule struct{}

func (CompanyRule) Name() string { return "company" }

func (CompanyRule) Detect(query string) (FieldValue, bool) {
	m := companyExpr.FindStringSubmatch(query)
	if m == nil {
		return FieldValue{}, false
	}
	return FieldValue{Value: strings.TrimSpace(m[1])}, true
}

func (CompanyRule) Build(v FieldValue) string {
	return fmt.Sprintf("company: ANY(%q)", v.Value)
}

func (CompanyRule) Strip(text string, v FieldValue) string {
	return stripLabeled(text, `(?:거래처|회사)`, v.Value)
}

// removeSpan deletes the first occurrence of span from text and normalizes
// the surrounding whitespace. A missing or empty span is a no-op.
func removeSpan(text, span string) string {
	if span == "" {
		return text
	}
	idx := strings.Index(text, span)
	if idx < 0 {
		return text
	}
	return collapseSpaces(text[:idx] + " " + text[idx+len(span):])
}

func stripLabeled(text, labelExpr, value string) string {
	if value == "" {
		return text
	}
	expr, err := regexp.Compile(labelExpr + `\s*[:：]\s*` + regexp.QuoteMeta(value))
	if err != nil {
		return text
	}
	loc := expr.FindStringIndex(text)
	if loc == nil {
		return text
	}
	return collapseSpaces(text[:loc[0]] + " " + text[loc[1]:])
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
