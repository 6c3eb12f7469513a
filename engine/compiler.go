package engine

import "strings"

// Compile reasons surfaced to callers. A query with no matched field is a
// normal outcome: the caller should search unfiltered, not fail.
const (
	ReasonNoFilterRules   = "no_filter_rules"
	ReasonCompiled        = "compiled"
	ReasonNoFieldsMatched = "no_fields_matched"
)

// CompiledQuery is the outcome of running an engine's field rules over a
// query: the combined filter expression and the residual query text with
// recognized substrings removed.
type CompiledQuery struct {
	Applied       bool                  `json:"applied"`
	FilterExpr    string                `json:"filter_expr,omitempty"`
	QueryText     string                `json:"query_text"`
	Reason        string                `json:"reason"`
	MatchedFields map[string]FieldValue `json:"matched_fields,omitempty"`
}

// Compile runs the engine's field rules against the original query in rule
// order. Detection always sees the original text; stripping is sequential,
// each stripper operating on the previous stripper's output.
func Compile(e *EngineConfig, query string) *CompiledQuery {
	if len(e.Rules) == 0 {
		return &CompiledQuery{
			Applied:   false,
			QueryText: query,
			Reason:    ReasonNoFilterRules,
		}
	}

	compiled := &CompiledQuery{
		QueryText:     query,
		MatchedFields: make(map[string]FieldValue),
	}

	var fragments []string
	residual := query
	for _, rule := range e.Rules {
		value, ok := rule.Detect(query)
		if !ok {
			continue
		}
		compiled.MatchedFields[rule.Name()] = value
		fragments = append(fragments, rule.Build(value))
		if stripper, ok := rule.(Stripper); ok {
			residual = stripper.Strip(residual, value)
		}
	}

	if len(fragments) == 0 {
		compiled.Applied = false
		compiled.Reason = ReasonNoFieldsMatched
		compiled.MatchedFields = nil
		return compiled
	}

	compiled.Applied = true
	compiled.FilterExpr = joinFragments(fragments)
	compiled.Reason = ReasonCompiled
	if strings.TrimSpace(residual) == "" {
		// Stripping consumed the whole query; keep the original text so the
		// backend still gets a usable full-text query.
		compiled.QueryText = query
	} else {
		compiled.QueryText = residual
	}
	return compiled
}

// joinFragments combines fragments with AND. A fragment that is itself a
// conjunction (only the date fragment is) gets parenthesized first so
// operator precedence stays unambiguous.
func joinFragments(fragments []string) string {
	out := make([]string, len(fragments))
	for i, frag := range fragments {
		if strings.Contains(frag, " AND ") {
			frag = "(" + frag + ")"
		}
		out[i] = frag
	}
	return strings.Join(out, " AND ")
}
