package engine

import (
	"fmt"
	"regexp"
)

// PatternSet holds an ordered list of compiled case-insensitive patterns.
// Each pattern is tested independently against the whole query, so one
// query fragment may satisfy several patterns and each still counts once.
type PatternSet struct {
	raw   []string
	exprs []*regexp.Regexp
}

// NewPatternSet compiles the given patterns case-insensitively.
func NewPatternSet(patterns []string) (*PatternSet, error) {
	set := &PatternSet{
		raw:   make([]string, 0, len(patterns)),
		exprs: make([]*regexp.Regexp, 0, len(patterns)),
	}
	for _, p := range patterns {
		expr, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q failed, err: %w", p, err)
		}
		set.raw = append(set.raw, p)
		set.exprs = append(set.exprs, expr)
	}
	return set, nil
}

// Match returns the number of patterns the query satisfies and the list of
// matched pattern strings, in pattern order. A zero hit count is a normal
// outcome, not an error.
func (s *PatternSet) Match(query string) (int, []string) {
	var matched []string
	for i, expr := range s.exprs {
		if expr.MatchString(query) {
			matched = append(matched, s.raw[i])
		}
	}
	return len(matched), matched
}

// Patterns returns the raw pattern strings.
func (s *PatternSet) Patterns() []string {
	out := make([]string, len(s.raw))
	copy(out, s.raw)
	return out
}
