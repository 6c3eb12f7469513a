package engine

import (
	"fmt"
	"strings"
)

// SelectionResult records which engine won a query and why. It is produced
// fresh per query and never persisted.
type SelectionResult struct {
	Engine          *EngineConfig       `json:"-"`
	EngineKey       string              `json:"engine_key"`
	Reason          string              `json:"reason"`
	Scores          map[string]int      `json:"scores"`
	MatchedPatterns map[string][]string `json:"matched_patterns"`
}

// Selector scores a query against every registered engine and picks the
// best match deterministically.
type Selector struct {
	registry *Registry
}

func NewSelector(registry *Registry) *Selector {
	return &Selector{registry: registry}
}

// Select scores the lower-cased query against each engine's pattern set and
// resolves ties by the default-on-tie flag, then registry order. A query
// matching nothing still resolves to exactly one engine; the system never
// refuses to classify.
func (s *Selector) Select(query string) *SelectionResult {
	engines := s.registry.Engines()
	lowered := strings.ToLower(query)

	result := &SelectionResult{
		Scores:          make(map[string]int, len(engines)),
		MatchedPatterns: make(map[string][]string, len(engines)),
	}

	best := 0
	for _, e := range engines {
		hits, matched := e.patterns.Match(lowered)
		result.Scores[e.Key] = hits
		result.MatchedPatterns[e.Key] = matched
		if hits > best {
			best = hits
		}
	}

	var candidates []*EngineConfig
	for _, e := range engines {
		if result.Scores[e.Key] == best {
			candidates = append(candidates, e)
		}
	}

	if len(candidates) == 1 {
		result.Engine = candidates[0]
		result.EngineKey = candidates[0].Key
		result.Reason = fmt.Sprintf("engine %q scored highest with %d pattern hit(s)", candidates[0].Key, best)
		return result
	}

	// Tie, including the all-zero case. Prefer a default-on-tie engine;
	// several such flags resolve by registry order.
	for _, e := range candidates {
		if e.DefaultOnTie {
			result.Engine = e
			result.EngineKey = e.Key
			result.Reason = fmt.Sprintf("tie at %d hit(s) between %s broken by default-on-tie flag in favor of %q",
				best, candidateKeys(candidates), e.Key)
			return result
		}
	}

	result.Engine = candidates[0]
	result.EngineKey = candidates[0].Key
	result.Reason = fmt.Sprintf("tie at %d hit(s) between %s broken by registry order in favor of %q",
		best, candidateKeys(candidates), candidates[0].Key)
	return result
}

func candidateKeys(engines []*EngineConfig) string {
	keys := make([]string, len(engines))
	for i, e := range engines {
		keys[i] = e.Key
	}
	return strings.Join(keys, ", ")
}
