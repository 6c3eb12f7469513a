// Package engine classifies a free-text user query against a registry of
// search backends and compiles backend-specific structured filters (date,
// owner, company) out of the same text. It is purely functional: every
// invocation reads only the immutable registry and its own query string,
// so a single Classifier may serve concurrent queries without coordination.
package engine

// Decision is the single artifact the dispatch layer consumes to build the
// actual retrieval call. It carries the full classification rationale so
// nothing has to be re-derived downstream. The schema is identical for
// every engine.
type Decision struct {
	EngineID        string              `json:"engine_id"`
	EngineKey       string              `json:"engine_key"`
	EngineReason    string              `json:"engine_reason"`
	Scores          map[string]int      `json:"scores"`
	MatchedPatterns map[string][]string `json:"matched_patterns"`
	Compiled        *CompiledQuery      `json:"compiled"`
}

// Classifier bundles the registry with its selector.
type Classifier struct {
	registry *Registry
	selector *Selector
}

func NewClassifier(registry *Registry) *Classifier {
	return &Classifier{
		registry: registry,
		selector: NewSelector(registry),
	}
}

// Registry exposes the immutable engine table.
func (c *Classifier) Registry() *Registry {
	return c.registry
}

// SelectAndCompile scores the query against every engine, picks one and
// compiles its filter rules in a single pass.
func (c *Classifier) SelectAndCompile(query string) *Decision {
	selection := c.selector.Select(query)
	return &Decision{
		EngineID:        selection.Engine.BackendID,
		EngineKey:       selection.EngineKey,
		EngineReason:    selection.Reason,
		Scores:          selection.Scores,
		MatchedPatterns: selection.MatchedPatterns,
		Compiled:        Compile(selection.Engine, query),
	}
}

// CompileFor compiles against a caller-chosen engine, bypassing selection.
// The compiler still runs the engine's rules over the query.
func (c *Classifier) CompileFor(engineKey, query string) (*Decision, bool) {
	e, ok := c.registry.Get(engineKey)
	if !ok {
		return nil, false
	}
	return &Decision{
		EngineID:     e.BackendID,
		EngineKey:    e.Key,
		EngineReason: "engine specified by caller",
		Compiled:     Compile(e, query),
	}, true
}
