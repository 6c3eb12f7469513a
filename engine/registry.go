package engine

import (
	"errors"
	"fmt"
)

// EngineConfig describes a single search backend: its identifier, the
// patterns that route queries to it, a tie-break preference and the ordered
// field rules used to compile structured filters. Configs are built once at
// startup and never mutated afterwards.
type EngineConfig struct {
	// Key is the short unique identifier used in scores and tool output.
	Key string
	// BackendID is the opaque Vertex AI Search app (engine) identifier.
	BackendID string
	// Patterns route queries to this engine; evaluated case-insensitively.
	Patterns []string
	// DefaultOnTie marks this engine as preferred when scores tie.
	DefaultOnTie bool
	// Rules are the field rules applied by the compiler, in order.
	Rules []FieldRule

	patterns *PatternSet
}

// Registry is the immutable table of configured engines. It is safe for
// concurrent use once constructed.
type Registry struct {
	engines []*EngineConfig
	byKey   map[string]*EngineConfig
}

var ErrEmptyRegistry = errors.New("engine registry is empty")

// NewRegistry validates and compiles the given engine configs. An empty
// registry, a duplicate key or a nil field rule is a configuration error
// and fails fast.
func NewRegistry(engines ...*EngineConfig) (*Registry, error) {
	if len(engines) == 0 {
		return nil, ErrEmptyRegistry
	}
	reg := &Registry{
		engines: make([]*EngineConfig, 0, len(engines)),
		byKey:   make(map[string]*EngineConfig, len(engines)),
	}
	for _, e := range engines {
		if e == nil || e.Key == "" {
			return nil, errors.New("engine config requires a non-empty key")
		}
		if e.BackendID == "" {
			return nil, fmt.Errorf("engine %q requires a backend id", e.Key)
		}
		if _, dup := reg.byKey[e.Key]; dup {
			return nil, fmt.Errorf("duplicate engine key %q", e.Key)
		}
		for i, rule := range e.Rules {
			if rule == nil {
				return nil, fmt.Errorf("engine %q rule %d is nil", e.Key, i)
			}
			if rule.Name() == "" {
				return nil, fmt.Errorf("engine %q rule %d has no field name", e.Key, i)
			}
		}
		set, err := NewPatternSet(e.Patterns)
		if err != nil {
			return nil, fmt.Errorf("engine %q: %w", e.Key, err)
		}
		e.patterns = set
		reg.engines = append(reg.engines, e)
		reg.byKey[e.Key] = e
	}
	return reg, nil
}

// MustRegistry is NewRegistry for static construction at process start.
func MustRegistry(engines ...*EngineConfig) *Registry {
	reg, err := NewRegistry(engines...)
	if err != nil {
		panic(err)
	}
	return reg
}

// Get returns the engine with the given key.
func (r *Registry) Get(key string) (*EngineConfig, bool) {
	e, ok := r.byKey[key]
	return e, ok
}

// Engines returns the engines in registration order.
func (r *Registry) Engines() []*EngineConfig {
	return r.engines
}

// Default engine table. Backend IDs identify the production Vertex AI
// Search apps; keys are the stable identifiers used across tool output.
const (
	WorkHistoryEngineKey = "work-history"
	ManualEngineKey      = "manual"

	workHistoryBackendID = "work-history-search_1729580112483"
	manualBackendID      = "product-manual-search_1729580217905"
)

// DefaultRegistry builds the static production registry: a work-history
// engine carrying date/owner/company filter rules and a product-manual
// engine with no structured filters. The work-history engine wins ties.
func DefaultRegistry() *Registry {
	return MustRegistry(
		&EngineConfig{
			Key:       WorkHistoryEngineKey,
			BackendID: workHistoryBackendID,
			Patterns: []string{
				`업무\s*일지`, `업무`, `일지`, `방문`, `미팅`, `회의`,
				`거래처`, `담당자`, `작성자`, `내역`, `보고`, `실적`,
				`주간`, `월간`, `요약`,
				`20\d{2}년`, `20\d{2}-\d{2}-\d{2}`,
			},
			DefaultOnTie: true,
			Rules: []FieldRule{
				DateRule{},
				OwnerRule{},
				CompanyRule{},
			},
		},
		&EngineConfig{
			Key:       ManualEngineKey,
			BackendID: manualBackendID,
			Patterns: []string{
				`매뉴얼`, `가이드`, `설치`, `설정`, `사용법`, `방법`,
				`절차`, `장애`, `오류`, `트러블`,
				`manual`, `guide`, `install`, `setup`, `how\s*to`,
				`vmware`, `vcenter`, `esxi`,
			},
		},
	)
}
