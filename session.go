package agent

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kennychae/vertex-ai-search-agent/config"
)

// Round is one completed question/answer exchange: what the user asked,
// how it was routed, and what came back.
type Round struct {
	Query      string    `json:"query"`
	EngineKey  string    `json:"engine_key,omitempty"`
	FilterExpr string    `json:"filter_expr,omitempty"`
	Answer     string    `json:"answer,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Session holds the recent conversation rounds for one user session.
type Session struct {
	ID        string    `json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Rounds    []Round   `json:"rounds"`
}

// SessionStore persists conversation history so follow-up questions can be
// answered with prior context.
type SessionStore interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	AppendRound(ctx context.Context, id string, round Round) error
	Delete(ctx context.Context, id string) error
	// List returns up to limit sessions, most recently updated first.
	List(ctx context.Context, limit int) ([]*Session, error)
}

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = fmt.Errorf("session not found")

// NewSessionStore builds the configured store.
func NewSessionStore(cfg *config.SessionConfig) (SessionStore, error) {
	switch cfg.Store {
	case "", "memory":
		return NewMemSessionStore(cfg), nil
	case "redis":
		return NewRedisSessionStore(cfg)
	default:
		return nil, fmt.Errorf("unknown session store %q", cfg.Store)
	}
}

// MemSessionStore keeps sessions in process memory. Expired sessions are
// dropped lazily on access.
type MemSessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]*Session
	ttl       time.Duration
	maxRounds int
}

func NewMemSessionStore(cfg *config.SessionConfig) *MemSessionStore {
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = 10
	}
	return &MemSessionStore{
		sessions:  make(map[string]*Session),
		ttl:       ttl,
		maxRounds: maxRounds,
	}
}

func (m *MemSessionStore) Create(ctx context.Context) (*Session, error) {
	now := time.Now()
	s := &Session{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now, Rounds: []Round{}}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return copySession(s), nil
}

func (m *MemSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if time.Since(s.UpdatedAt) > m.ttl {
		delete(m.sessions, id)
		return nil, ErrSessionNotFound
	}
	return copySession(s), nil
}

func (m *MemSessionStore) AppendRound(ctx context.Context, id string, round Round) error {
	if round.Timestamp.IsZero() {
		round.Timestamp = time.Now()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok || time.Since(s.UpdatedAt) > m.ttl {
		delete(m.sessions, id)
		return ErrSessionNotFound
	}
	s.Rounds = append(s.Rounds, round)
	if len(s.Rounds) > m.maxRounds {
		s.Rounds = s.Rounds[len(s.Rounds)-m.maxRounds:]
	}
	s.UpdatedAt = time.Now()
	return nil
}

func (m *MemSessionStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemSessionStore) List(ctx context.Context, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 100
	}

	m.mu.RLock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if time.Since(s.UpdatedAt) > m.ttl {
			continue
		}
		out = append(out, copySession(s))
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copySession(s *Session) *Session {
	dup := *s
	dup.Rounds = make([]Round, len(s.Rounds))
	copy(dup.Rounds, s.Rounds)
	return &dup
}
