// Package agent wires query classification, Vertex AI Search dispatch, GCS
// operations, RAG corpus management and conversational memory into one MCP
// tool surface.
package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/option"

	"github.com/kennychae/vertex-ai-search-agent/cache"
	"github.com/kennychae/vertex-ai-search-agent/config"
	"github.com/kennychae/vertex-ai-search-agent/corpus"
	"github.com/kennychae/vertex-ai-search-agent/discovery"
	"github.com/kennychae/vertex-ai-search-agent/engine"
	"github.com/kennychae/vertex-ai-search-agent/metrics"
	"github.com/kennychae/vertex-ai-search-agent/storage"
)

// Client bundles every collaborator the tool handlers need.
type Client struct {
	cfg        *config.Config
	classifier *engine.Classifier
	search     *discovery.Client
	store      *storage.Client
	corpora    *corpus.Client
	sessions   SessionStore
	l1Cache    cache.Cache
}

// NewClient builds the full agent from configuration. The engine registry
// is the static production table; everything else follows the config.
func NewClient(ctx context.Context, cfg *config.Config, opts ...option.ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	searchClient, err := discovery.New(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("create search client failed, err: %w", err)
	}
	storageClient, err := storage.New(ctx, cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client failed, err: %w", err)
	}
	corpusClient, err := corpus.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create corpus client failed, err: %w", err)
	}
	sessions, err := NewSessionStore(&cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("create session store failed, err: %w", err)
	}

	return &Client{
		cfg:        cfg,
		classifier: engine.NewClassifier(engine.DefaultRegistry()),
		search:     searchClient,
		store:      storageClient,
		corpora:    corpusClient,
		sessions:   sessions,
		l1Cache:    cache.NewFromConfig(&cfg.Cache),
	}, nil
}

// Classifier exposes the query classifier, mainly for tests.
func (c *Client) Classifier() *engine.Classifier {
	return c.classifier
}

// SelectAndCompile classifies a query and compiles its filter. When
// engineKey is non-empty the caller's engine is used and only compilation
// runs.
func (c *Client) SelectAndCompile(query, engineKey string) (*engine.Decision, error) {
	if engineKey != "" {
		decision, ok := c.classifier.CompileFor(engineKey, query)
		if !ok {
			return nil, fmt.Errorf("unknown engine %q", engineKey)
		}
		recordDecision(query, decision)
		return decision, nil
	}
	decision := c.classifier.SelectAndCompile(query)
	recordDecision(query, decision)
	return decision, nil
}

// recordDecision logs the routing decision and bumps the counters.
func recordDecision(query string, d *engine.Decision) {
	record := metrics.NewDecisionRecord(uuid.NewString(), query)
	record.EngineKey = d.EngineKey
	record.EngineID = d.EngineID
	record.EngineReason = d.EngineReason
	record.Scores = d.Scores
	record.MatchedPatterns = d.MatchedPatterns
	record.Success = true

	metrics.IncEngineSelection(d.EngineKey)
	if strings.Contains(d.EngineReason, "default-on-tie") {
		metrics.IncTieBreak(metrics.TieBreakDefaultFlag)
	} else if strings.Contains(d.EngineReason, "registry order") {
		metrics.IncTieBreak(metrics.TieBreakRegistryOrder)
	}
	if d.Compiled != nil {
		record.FilterApplied = d.Compiled.Applied
		record.FilterExpr = d.Compiled.FilterExpr
		record.FilterReason = d.Compiled.Reason
		record.ResidualQuery = d.Compiled.QueryText
		record.FilterFields = make([]string, 0, len(d.Compiled.MatchedFields))
		for field := range d.Compiled.MatchedFields {
			record.FilterFields = append(record.FilterFields, field)
		}
		sort.Strings(record.FilterFields)

		metrics.IncCompileOutcome(d.Compiled.Reason)
		for _, field := range record.FilterFields {
			metrics.IncFilterField(field)
		}
	}
	record.Log()
}

// SearchParams is one high-level search invocation against a known engine.
type SearchParams struct {
	EngineID  string
	Query     string
	Filter    string
	PageSize  int64
	PageToken string
	SessionID string
}

// Search runs one backend search, serving repeats from the L1 cache and
// recording the outcome. When SessionID names a live session, the round is
// appended to its history.
func (c *Client) Search(ctx context.Context, p SearchParams) (*discovery.SearchOutput, error) {
	record := metrics.NewDecisionRecord(uuid.NewString(), p.Query)
	record.EngineID = p.EngineID
	record.FilterApplied = p.Filter != ""
	record.FilterExpr = p.Filter
	defer record.Log()

	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = int64(c.cfg.Search.PageSize)
	}

	key := cache.SearchKey(p.EngineID, p.Query, p.Filter, int32(pageSize))
	if p.PageToken == "" {
		if cached, ok := c.l1Cache.Get(key); ok {
			if out, ok := cached.(*discovery.SearchOutput); ok {
				metrics.IncCacheHit()
				record.CacheHit = true
				record.ResultCount = out.Count
				record.Success = true
				return out, nil
			}
		}
		metrics.IncCacheMiss()
	}

	start := time.Now()
	out, err := c.search.Search(ctx, discovery.SearchParams{
		EngineID:  p.EngineID,
		Query:     p.Query,
		Filter:    p.Filter,
		PageSize:  pageSize,
		PageToken: p.PageToken,
	})
	if err != nil {
		record.RecordSearch(start, 0, err)
		return nil, err
	}
	if budget := c.cfg.Search.EvidenceTokenBudget; budget > 0 {
		out.Results = discovery.TrimToBudget(out.Results, budget)
		out.Count = len(out.Results)
	}
	record.RecordSearch(start, out.Count, nil)
	metrics.ObserveSearch(p.EngineID, start, out.Count)

	if p.PageToken == "" {
		c.l1Cache.Set(key, out, 0)
	}
	if p.SessionID != "" {
		round := Round{
			Query:      p.Query,
			FilterExpr: p.Filter,
			Answer:     out.SummaryText,
			Timestamp:  time.Now(),
		}
		if err := c.sessions.AppendRound(ctx, p.SessionID, round); err != nil {
			// history is best-effort; the search itself succeeded
			record.ErrorMsg = fmt.Sprintf("append session round: %v", err)
		}
	}
	return out, nil
}

// ListEngines lists the available search apps.
func (c *Client) ListEngines(ctx context.Context, pageSize int64, pageToken string) (*discovery.EngineList, error) {
	return c.search.ListEngines(ctx, pageSize, pageToken)
}

// Storage returns the GCS client.
func (c *Client) Storage() *storage.Client {
	return c.store
}

// Corpora returns the RAG corpus client.
func (c *Client) Corpora() *corpus.Client {
	return c.corpora
}

// Sessions returns the conversational memory store.
func (c *Client) Sessions() SessionStore {
	return c.sessions
}
