package metrics

import (
	"encoding/json"
	"time"

	"github.com/kennychae/vertex-ai-search-agent/common/logger"
)

// DecisionRecord captures one query's full path through the system:
// classification, filter compilation and the backend call. It is emitted as
// a single JSON log line so routing behavior can be audited offline.
type DecisionRecord struct {
	QueryID   string    `json:"query_id"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`

	EngineKey       string              `json:"engine_key"`
	EngineID        string              `json:"engine_id"`
	EngineReason    string              `json:"engine_reason"`
	Scores          map[string]int      `json:"scores,omitempty"`
	MatchedPatterns map[string][]string `json:"matched_patterns,omitempty"`

	FilterApplied bool     `json:"filter_applied"`
	FilterExpr    string   `json:"filter_expr,omitempty"`
	FilterReason  string   `json:"filter_reason,omitempty"`
	FilterFields  []string `json:"filter_fields,omitempty"`
	ResidualQuery string   `json:"residual_query,omitempty"`

	CacheHit        bool   `json:"cache_hit"`
	ResultCount     int    `json:"result_count"`
	SearchLatencyMs int64  `json:"search_latency_ms,omitempty"`
	TotalLatencyMs  int64  `json:"total_latency_ms"`
	Success         bool   `json:"success"`
	ErrorMsg        string `json:"error_msg,omitempty"`
}

// NewDecisionRecord starts a record for one query.
func NewDecisionRecord(queryID, query string) *DecisionRecord {
	return &DecisionRecord{
		QueryID:   queryID,
		Query:     query,
		Timestamp: time.Now().UTC(),
	}
}

// RecordSearch fills in the backend call outcome.
func (r *DecisionRecord) RecordSearch(start time.Time, results int, err error) {
	r.SearchLatencyMs = time.Since(start).Milliseconds()
	r.ResultCount = results
	r.Success = err == nil
	if err != nil {
		r.ErrorMsg = err.Error()
	}
}

// Log emits the record as one JSON line. Total latency is measured from
// record creation unless the caller already set it.
func (r *DecisionRecord) Log() {
	if r.TotalLatencyMs == 0 {
		r.TotalLatencyMs = time.Since(r.Timestamp).Milliseconds()
	}
	data, err := json.Marshal(r)
	if err != nil {
		return
	}
	logger.Infof("[DECISION] %s", string(data))
}
