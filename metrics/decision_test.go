package metrics

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionRecord_JSON(t *testing.T) {
	rec := NewDecisionRecord("q-1", "2024년 3월 방문 내역")
	rec.EngineKey = "work-history"
	rec.FilterApplied = true
	rec.FilterExpr = `(date >= "2024-03-01" AND date <= "2024-03-31")`
	rec.FilterFields = []string{"date"}
	rec.RecordSearch(time.Now().Add(-50*time.Millisecond), 7, nil)

	data, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "q-1", decoded["query_id"])
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, float64(7), decoded["result_count"])
	assert.NotContains(t, decoded, "error_msg")
	assert.GreaterOrEqual(t, rec.SearchLatencyMs, int64(50))
}

func TestDecisionRecord_SearchFailure(t *testing.T) {
	rec := NewDecisionRecord("q-2", "query")
	rec.RecordSearch(time.Now(), 0, errors.New("backend unavailable"))

	assert.False(t, rec.Success)
	assert.Equal(t, "backend unavailable", rec.ErrorMsg)
}
