package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_SelectAndCompile(t *testing.T) {
	cls := NewClassifier(DefaultRegistry())

	got := cls.SelectAndCompile("2024-01-01 ~ 2024-01-31 방문 내역 담당자: 홍길동")
	assert.Equal(t, WorkHistoryEngineKey, got.EngineKey)
	assert.Equal(t, "work-history-search_1729580112483", got.EngineID)
	assert.NotEmpty(t, got.EngineReason)
	require.NotNil(t, got.Compiled)
	assert.True(t, got.Compiled.Applied)
	assert.Equal(t,
		`(date >= "2024-01-01" AND date <= "2024-01-31") AND owner: ANY("홍길동")`,
		got.Compiled.FilterExpr)
	assert.Equal(t, "방문 내역", got.Compiled.QueryText)

	got = cls.SelectAndCompile("esxi 장애 트러블 슈팅 방법")
	assert.Equal(t, ManualEngineKey, got.EngineKey)
	assert.Equal(t, ReasonNoFilterRules, got.Compiled.Reason)
}

func TestClassifier_CompileFor(t *testing.T) {
	cls := NewClassifier(DefaultRegistry())

	// Caller pins the engine; the query text would otherwise route to the
	// manual engine.
	got, ok := cls.CompileFor(WorkHistoryEngineKey, "설치 작업 2024-05-17")
	require.True(t, ok)
	assert.Equal(t, WorkHistoryEngineKey, got.EngineKey)
	assert.Equal(t, "engine specified by caller", got.EngineReason)
	assert.True(t, got.Compiled.Applied)

	_, ok = cls.CompileFor("unknown", "query")
	assert.False(t, ok)
}

func TestDecision_JSONShape(t *testing.T) {
	cls := NewClassifier(DefaultRegistry())
	got := cls.SelectAndCompile("2024년 3월 업무 일지")

	raw, err := json.Marshal(got)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{"engine_id", "engine_key", "engine_reason", "scores", "matched_patterns", "compiled"} {
		assert.Contains(t, decoded, key)
	}
}
