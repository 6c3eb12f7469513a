package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelector_HighestScoreWins(t *testing.T) {
	sel := NewSelector(DefaultRegistry())

	got := sel.Select("VMware 설치 가이드")
	assert.Equal(t, ManualEngineKey, got.EngineKey)
	assert.Greater(t, got.Scores[ManualEngineKey], got.Scores[WorkHistoryEngineKey])
	assert.Contains(t, got.Reason, "scored highest")
	assert.Contains(t, got.MatchedPatterns[ManualEngineKey], `vmware`)

	got = sel.Select("2024년 3월 업무 일지 요약")
	assert.Equal(t, WorkHistoryEngineKey, got.EngineKey)
}

func TestSelector_ZeroScoreTieFallsToDefault(t *testing.T) {
	sel := NewSelector(DefaultRegistry())

	got := sel.Select("hello world")
	assert.Equal(t, WorkHistoryEngineKey, got.EngineKey)
	assert.Equal(t, 0, got.Scores[WorkHistoryEngineKey])
	assert.Equal(t, 0, got.Scores[ManualEngineKey])
	assert.Contains(t, got.Reason, "default-on-tie")
}

func TestSelector_TieWithoutFlagUsesRegistryOrder(t *testing.T) {
	reg, err := NewRegistry(
		&EngineConfig{Key: "alpha", BackendID: "alpha-be", Patterns: []string{`공통`}},
		&EngineConfig{Key: "beta", BackendID: "beta-be", Patterns: []string{`공통`}},
	)
	require.NoError(t, err)

	got := NewSelector(reg).Select("공통 키워드")
	assert.Equal(t, "alpha", got.EngineKey)
	assert.Contains(t, got.Reason, "registry order")
}

func TestSelector_MultipleDefaultFlagsResolveByOrder(t *testing.T) {
	reg, err := NewRegistry(
		&EngineConfig{Key: "first", BackendID: "first-be", Patterns: []string{`x년`}, DefaultOnTie: true},
		&EngineConfig{Key: "second", BackendID: "second-be", Patterns: []string{`y년`}, DefaultOnTie: true},
	)
	require.NoError(t, err)

	got := NewSelector(reg).Select("무관한 질문")
	assert.Equal(t, "first", got.EngineKey)
	assert.Contains(t, got.Reason, "default-on-tie")
}

func TestSelector_NeverRefuses(t *testing.T) {
	sel := NewSelector(DefaultRegistry())

	for _, q := range []string{"", "   ", "?!@#", "completely unrelated english text"} {
		got := sel.Select(q)
		require.NotNil(t, got.Engine, "query %q", q)
		assert.NotEmpty(t, got.EngineKey, "query %q", q)
		assert.NotEmpty(t, got.Reason, "query %q", q)
	}
}

func TestSelector_ScoresCoverEveryEngine(t *testing.T) {
	got := NewSelector(DefaultRegistry()).Select("업무 보고")

	assert.Len(t, got.Scores, 2)
	assert.Contains(t, got.Scores, WorkHistoryEngineKey)
	assert.Contains(t, got.Scores, ManualEngineKey)
}
