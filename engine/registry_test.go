package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegistry_Validation(t *testing.T) {
	_, err := NewRegistry()
	assert.ErrorIs(t, err, ErrEmptyRegistry)

	_, err = NewRegistry(&EngineConfig{Key: "", BackendID: "be"})
	assert.ErrorContains(t, err, "non-empty key")

	_, err = NewRegistry(&EngineConfig{Key: "a", BackendID: ""})
	assert.ErrorContains(t, err, "backend id")

	_, err = NewRegistry(
		&EngineConfig{Key: "a", BackendID: "be-1"},
		&EngineConfig{Key: "a", BackendID: "be-2"},
	)
	assert.ErrorContains(t, err, "duplicate engine key")

	_, err = NewRegistry(&EngineConfig{Key: "a", BackendID: "be", Rules: []FieldRule{nil}})
	assert.ErrorContains(t, err, "rule 0 is nil")

	_, err = NewRegistry(&EngineConfig{Key: "a", BackendID: "be", Patterns: []string{`(`}})
	assert.ErrorContains(t, err, "compile pattern")
}

func TestRegistry_OrderAndLookup(t *testing.T) {
	reg, err := NewRegistry(
		&EngineConfig{Key: "first", BackendID: "be-1"},
		&EngineConfig{Key: "second", BackendID: "be-2"},
	)
	require.NoError(t, err)

	engines := reg.Engines()
	require.Len(t, engines, 2)
	assert.Equal(t, "first", engines[0].Key)
	assert.Equal(t, "second", engines[1].Key)

	e, ok := reg.Get("second")
	require.True(t, ok)
	assert.Equal(t, "be-2", e.BackendID)

	_, ok = reg.Get("missing")
	assert.False(t, ok)
}

func TestDefaultRegistry(t *testing.T) {
	reg := DefaultRegistry()

	wh, ok := reg.Get(WorkHistoryEngineKey)
	require.True(t, ok)
	assert.True(t, wh.DefaultOnTie)
	assert.Len(t, wh.Rules, 3)

	manual, ok := reg.Get(ManualEngineKey)
	require.True(t, ok)
	assert.False(t, manual.DefaultOnTie)
	assert.Empty(t, manual.Rules)
}
