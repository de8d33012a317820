package trace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulationTrace_RecordStep_AppendsCopy(t *testing.T) {
	// GIVEN a trace configured for steps
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelSteps})
	values := map[string]float64{"P": 6}

	// WHEN a step is recorded and the caller's map changes afterwards
	st.RecordStep(1, values)
	values["P"] = 100

	// THEN the record keeps the original value
	require.Len(t, st.Steps, 1)
	assert.Equal(t, 1, st.Steps[0].Tick)
	assert.Equal(t, 6.0, st.Steps[0].Values["P"])
}

func TestSimulationTrace_LevelNone_RecordsNothing(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelNone})

	st.RecordStep(1, map[string]float64{"P": 1})
	st.RecordFailure(2, errors.New("boom"))

	assert.Empty(t, st.Steps)
	assert.Empty(t, st.Failures)
	assert.False(t, st.Enabled())
}

func TestSimulationTrace_RecordFailure(t *testing.T) {
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelSteps})

	st.RecordFailure(3, errors.New("input \"u\" has not been set"))
	st.RecordFailure(4, nil)

	require.Len(t, st.Failures, 1)
	assert.Equal(t, FailureRecord{Tick: 3, Reason: "input \"u\" has not been set"}, st.Failures[0])
}

func TestNewSimulationTrace_UniqueRunIDs(t *testing.T) {
	a := NewSimulationTrace(TraceConfig{})
	b := NewSimulationTrace(TraceConfig{})
	assert.NotEmpty(t, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestNilTrace_IsDisabled(t *testing.T) {
	var st *SimulationTrace
	assert.False(t, st.Enabled())
	st.RecordStep(1, nil) // must not panic
}

func TestIsValidTraceLevel_ValidLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"none", true},
		{"steps", true},
		{"", true},
		{"decisions", false},
		{"STEPS", false},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.valid, IsValidTraceLevel(tc.level), "level %q", tc.level)
	}
}
