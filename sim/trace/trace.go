package trace

import (
	"github.com/google/uuid"
)

// TraceLevel controls the verbosity of step tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelSteps captures every completed step and every failure.
	TraceLevelSteps TraceLevel = "steps"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:  true,
	TraceLevelSteps: true,
	"":              true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level    TraceLevel
	Scenario string // free-form label stored with the run
}

// SimulationTrace collects step records of one run.
type SimulationTrace struct {
	RunID    string
	Config   TraceConfig
	Steps    []StepRecord
	Failures []FailureRecord
}

// NewSimulationTrace creates a SimulationTrace with a fresh run ID.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		RunID:    uuid.NewString(),
		Config:   config,
		Steps:    make([]StepRecord, 0),
		Failures: make([]FailureRecord, 0),
	}
}

// Enabled reports whether records are kept.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelSteps
}

// RecordStep appends a step record; values are copied.
func (st *SimulationTrace) RecordStep(tick int, values map[string]float64) {
	if !st.Enabled() {
		return
	}
	copied := make(map[string]float64, len(values))
	for k, v := range values {
		copied[k] = v
	}
	st.Steps = append(st.Steps, StepRecord{Tick: tick, Values: copied})
}

// RecordFailure appends a failure record.
func (st *SimulationTrace) RecordFailure(tick int, err error) {
	if !st.Enabled() || err == nil {
		return
	}
	st.Failures = append(st.Failures, FailureRecord{Tick: tick, Reason: err.Error()})
}
