// Package sim provides the named-attribute surrogate simulation engine.
//
// # Reading Guide
//
// Start with these three files to understand the engine:
//   - structure.go: ModelStructure declares parameters, inputs, outputs and virtual states
//   - phase.go: the five-phase lifecycle (init → pre-step → step → post-step → idle)
//   - simulator.go: Init, Set, Step and Get on top of the lifecycle
//
// # Architecture
//
// The sim package owns the attribute store, the lifecycle and transfer
// functions; the rest lives in sub-packages:
//   - sim/regression/: index-addressed array engine and regression backends
//   - sim/trace/: per-step records, summaries and trace stores
//
// A step reads a snapshot of static, input and internal attributes, runs the
// transfer function and publishes its responses as outputs. Virtual states
// read the previous step's outputs, giving one-step-delayed feedback.
//
// # Key Interfaces
//
//   - Estimator: maps an input vector to a response vector
//   - TransferFunction: maps a snapshot to named responses
//   - regression.Backend: computes the whole output vector for the array engine
package sim
