// Package testutil provides shared test infrastructure for the surrogate
// engines: golden run loading and float assertions used across sim/,
// sim/regression/ and cmd/ tests.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// GoldenRun represents one file under testdata/golden/.
type GoldenRun struct {
	Scenario string      `json:"scenario"`
	Ticks    []GoldenTick `json:"ticks"`
}

// GoldenTick holds the expected attribute values after one step.
type GoldenTick struct {
	Tick   int                `json:"tick"`
	Values map[string]float64 `json:"values"`
}

// RepoPath resolves a path relative to the repository root.
func RepoPath(t *testing.T, elem ...string) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	// Navigate from sim/internal/testutil/ to the repo root
	root := filepath.Join(filepath.Dir(thisFile), "..", "..", "..")
	return filepath.Join(append([]string{root}, elem...)...)
}

// LoadGoldenRun loads testdata/golden/<name>.json.
func LoadGoldenRun(t *testing.T, name string) *GoldenRun {
	t.Helper()
	data, err := os.ReadFile(RepoPath(t, "testdata", "golden", name+".json"))
	if err != nil {
		t.Fatalf("Failed to read golden run: %v", err)
	}
	var run GoldenRun
	if err := json.Unmarshal(data, &run); err != nil {
		t.Fatalf("Failed to parse golden run: %v", err)
	}
	return &run
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == got {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
