package sim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inference-sim/surrogate-sim/sim/internal/testutil"
)

// TestSimulator_Accumulator_MatchesGoldenRun replays the accumulator golden
// run: P_set follows [1, 1, 2, 2] from capacity 5.
func TestSimulator_Accumulator_MatchesGoldenRun(t *testing.T) {
	// GIVEN the recorded accumulator run
	run := testutil.LoadGoldenRun(t, "accumulator")
	require.Equal(t, "accumulator", run.Scenario)
	s := newAccumulator(t)
	require.NoError(t, s.Init(map[string]float64{"capacity": 5}))

	for _, tick := range run.Ticks {
		// WHEN the tick's input is written and the model steps
		require.NoError(t, s.Set("P_set", tick.Values["P_set"]))
		require.NoError(t, s.Step())

		// THEN every recorded attribute matches
		got := s.Values()
		require.Len(t, got, len(tick.Values), "tick %d", tick.Tick)
		for name, want := range tick.Values {
			testutil.AssertFloat64Equal(t, name, want, got[name], 1e-12)
		}
	}
}
