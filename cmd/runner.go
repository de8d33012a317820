package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/surrogate-sim/sim"
	"github.com/inference-sim/surrogate-sim/sim/regression"
	"github.com/inference-sim/surrogate-sim/sim/trace"
)

// engine is the per-tick surface shared by both surrogate engines.
type engine interface {
	// Tick writes the scheduled inputs for tick, steps once and returns the
	// attribute values readable afterwards.
	Tick(tick int) (map[string]float64, error)
}

// attributeEngine drives the named-attribute simulator.
type attributeEngine struct {
	sc  *Scenario
	sim *sim.Simulator
}

func newAttributeEngine(sc *Scenario) (*attributeEngine, error) {
	fns := make([]sim.TransferFunction, 0, len(sc.Models))
	for i := range sc.Models {
		m := &sc.Models[i]
		desc, err := m.Description()
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
		est, err := desc.Estimator()
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
		tf, err := sim.NewSimpleTransferFunction(est, m.InputNames, m.ResponseNames)
		if err != nil {
			return nil, fmt.Errorf("model %d: %w", i, err)
		}
		fns = append(fns, tf)
	}
	var tf sim.TransferFunction = fns[0]
	if len(fns) > 1 {
		combined, err := sim.NewCombinedTransferFunction(fns...)
		if err != nil {
			return nil, err
		}
		tf = combined
	}
	s, err := sim.NewSimulator(sc.Structure, tf)
	if err != nil {
		return nil, err
	}
	if err := s.Init(sc.Parameters); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return &attributeEngine{sc: sc, sim: s}, nil
}

func (e *attributeEngine) Tick(tick int) (map[string]float64, error) {
	for _, name := range e.sc.Structure.Inputs {
		if err := e.sim.Set(name, e.sc.InputAt(name, tick)); err != nil {
			return nil, err
		}
	}
	if err := e.sim.Step(); err != nil {
		return nil, err
	}
	return e.sim.Values(), nil
}

// arrayEngine drives the index-addressed regression simulator.
type arrayEngine struct {
	sc  *Scenario
	sim *regression.Simulator
}

func newArrayEngine(sc *Scenario) (*arrayEngine, error) {
	desc, err := sc.Models[0].Description()
	if err != nil {
		return nil, err
	}
	var s *regression.Simulator
	switch sc.Backend {
	case BackendSelectTyped:
		s, err = regression.New(regression.TypedRegistry(), desc, sc.Structure, sc.Parameters)
	case BackendSelectDefault:
		s, err = regression.New(regression.DefaultRegistry(), desc, sc.Structure, sc.Parameters)
	default:
		var backend regression.Backend
		backend, err = regression.DefaultRegistry().CreateNamed(sc.Backend, desc)
		if err != nil {
			return nil, err
		}
		s, err = regression.NewWithBackend(backend, sc.Structure, sc.Parameters)
	}
	if err != nil {
		return nil, err
	}
	logrus.Debugf("array engine using %s backend with %d input columns", s.Backend().Name(), s.NumInputs())
	return &arrayEngine{sc: sc, sim: s}, nil
}

func (e *arrayEngine) Tick(tick int) (map[string]float64, error) {
	values := make(map[string]float64, len(e.sc.Structure.Inputs)+len(e.sc.Structure.Outputs))
	for _, name := range e.sc.Structure.Inputs {
		v := e.sc.InputAt(name, tick)
		if err := e.sim.SetInput(name, v); err != nil {
			return nil, err
		}
		values[name] = v
	}
	if err := e.sim.Step(); err != nil {
		return nil, err
	}
	for _, name := range e.sc.Structure.Outputs {
		v, err := e.sim.Output(name)
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return values, nil
}

func newEngine(sc *Scenario) (engine, error) {
	if sc.Engine == EngineArray {
		return newArrayEngine(sc)
	}
	return newAttributeEngine(sc)
}

// RunConfig carries the run command options.
type RunConfig struct {
	Ticks      int // 0 uses the scenario's own tick count
	TraceStore string
	TraceDB    string
}

// RunScenario steps the scenario's engine and writes one line per tick plus
// a JSON summary to out. The trace is saved before the summary is written.
// A failed step is recorded and ends the run.
func RunScenario(ctx context.Context, sc *Scenario, cfg RunConfig, out io.Writer) (*trace.SimulationTrace, error) {
	ticks := cfg.Ticks
	if ticks <= 0 {
		ticks = sc.DefaultTicks()
	}
	eng, err := newEngine(sc)
	if err != nil {
		return nil, fmt.Errorf("building engine: %w", err)
	}

	st := trace.NewSimulationTrace(trace.TraceConfig{Level: trace.TraceLevelSteps, Scenario: sc.Name})
	logrus.Infof("Running scenario %q for %d ticks (run %s)", sc.Name, ticks, st.RunID)

	var runErr error
	for tick := 0; tick < ticks; tick++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		values, err := eng.Tick(tick)
		if err != nil {
			st.RecordFailure(tick, err)
			runErr = fmt.Errorf("tick %d: %w", tick, err)
			break
		}
		st.RecordStep(tick, values)
		if _, err := fmt.Fprintf(out, "tick %d: %s\n", tick, formatValues(values)); err != nil {
			return st, err
		}
	}

	if err := persistTrace(ctx, cfg, st); err != nil {
		return st, err
	}
	if err := writeSummary(out, st); err != nil {
		return st, err
	}
	return st, runErr
}

func persistTrace(ctx context.Context, cfg RunConfig, st *trace.SimulationTrace) error {
	store, err := trace.NewStore(ctx, cfg.TraceStore, cfg.TraceDB)
	if err != nil {
		return err
	}
	defer func() {
		if err := trace.CloseIfSupported(store); err != nil {
			logrus.Warnf("closing trace store: %v", err)
		}
	}()
	if err := store.Save(ctx, st); err != nil {
		return fmt.Errorf("saving trace: %w", err)
	}
	logrus.Debugf("Saved trace %s", st.RunID)
	return nil
}

func writeSummary(out io.Writer, st *trace.SimulationTrace) error {
	data, err := json.MarshalIndent(trace.Summarize(st), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	_, err = fmt.Fprintf(out, "=== Run Summary ===\n%s\n", data)
	return err
}

// formatValues renders values as name=value pairs in name order.
func formatValues(values map[string]float64) string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%g", name, values[name])
	}
	return strings.Join(parts, " ")
}
