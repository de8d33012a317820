package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/surrogate-sim/sim/trace"
)

var (
	// CLI flags for scenario runs
	scenarioPath string // Path to the scenario YAML file
	ticks        int    // Number of steps to run (0 = scenario default)
	logLevel     string // Log verbosity level
	traceStore   string // Where finished traces are saved
	traceDB      string // SQLite file for the sqlite trace store
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "surrogate-sim",
	Short: "Step-based surrogate model simulator",
}

// setLogLevel applies the --log flag or exits on an unknown level.
func setLogLevel() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
}

// runCmd executes a scenario
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a surrogate scenario",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if scenarioPath == "" {
			logrus.Fatalf("Scenario file not provided. Exiting simulation.")
		}
		if !trace.IsValidStoreKind(traceStore) {
			logrus.Fatalf("Unknown trace store %q (valid: memory, sqlite)", traceStore)
		}
		if traceStore == trace.StoreSQLite && traceDB == "" {
			logrus.Fatalf("--trace-db is required with --trace-store sqlite")
		}
		if ticks < 0 {
			logrus.Fatalf("--ticks must be non-negative, got %d", ticks)
		}

		sc, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("unable to load scenario; %v", err)
		}

		startTime := time.Now()
		st, err := RunScenario(context.Background(), sc, RunConfig{
			Ticks:      ticks,
			TraceStore: traceStore,
			TraceDB:    traceDB,
		}, os.Stdout)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		logrus.Infof("Simulation complete in %v (run %s).", time.Since(startTime), st.RunID)
	},
}

// validateCmd checks a scenario without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate a surrogate scenario",
	Run: func(cmd *cobra.Command, args []string) {
		setLogLevel()
		if scenarioPath == "" {
			logrus.Fatalf("Scenario file not provided.")
		}
		sc, err := LoadScenario(scenarioPath)
		if err != nil {
			logrus.Fatalf("invalid scenario; %v", err)
		}
		if _, err := newEngine(sc); err != nil {
			logrus.Fatalf("invalid scenario %q; %v", sc.Name, err)
		}
		logrus.Infof("Scenario %q is valid (%s engine, %d models).", sc.Name, engineName(sc), len(sc.Models))
	},
}

func engineName(sc *Scenario) string {
	if sc.Engine == "" {
		return EngineAttribute
	}
	return sc.Engine
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	for _, c := range []*cobra.Command{runCmd, validateCmd} {
		c.Flags().StringVar(&scenarioPath, "scenario", "", "Path to scenario YAML file")
		c.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	}

	runCmd.Flags().IntVar(&ticks, "ticks", 0, "Number of steps to run (0 uses the scenario's ticks)")
	runCmd.Flags().StringVar(&traceStore, "trace-store", "memory", "Trace store (memory, sqlite)")
	runCmd.Flags().StringVar(&traceDB, "trace-db", "", "SQLite database file for --trace-store sqlite")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
}
