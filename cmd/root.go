package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/theory-sim/sim"
	"github.com/inference-sim/theory-sim/sim/lognum"
	_ "github.com/inference-sim/theory-sim/sim/theory" // registers the per-theory evaluator
	"github.com/inference-sim/theory-sim/sim/trace"
)

var (
	// Global flags
	logLevel     string // Log verbosity level
	tuningPath   string // Path to the tuning document
	outputFormat string // Response encoding: yaml or json
	traceLevel   string // Run trace verbosity: none or runs

	// Query flags
	theoryName string            // Theory category name, e.g. T1
	strat      string            // Strategy name or strategy category
	lastStrat  string            // Strategy used on the previous publication
	sigma      int               // Student count
	rhoFlag    string            // Starting rho
	capFlag    string            // Rho cap
	stepFlag   string            // Fixed-step multiplier
	hardCap    bool              // Pass the cap to every chained evaluation
	veryActive bool              // Use Best Overall as the active profile
	semiIdle   bool              // Use Best Semi-Idle as the idle profile
	values     map[string]string // Current rho per theory for aggregate runs

	// Settings flags
	dt              float64 // Initial tick length
	ddt             float64 // Tick growth per tick
	mfResetDepth    int     // MF reset search depth
	boughtVarsDelta float64 // Recording window below the last publication
	simAllStrats    string  // Aggregate profile: all, active or idle
	completedCTs    string  // Completed custom theory handling: in, end or no
	showUnofficials bool    // Include unofficial custom theories in aggregate output
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "theory-sim",
	Short: "Publication-cycle simulator for idle-game theories",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s (expected none or runs)", traceLevel)
		}
	},
}

var singleCmd = &cobra.Command{
	Use:   "single",
	Short: "Simulate one publication",
	Run: func(cmd *cobra.Command, args []string) {
		q := sim.SingleQuery{
			Theory:    mustTheory(),
			Strat:     strat,
			Sigma:     sigma,
			Rho:       mustLogNum("rho", rhoFlag),
			LastStrat: lastStrat,
			Settings:  settingsFromFlags(),
		}
		if capFlag != "" {
			c := mustLogNum("cap", capFlag)
			q.Cap = &c
		}
		runQuery(q)
	},
}

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Chain publications from rho until the cap",
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(sim.ChainQuery{
			Theory:   mustTheory(),
			Strat:    strat,
			Sigma:    sigma,
			Rho:      mustLogNum("rho", rhoFlag),
			Cap:      mustLogNum("cap", capFlag),
			HardCap:  hardCap,
			Settings: settingsFromFlags(),
		})
	},
}

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Simulate one publication at each multiple of step up to the cap",
	Run: func(cmd *cobra.Command, args []string) {
		runQuery(sim.StepQuery{
			Theory:   mustTheory(),
			Strat:    strat,
			Sigma:    sigma,
			Rho:      mustLogNum("rho", rhoFlag),
			Cap:      mustLogNum("cap", capFlag),
			Step:     mustLogNum("step", stepFlag),
			Settings: settingsFromFlags(),
		})
	},
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Compare active and idle profiles across theories",
	Long:  "Compare active and idle profiles across theories. Pass the current rho of each theory with --values T1=1e100,T2=1e80; theories left out are skipped.",
	Run: func(cmd *cobra.Command, args []string) {
		vals, err := valuesFromFlags(values)
		if err != nil {
			logrus.Fatalf("Invalid --values: %v", err)
		}
		runQuery(sim.AllQuery{
			Values:     vals,
			Sigma:      sigma,
			VeryActive: veryActive,
			SemiIdle:   semiIdle,
			Settings:   settingsFromFlags(),
		})
	},
}

// runQuery executes q against the tuning document and writes the response to stdout.
func runQuery(q sim.Query) {
	reg, err := loadTuning(tuningPath)
	if err != nil {
		logrus.Fatalf("Failed to load tuning: %v", err)
	}
	rt := trace.NewRunTrace(trace.TraceLevel(traceLevel))
	s, err := sim.NewDefaultSimulator(reg, sim.WithTrace(rt))
	if err != nil {
		logrus.Fatalf("Failed to create simulator: %v", err)
	}

	logrus.Infof("Starting %s simulation", q.QueryType())
	resp, err := s.Simulate(q)
	if err != nil {
		logrus.Fatalf("%s simulation failed: %v", q.QueryType(), err)
	}
	if err := writeOutput(os.Stdout, resp, outputFormat); err != nil {
		logrus.Fatalf("Failed to write response: %v", err)
	}

	if rt.Enabled() {
		summary := trace.Summarize(rt)
		logrus.Infof("Trace: %d runs, %.0fs total, %.0fs mean, gain %.3f..%.3f, strategies %s",
			summary.Steps, summary.TotalTime, summary.MeanTime, summary.MinGain, summary.MaxGain, summary.StratCounts())
	}
	logrus.Info("Simulation complete.")
}

func mustTheory() sim.Category {
	c, err := sim.ParseCategory(theoryName)
	if err != nil {
		logrus.Fatalf("Invalid --theory: %v", err)
	}
	return c
}

func mustLogNum(flag, s string) lognum.LogNum {
	if s == "" {
		logrus.Fatalf("--%s is required", flag)
	}
	n, err := lognum.Parse(s)
	if err != nil {
		logrus.Fatalf("Invalid --%s: %v", flag, err)
	}
	return n
}

// settingsFromFlags overlays the settings flags on DefaultSettings.
func settingsFromFlags() sim.Settings {
	s := sim.DefaultSettings()
	s.Dt = dt
	s.Ddt = ddt
	s.MFResetDepth = mfResetDepth
	s.BoughtVarsDelta = boughtVarsDelta
	s.SimAllStrats = simAllStrats
	s.CompletedCTs = completedCTs
	s.ShowUnofficials = showUnofficials
	return s
}

// valuesFromFlags builds the positional AllQuery values from theory=rho pairs.
// Theories not named stay at zero, which the aggregate run skips.
func valuesFromFlags(pairs map[string]string) ([]lognum.LogNum, error) {
	vals := make([]lognum.LogNum, len(sim.Categories()))
	for i := range vals {
		vals[i] = lognum.Zero()
	}
	for name, raw := range pairs {
		c, err := sim.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		n, err := lognum.Parse(raw)
		if err != nil {
			return nil, err
		}
		vals[c.Index()] = n
	}
	return vals, nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addQueryFlags registers the per-theory query flags shared by single, chain and step.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theoryName, "theory", "T1", "Theory to simulate")
	cmd.Flags().StringVar(&strat, "strat", sim.BestOverall, "Strategy name or strategy category")
	cmd.Flags().StringVar(&rhoFlag, "rho", "", "Starting rho, e.g. 1e100")
}

// addSettingsFlags registers the flags that fill the query's Settings.
func addSettingsFlags(cmd *cobra.Command) {
	def := sim.DefaultSettings()
	cmd.Flags().IntVar(&sigma, "sigma", 0, "Student count")
	cmd.Flags().Float64Var(&dt, "dt", def.Dt, "Initial tick length")
	cmd.Flags().Float64Var(&ddt, "ddt", def.Ddt, "Multiplicative tick growth per tick")
	cmd.Flags().IntVar(&mfResetDepth, "mf-reset-depth", def.MFResetDepth, "MF reset search depth")
	cmd.Flags().Float64Var(&boughtVarsDelta, "bought-vars-delta", def.BoughtVarsDelta, "Orders of magnitude below the last publication in which purchases are recorded")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&tuningPath, "tuning", "tuning.yaml", "Path to the tuning document")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "yaml", "Response encoding (yaml, json)")
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", "none", "Run trace level (none, runs)")

	for _, c := range []*cobra.Command{singleCmd, chainCmd, stepCmd} {
		addQueryFlags(c)
		addSettingsFlags(c)
	}
	singleCmd.Flags().StringVar(&capFlag, "cap", "", "Optional rho cap")
	singleCmd.Flags().StringVar(&lastStrat, "last-strat", "", "Strategy used on the previous publication")

	chainCmd.Flags().StringVar(&capFlag, "cap", "", "Rho to chain publications up to")
	chainCmd.Flags().BoolVar(&hardCap, "hard-cap", false, "Stop every publication at the cap")

	stepCmd.Flags().StringVar(&capFlag, "cap", "", "Largest starting rho")
	stepCmd.Flags().StringVar(&stepFlag, "step", "10", "Multiplier between starting rhos")

	addSettingsFlags(allCmd)
	allCmd.Flags().StringToStringVar(&values, "values", nil, "Current rho per theory, e.g. T1=1e100,T2=1e80")
	allCmd.Flags().BoolVar(&veryActive, "very-active", false, "Use Best Overall as the active profile")
	allCmd.Flags().BoolVar(&semiIdle, "semi-idle", false, "Use Best Semi-Idle as the idle profile")
	allCmd.Flags().StringVar(&simAllStrats, "sim-all-strats", sim.StratTypeAll, "Aggregate profile (all, active, idle)")
	allCmd.Flags().StringVar(&completedCTs, "completed-cts", sim.CompletedCTsNo, "Completed custom theory handling (in, end, no)")
	allCmd.Flags().BoolVar(&showUnofficials, "show-unofficials", false, "Include unofficial custom theories")

	batchCmd.Flags().IntVar(&parallel, "parallel", 4, "Maximum queries evaluated concurrently")

	rootCmd.AddCommand(singleCmd, chainCmd, stepCmd, allCmd, batchCmd, theoriesCmd)
}
