package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"feesim/config"
	"feesim/core"
	"feesim/core/invariants"
	"feesim/core/types"
	"feesim/native/fees"
	"feesim/observability"
	"feesim/observability/logging"
	"feesim/wire"
)

func main() {
	var (
		configPath   = flag.String("config", "", "path to the TOML configuration")
		scenarioPath = flag.String("scenario", "", "path to the JSON scenario to process")
		outPath      = flag.String("out", "", "path to write the compressed record to")
		logFile      = flag.String("log-file", "", "rotate logs into this file instead of stdout")
		metricsAddr  = flag.String("metrics-addr", "", "serve Prometheus metrics on this address")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *logFile != "" {
		cfg.LogFile = *logFile
	}
	logger := logging.Setup(logging.Options{
		Service:     "feesim",
		Environment: cfg.LogEnvironment,
		File:        cfg.LogFile,
	})

	if *metricsAddr == "" {
		*metricsAddr = cfg.MetricsAddress
	}
	if *metricsAddr != "" {
		router := chi.NewRouter()
		router.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, router); err != nil {
				logger.Error("metrics listener stopped", "error", err)
			}
		}()
		logger.Info("serving metrics", "address", *metricsAddr)
	}

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "feesim: -scenario is required")
		os.Exit(2)
	}
	scenario, err := wire.LoadScenario(*scenarioPath)
	if err != nil {
		logger.Error("scenario load failed", "error", err)
		os.Exit(1)
	}
	participants, rounds, budget, err := scenario.Build()
	if err != nil {
		logger.Error("scenario build failed", "error", err)
		os.Exit(1)
	}
	if budget.LeaderTimeout == nil || budget.LeaderTimeout.Sign() == 0 {
		leader, validators := cfg.Quanta()
		budget.LeaderTimeout = leader
		budget.ValidatorsTimeout = validators
	}

	state := core.ProcessTransaction(participants, rounds, budget)
	registry := invariants.NewRegistry()
	violations := registry.CheckAll(state)

	outcome := "clean"
	critical := false
	for _, violation := range violations {
		observability.Simulation().RecordViolation(string(violation.Severity))
		logger.Warn("invariant violated",
			"invariant", violation.ID,
			"index", violation.Index,
			"severity", string(violation.Severity),
			"message", violation.Message,
		)
		if violation.Severity == invariants.SeverityCritical {
			critical = true
		}
	}
	if len(violations) > 0 {
		outcome = "violations"
	}
	observability.Simulation().RecordTransaction(outcome, len(state.Rounds), len(state.Events))

	totals := fees.SumTotals(state.Events)
	logger.Info("transaction processed",
		"scenario", scenario.Name,
		"rounds", len(state.Rounds),
		"events", len(state.Events),
		"labels", labelStrings(state.Labels),
		"refund", state.Refund.String(),
		"earned", totals.Earned.String(),
		"burned", totals.Burned.String(),
		"violations", len(violations),
	)

	if *outPath != "" {
		record := wire.BuildRecord(state, scenario.Path, registry.Bitfield(state), uuid.NewString())
		file, err := os.Create(*outPath)
		if err != nil {
			logger.Error("record write failed", "error", err)
			os.Exit(1)
		}
		defer file.Close()
		if err := record.Encode(file); err != nil {
			logger.Error("record encode failed", "error", err)
			os.Exit(1)
		}
		logger.Info("record written", "path", *outPath, "hash", record.Hash)
	}

	if critical {
		os.Exit(1)
	}
}

func labelStrings(sequence []types.RoundLabel) []string {
	out := make([]string, len(sequence))
	for i, label := range sequence {
		out[i] = string(label)
	}
	return out
}
