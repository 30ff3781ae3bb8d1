// Package cli wires the fds command line.
package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/okian/fds/internal/adapters/repository"
	service "github.com/okian/fds/internal/app"
	"github.com/okian/fds/internal/config"
	"github.com/okian/fds/internal/domain/scoring"
	"github.com/okian/fds/internal/report"
	"github.com/okian/fds/pkg/logger"
	"github.com/okian/fds/pkg/metrics"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

// flags mirrors the config keys that may be overridden on the command line.
type flags struct {
	results        string
	labels         string
	totalFrames    float64
	processingTime float64
	memory         float64
	delta          int
	pairing        string
	format         string
	metricsFile    string
	model          string
	logLevel       string
	logFormat      string
	verbose        bool
}

// NewRootCommand builds the fds command tree.
func NewRootCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "fds",
		Short: "Score a fire detector against labelled samples",
		Long: `fds compares detector output with ground truth and prints precision,
recall, notification delay and the Fire Detection Score (FDS).

Each directory holds one file per sample containing the frame index of the
first fire event, or nothing when there is none. Files are matched by name
(without extension) unless --pairing=order is given.

Configuration is layered: defaults, the YAML file named by FDS_CONFIG,
FDS_* environment variables (including a .env file), then flags.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.results, "results", "", "Directory of predicted observations (default \"results\")")
	fl.StringVar(&f.labels, "labels", "", "Directory of ground-truth observations (default \"labels\")")
	fl.Float64Var(&f.totalFrames, "total-frames", 0, "Frames processed by the detector")
	fl.Float64Var(&f.processingTime, "processing-time", 0, "Time the detector took to process them")
	fl.Float64Var(&f.memory, "memory", 0, "Peak memory used by the detector (default 1)")
	fl.IntVar(&f.delta, "delta", 0, "Frames a detection may precede the event (default 5)")
	fl.StringVar(&f.pairing, "pairing", "", "Sample matching: key or order (default \"key\")")
	fl.StringVar(&f.format, "format", "", "Report format: text or json (default \"text\")")
	fl.StringVar(&f.metricsFile, "metrics-file", "", "Write Prometheus metrics of the run to this file")
	fl.StringVar(&f.model, "model", "", "Model name attached to exported metrics")
	fl.StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	fl.StringVar(&f.logFormat, "log-format", "", "Log format: text or json")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "Print the per-sample verdict table")

	cmd.AddCommand(newVersionCommand(), newGenerateCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "fds %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
		},
	}
}

// Execute runs the root command until completion or SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func run(cmd *cobra.Command, f *flags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	applyFlags(cmd, f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr()), logger.WithFormat(cfg.LogFormat)); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	log.Debug(ctx, "configuration loaded",
		logger.String("results", cfg.ResultsDir),
		logger.String("labels", cfg.LabelsDir),
		logger.String("format", cfg.Format),
		logger.Bool("verbose", cfg.Verbose),
		logger.Bool("metrics_export", cfg.MetricsFile != ""))

	pairing, err := repository.ParsePairingMode(cfg.Pairing)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	var labels map[string]string
	if cfg.ModelName != "" {
		labels = map[string]string{"model": cfg.ModelName}
	}
	mm := metrics.NewManager(
		metrics.WithNamespace(cfg.MetricsNamespace),
		metrics.WithConstLabels(labels),
		metrics.WithMetricsEnabled(cfg.MetricsFile != ""),
	)

	svc := service.New(
		service.WithLogger(logger.Named("service")),
		service.WithStore(repository.NewDirStore(repository.WithLogger(logger.Named("repository")))),
		service.WithRecorder(mm),
		service.WithPairing(pairing),
		service.WithDelta(cfg.Delta),
		service.WithScorer(scoring.NewScorer(
			scoring.WithPFRTarget(cfg.PFRTarget),
			scoring.WithMemTarget(cfg.MemTarget),
			scoring.WithMaxDelay(cfg.MaxDelay),
		)),
	)

	res, evalErr := svc.Evaluate(ctx, service.Request{
		ResultsDir: cfg.ResultsDir,
		LabelsDir:  cfg.LabelsDir,
		Resources: scoring.Resources{
			TotalFrames:    cfg.TotalFrames,
			ProcessingTime: cfg.ProcessingTime,
			MemoryUsage:    cfg.MemoryUsage,
		},
	})

	// Failed runs are exported too so their error counters are visible.
	if cfg.MetricsFile != "" {
		if err := mm.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Error(ctx, "failed to write metrics file", logger.String("path", cfg.MetricsFile), logger.Error(err))
			if evalErr == nil {
				return err
			}
		} else {
			log.Debug(ctx, "metrics written", logger.String("path", cfg.MetricsFile))
		}
	}
	if evalErr != nil {
		return evalErr
	}

	return report.Write(cmd.OutOrStdout(), res, format, cfg.Verbose)
}

// applyFlags copies explicitly set flags over the loaded configuration.
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	fl := cmd.Flags()
	set := func(name string, apply func()) {
		if fl.Changed(name) {
			apply()
		}
	}
	set("results", func() { cfg.ResultsDir = f.results })
	set("labels", func() { cfg.LabelsDir = f.labels })
	set("total-frames", func() { cfg.TotalFrames = f.totalFrames })
	set("processing-time", func() { cfg.ProcessingTime = f.processingTime })
	set("memory", func() { cfg.MemoryUsage = f.memory })
	set("delta", func() { cfg.Delta = f.delta })
	set("pairing", func() { cfg.Pairing = f.pairing })
	set("format", func() { cfg.Format = f.format })
	set("metrics-file", func() { cfg.MetricsFile = f.metricsFile })
	set("model", func() { cfg.ModelName = f.model })
	set("log-level", func() { cfg.LogLevel = f.logLevel })
	set("log-format", func() { cfg.LogFormat = f.logFormat })
	set("verbose", func() { cfg.Verbose = f.verbose })
}
