package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/fds/internal/testevents"
	"github.com/okian/fds/pkg/logger"
)

func newGenerateCommand() *cobra.Command {
	cfg := testevents.DefaultConfig()
	var logLevel string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write synthetic results and labels with a known outcome",
		Long: `generate writes <out>/results, <out>/labels and <out>/manifest.json.
The manifest lists the class each sample was built to produce, and the
expected counts are printed as JSON so they can be checked against fds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			if err := logger.SetLevelString(logLevel); err != nil {
				return err
			}

			stats, err := testevents.Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&cfg.Dir, "out", cfg.Dir, "Output directory")
	fl.IntVar(&cfg.Samples, "samples", cfg.Samples, "Number of samples to generate")
	fl.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	fl.Float64Var(&cfg.FireRate, "fire-rate", cfg.FireRate, "Share of samples containing a fire")
	fl.Float64Var(&cfg.DetectRate, "detect-rate", cfg.DetectRate, "Share of fires the detector reports")
	fl.Float64Var(&cfg.EarlyRate, "early-rate", cfg.EarlyRate, "Share of detections before the tolerance window")
	fl.Float64Var(&cfg.FalseAlarmRate, "false-alarm-rate", cfg.FalseAlarmRate, "Share of quiet samples with a detection")
	fl.IntVar(&cfg.MaxFrame, "max-frame", cfg.MaxFrame, "Upper bound for event frames")
	fl.IntVar(&cfg.MaxDelay, "max-delay", cfg.MaxDelay, "Upper bound for detection delay")
	fl.IntVar(&cfg.Delta, "delta", cfg.Delta, "Tolerance the evaluation will use")
	fl.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	return cmd
}
