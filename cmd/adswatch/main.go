package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alexanderjulianmartinez/adswatch/internal/config"
	"github.com/alexanderjulianmartinez/adswatch/internal/drift"
	"github.com/alexanderjulianmartinez/adswatch/internal/report"
	"github.com/alexanderjulianmartinez/adswatch/internal/source/sqldb"
)

func main() {
	if err := newRootCmd(os.Stdout).ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "adswatch error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var (
		configPath string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "adswatch",
		Short: "Print counts and recent rows of the ADS tables",
		Long: `adswatch connects to the database named by DATABASE_URL and prints a
read-only summary of the nullifiers, ads_state_commits, tree_state and
proof_batches tables.

A .env file in the working directory is loaded when present.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				configPath = os.Getenv(config.EnvConfigPath)
			}
			return run(cmd.Context(), stdout, configPath, verbose)
		},
	}
	cmd.SetOut(stdout)
	cmd.Flags().StringVar(&configPath, "config", "", "Path to an optional adswatch.yaml (default $"+config.EnvConfigPath+")")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every inspection step to stderr")
	return cmd
}

func run(ctx context.Context, stdout io.Writer, configPath string, verbose bool) error {
	logger, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	loadEnv(logger)

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	target := sqldb.Redact(cfg.Source.URL)

	inspector, err := sqldb.Open(ctx, cfg.Source.URL, sqldb.Options{
		TreeID:      cfg.Inspect.TreeID,
		RecentLimit: cfg.Inspect.RecentLimit,
		Timeout:     cfg.Inspect.Timeout,
		Logger:      logger,
	})
	if err != nil {
		return fail(stdout, logger, err, target)
	}
	defer inspector.Close()

	fmt.Fprintln(stdout, report.Header)

	res, err := inspector.Inspect(ctx)
	if err != nil {
		return fail(stdout, logger, err, target)
	}

	if err := report.Render(stdout, res); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	issues := drift.Validate(res)
	if len(issues.Issues) > 0 {
		logger.Warn("ADS tables disagree", zap.Int("issues", len(issues.Issues)), zap.String("highest", issues.Highest()))
	}
	return report.RenderIssues(stdout, issues)
}

func fail(stdout io.Writer, logger *zap.Logger, err error, target string) error {
	logger.Error("inspection failed", zap.String("target", target), zap.Error(err))
	_ = report.RenderError(stdout, err, target)
	return err
}

func newLogger(verbose bool) (*zap.Logger, error) {
	logger, err := loggerConfig(verbose).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// loggerConfig keeps failed runs to a single JSON line on stderr unless
// verbose output was asked for.
func loggerConfig(verbose bool) zap.Config {
	if verbose {
		config := zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return config
	}
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	config.DisableStacktrace = true
	return config
}

// loadEnv reads .env from the working directory without overriding
// variables that are already set.
func loadEnv(logger *zap.Logger) {
	err := godotenv.Load(".env")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("could not read .env", zap.Error(err))
	}
}
