// Package main provides the gradesheet CLI.
package main

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ukaji3/gradesheet-go/internal/config"
	"github.com/ukaji3/gradesheet-go/internal/delivery"
	"github.com/ukaji3/gradesheet-go/internal/logging"
	"github.com/ukaji3/gradesheet-go/internal/source"
)

var (
	configFile string
	envFile    string
	logLevel   string
	logFormat  string

	cfg    *config.Config
	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gradesheet",
		Short: "Export consolidated grade workbooks",
		Long: `gradesheet turns a section's evaluation snapshot (students, sessions,
competencies, abilities, criteria, grades and observations) into the
consolidated xlsx workbook.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "Config file (yaml, json or toml)")
	pf.StringVar(&envFile, "env-file", ".env", "Env file loaded before reading GRADESHEET_* variables")
	pf.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&logFormat, "log-format", "", "Log format: console, json")

	rootCmd.AddCommand(newExportCmd(), newInspectCmd(), newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(config.LoadOptions{ConfigFile: configFile, EnvFile: envFile})
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	logger, err = logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	return err
}

// newSource builds the configured snapshot source. It returns nil when no
// driver is configured.
func newSource(ctx context.Context, c config.SourceConfig) (source.Source, func(), error) {
	noop := func() {}
	switch c.Driver {
	case "":
		return nil, noop, nil
	case "file":
		return source.NewFileSource(c.Path), noop, nil
	case "http":
		s := source.NewHTTPSource(c.URL)
		s.SetToken(c.Token)
		return s, noop, nil
	case "sqlite":
		db, err := source.OpenSQLite(ctx, c.DSN)
		if err != nil {
			return nil, noop, err
		}
		return &source.SQLiteSource{DB: db}, func() { _ = db.Close() }, nil
	}
	return nil, noop, errors.Errorf("unknown source driver %q", c.Driver)
}

// newSink builds the configured delivery target.
func newSink(ctx context.Context, c config.DeliveryConfig) (delivery.Sink, error) {
	switch c.Driver {
	case "stdout":
		return &delivery.WriterSink{W: os.Stdout}, nil
	case "fs":
		return delivery.NewFileSink(c.Dir), nil
	case "s3":
		return delivery.NewS3Sink(ctx, delivery.S3Config{
			Bucket:    c.S3.Bucket,
			Region:    c.S3.Region,
			Endpoint:  c.S3.Endpoint,
			PathStyle: c.S3.PathStyle,
			Prefix:    c.S3.Prefix,
		})
	}
	return nil, errors.Errorf("unknown delivery driver %q", c.Driver)
}
