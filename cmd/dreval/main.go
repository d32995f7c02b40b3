// Command dreval evaluates intrusion classifiers by per-class detection rate
// and false alarm rate.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/go-dreval/internal/config"
	"github.com/jamesainslie/go-dreval/internal/logging"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

var (
	cfgFile  string
	logLevel string
	format   string
	negative int
	taxFile  string

	logger *logrus.Logger
	cfg    *config.Config
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dreval",
	Short: "Detection rate and false alarm rate for intrusion classifiers",
	Long: `dreval collapses multi-class intrusion labels into normal/abnormal and
reports per-class detection rate (recall) and false alarm rate (false positive
rate) for one or more classifiers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("log-level") {
			cfg.LogLevel = logLevel
		}
		if flags.Changed("format") {
			cfg.Format = format
		}
		if flags.Changed("taxonomy") {
			cfg.TaxonomyFile = taxFile
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger = logging.New(cmd.ErrOrStderr(), level, cfg.LogJSON)
		logger.WithField("config", cfgFile).Debug("configuration loaded")
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: .dreval/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&format, "format", "text", "report format: text, json, proto")
	flags.IntVar(&negative, "negative", 0, "negative class id (default: taxonomy's negative class)")
	flags.StringVar(&taxFile, "taxonomy", "", "taxonomy YAML file (default: built-in 8-class taxonomy)")

	rootCmd.AddCommand(ratesCmd)
	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(versionCmd)
}
