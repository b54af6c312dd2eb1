package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"splitmark/internal/config"
	"splitmark/internal/logging"
	"splitmark/internal/output"
	"splitmark/internal/services"
)

// annotationStandalone marks commands that must not load config or open the cache
const annotationStandalone = "standalone"

var (
	cfgFile      string
	outputFormat string
	verbose      bool

	configManager *config.Manager
	cfg           *config.Config
	svc           *services.Services
	logger        *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "splitmark-cli",
	Short: "CLI for marking title pages in IIIF manuscript volumes",
	Long: `splitmark-cli marks the pages of an IIIF manuscript that begin a new
musical piece and exports them as a title pages sidecar for the external
manifest splitter.

It provides commands to list volumes and pages, export sidecars, preview
splits, build the splitter command, assign music metadata and serve a
local manifest directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands and commands that run without services
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Annotations[annotationStandalone] == "true" {
			return nil
		}

		if _, err := output.ParseFormat(outputFormat); err != nil {
			return err
		}

		cm, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		configManager = cm
		cfg = cm.Get()

		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		base, err := logging.New(level, cfg.Log.File)
		if err != nil {
			return err
		}
		logger, _ = logging.WithSession(base)
		logger.Debug("command started",
			zap.String("command", cmd.CommandPath()),
			zap.String("config", cm.ConfigFile()))

		svc, err = services.New(cfg, logger)
		if err != nil {
			return err
		}
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, nil); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// run executes the command line and releases services whether or not it failed.
// cobra skips post-run hooks when RunE returns an error.
func run(ctx context.Context, args []string) error {
	if args != nil {
		rootCmd.SetArgs(args)
	}
	defer cleanup()
	return rootCmd.ExecuteContext(ctx)
}

// cleanup closes the volume cache and flushes the logger
func cleanup() {
	if svc != nil {
		if err := svc.Close(); err != nil && logger != nil {
			logger.Warn("failed to close volume cache", zap.Error(err))
		}
		svc = nil
	}
	if logger != nil {
		_ = logger.Sync()
		logger = nil
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./splitmark.yaml or ~/.splitmark/splitmark.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// render writes data to stdout in the selected output format
func render(data any) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	return output.Write(os.Stdout, format, data)
}
