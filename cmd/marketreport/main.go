// Command marketreport prints the dashboard KPIs and writes its exports
// without starting the web server.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"marketpulse/internal/config"
	"marketpulse/internal/infrastructure"
	"marketpulse/internal/marketdata"
	"marketpulse/internal/services"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, marketdata.UserMessage(err))
		os.Exit(1)
	}
}

// options are the flags shared by every subcommand
type options struct {
	file    string
	verbose bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "marketreport",
		Short:         "Marketplace dashboard metrics on the command line",
		Long:          `Loads the marketplace CSV, computes the dashboard KPIs and writes the monthly exports.`,
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "data file (default: configured data file next to the executable)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline progress to stderr")

	root.AddCommand(newKPIsCmd(opts), newExportCmd(opts))
	return root
}

// newService builds a dashboard service that reads the data file directly.
func newService(cmd *cobra.Command, opts *options) (*services.DashboardService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	level := "warn"
	if opts.verbose {
		level = "debug"
	}
	logger := infrastructure.NewLogger(config.LoggingConfig{Level: level, Format: "text"}, cmd.ErrOrStderr())

	dataFile := opts.file
	if dataFile == "" {
		if dataFile, err = config.ResolveDataFile(cfg.Data.File); err != nil {
			return nil, err
		}
	} else if dataFile, err = filepath.Abs(dataFile); err != nil {
		return nil, fmt.Errorf("resolve data file: %w", err)
	}

	logger.Debug("Using data file", slog.String("path", dataFile))
	return services.NewDashboardService(services.TableSourceFunc(marketdata.NewLoader(logger, nil).Load), cfg.Data, dataFile, logger, nil), nil
}
