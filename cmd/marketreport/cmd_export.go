package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"marketpulse/internal/config"
	"marketpulse/internal/exporter"
)

func newExportCmd(opts *options) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write timeseries.csv and dashboard.xlsx",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := filepath.Abs(outDir)
			if err != nil {
				return fmt.Errorf("resolve output directory: %w", err)
			}

			svc, err := newService(cmd, opts)
			if err != nil {
				return err
			}

			written, err := svc.Export(cmd.Context(), exporter.NewCSVWriter(&config.Paths{ExportsDir: dir}))
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
