package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"marketpulse/internal/charts"
	"marketpulse/pkg/contracts/domain"
)

type kpiOutput struct {
	Summary domain.KPISummary `json:"summary"`
	Source  domain.SourceInfo `json:"source"`
}

func newKPIsCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "kpis",
		Short: "Print the four headline KPIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newService(cmd, opts)
			if err != nil {
				return err
			}

			summary, source, err := svc.KPIs(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(kpiOutput{Summary: summary, Source: source})
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, card := range charts.KPICards(summary) {
				fmt.Fprintf(tw, "%s\t%s\n", card.Label, card.Display)
			}
			fmt.Fprintf(tw, "\nrows\t%d\nsource\t%s\n", source.Rows, source.Path)
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
