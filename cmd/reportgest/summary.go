package main

import (
	"github.com/dgallion1/reportgest/internal/report"
	"github.com/spf13/cobra"
)

func newSummaryCmd(a *app) *cobra.Command {
	var reportPath string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the chapter outline and data point counts of a snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := report.Load(orDefault(reportPath, a.cfg.OutputPath))
			if err != nil {
				return err
			}
			return report.WriteSummary(a.out, doc)
		},
	}
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "JSON snapshot (default $REPORT_OUTPUT or src/data/report.json)")
	return cmd
}
