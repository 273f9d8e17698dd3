package main

import (
	"fmt"

	"github.com/dgallion1/reportgest/internal/report"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	var reportPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a snapshot for structural problems",
		Long:  `validate lists tables with ragged rows, duplicate chapter ids, unknown stat colors, repeated trend numbers and empty blocks. It fails when any problem is found.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := report.Load(orDefault(reportPath, a.cfg.OutputPath))
			if err != nil {
				return err
			}
			problems := report.Validate(doc)
			for _, p := range problems {
				fmt.Fprintln(a.out, p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d problems found", len(problems))
			}
			_, err = fmt.Fprintln(a.out, "No problems found")
			return err
		},
	}
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "JSON snapshot (default $REPORT_OUTPUT or src/data/report.json)")
	return cmd
}

// logProblems logs every structural problem of doc as a warning.
func logProblems(a *app, doc *report.Document) {
	for _, p := range report.Validate(doc) {
		a.log.Warn("report problem",
			"chapter", p.Chapter,
			"section", p.Section,
			"block", p.Block,
			"problem", p.Message,
		)
	}
}
