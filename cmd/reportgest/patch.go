package main

import (
	"fmt"

	"github.com/dgallion1/reportgest/internal/report"
	"github.com/spf13/cobra"
)

func newPatchCmd(a *app) *cobra.Command {
	var (
		reportPath string
		patchPath  string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "patch",
		Short: "Replace or extend table rows of a snapshot from a YAML patch file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reportPath = orDefault(reportPath, a.cfg.OutputPath)
			output = orDefault(output, reportPath)

			doc, err := report.Load(reportPath)
			if err != nil {
				return err
			}
			patches, err := report.LoadPatches(patchPath)
			if err != nil {
				return err
			}
			patched, err := report.ApplyPatches(doc, patches)
			if err != nil {
				return err
			}
			logProblems(a, patched)
			if err := report.Save(output, patched); err != nil {
				return err
			}

			a.log.Info("report patched", "report", reportPath, "patches", len(patches), "output", output)
			_, err = fmt.Fprintf(a.out, "Applied %d patches to %s\n", len(patches), output)
			return err
		},
	}
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "JSON snapshot (default $REPORT_OUTPUT or src/data/report.json)")
	cmd.Flags().StringVarP(&patchPath, "patch", "p", "", "YAML patch file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "patched snapshot path (default: overwrite report)")
	cmd.MarkFlagRequired("patch")
	return cmd
}
