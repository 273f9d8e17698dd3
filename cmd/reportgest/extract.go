package main

import (
	"fmt"
	"os"
	"time"

	"github.com/dgallion1/reportgest/internal/parser"
	"github.com/dgallion1/reportgest/internal/report"
	"github.com/spf13/cobra"
)

func newExtractCmd(a *app) *cobra.Command {
	var (
		input       string
		output      string
		trendsFirst bool
		quiet       bool
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract the report page into a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input = orDefault(input, a.cfg.InputPath)
			output = orDefault(output, a.cfg.OutputPath)
			if !cmd.Flags().Changed("trends-first") {
				trendsFirst = a.cfg.TrendsFirst
			}

			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("open input: %w", err)
			}
			defer f.Close()

			start := time.Now()
			doc, err := parser.New(parser.Options{TrendsFirst: trendsFirst}, a.log).Parse(f)
			if err != nil {
				return err
			}
			if err := report.Save(output, doc); err != nil {
				return err
			}
			logProblems(a, doc)
			a.log.Info("report written",
				"input", input,
				"output", output,
				"chapters", len(doc.Chapters),
				"duration_ms", time.Since(start).Milliseconds(),
			)

			if quiet {
				return nil
			}
			if err := report.WriteSummary(a.out, doc); err != nil {
				return err
			}
			_, err = fmt.Fprintf(a.out, "\nWritten to %s\n", output)
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "report HTML page (default $REPORT_INPUT or index.html)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "JSON snapshot path (default $REPORT_OUTPUT or src/data/report.json)")
	cmd.Flags().BoolVar(&trendsFirst, "trends-first", false, "place each section's trends block first, as older snapshots did")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print the summary")
	return cmd
}
