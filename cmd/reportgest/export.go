package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dgallion1/reportgest/internal/chunker"
	"github.com/dgallion1/reportgest/internal/export"
	"github.com/dgallion1/reportgest/internal/report"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		reportPath string
		formatName string
		output     string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a snapshot as markdown, html, docx or retrieval chunks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reportPath = orDefault(reportPath, a.cfg.OutputPath)
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}
			doc, err := report.Load(reportPath)
			if err != nil {
				return err
			}

			var w io.Writer = a.out
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			} else if format == export.FormatDOCX {
				return fmt.Errorf("docx export needs --output")
			}

			if format == export.FormatChunks {
				cfg := chunker.Config{ChunkSize: a.cfg.ChunkSize, ChunkOverlap: a.cfg.ChunkOverlap}
				err = export.Chunks(w, doc, cfg)
			} else {
				err = export.Write(w, doc, format)
			}
			if err != nil {
				return err
			}
			a.log.Info("report exported", "report", reportPath, "format", format, "output", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&reportPath, "report", "r", "", "JSON snapshot (default $REPORT_OUTPUT or src/data/report.json)")
	cmd.Flags().StringVarP(&formatName, "format", "f", string(export.FormatMarkdown), "markdown, html, docx or chunks")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
