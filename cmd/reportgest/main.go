package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dgallion1/reportgest/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

// app holds what every subcommand shares once flags and env are resolved.
type app struct {
	cfg config.Config
	log *slog.Logger
	out io.Writer
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{out: stdout}

	root := &cobra.Command{
		Use:           "reportgest",
		Short:         "Extract structured data from a report HTML page",
		Long:          `reportgest turns the chapters, sections, tables, stats, cards, notes, diagrams, trends and glossary of a report page into a JSON snapshot, and serves or exports that snapshot.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.cfg = config.Load()
			if err := a.cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			a.log = newLogger(a.cfg, stderr)
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newExtractCmd(a),
		newAnnotateCmd(a),
		newPatchCmd(a),
		newExportCmd(a),
		newSummaryCmd(a),
		newValidateCmd(a),
		newServeCmd(a),
	)
	return root
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// orDefault returns the flag value when set, else the configured value.
func orDefault(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}
