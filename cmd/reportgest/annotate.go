package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/reportgest/internal/glossary"
	"github.com/dgallion1/reportgest/internal/parser"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

func newAnnotateCmd(a *app) *cobra.Command {
	var (
		input        string
		output       string
		glossaryPath string
	)
	cmd := &cobra.Command{
		Use:   "annotate",
		Short: "Wrap glossary terms in the report page with tooltip markup",
		Long:  `annotate wraps every occurrence of a glossary term inside the page's main region with an abbr tooltip. Terms come from the page's existing tooltips plus an optional YAML glossary file, whose definitions take precedence.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input = orDefault(input, a.cfg.InputPath)
			output = orDefault(output, input)
			glossaryPath = orDefault(glossaryPath, a.cfg.GlossaryPath)

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("parse html: %w", err)
			}

			terms := parser.CollectGlossary(doc)
			if glossaryPath != "" {
				extra, err := glossary.Load(glossaryPath)
				if err != nil {
					return err
				}
				for term, def := range extra {
					terms[term] = def
				}
			}

			count, ok := glossary.AnnotateDocument(doc, terms)
			if !ok {
				return fmt.Errorf("no main content region in %s", input)
			}

			var buf bytes.Buffer
			if err := html.Render(&buf, doc.Nodes[0]); err != nil {
				return fmt.Errorf("render html: %w", err)
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}

			a.log.Info("page annotated", "input", input, "output", output, "terms", len(terms), "wrapped", count)
			_, err = fmt.Fprintf(a.out, "Annotated %d occurrences of %d terms in %s\n", count, len(terms), output)
			return err
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "report HTML page (default $REPORT_INPUT or index.html)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "annotated page path (default: overwrite input)")
	cmd.Flags().StringVarP(&glossaryPath, "glossary", "g", "", "YAML glossary file (default $REPORT_GLOSSARY)")
	return cmd
}
