package parser

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/reportgest/internal/report"
	"golang.org/x/net/html"
)

// Options controls extraction.
type Options struct {
	// TrendsFirst puts each section's trends block ahead of every other
	// block instead of at the position of its first trend item. It exists
	// to reproduce snapshots made by the old regex extractor.
	TrendsFirst bool
}

// ReportParser converts a report HTML page into a report.Document.
type ReportParser struct {
	opts Options
	log  *slog.Logger
}

// New returns a parser. A nil logger discards log output.
func New(opts Options, log *slog.Logger) *ReportParser {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &ReportParser{opts: opts, log: log}
}

// Parse reads a full HTML document and extracts the report from it.
// Diagram text is taken from the source bytes as written.
func (p *ReportParser) Parse(r io.Reader) (*report.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read html: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return p.extract(doc, rawPreSources(doc, src)), nil
}

// Extract builds the report from an already parsed document. Without the
// source bytes, entities in diagram text arrive decoded.
func (p *ReportParser) Extract(doc *goquery.Document) *report.Document {
	return p.extract(doc, nil)
}

func (p *ReportParser) extract(doc *goquery.Document, rawPre map[*html.Node]string) *report.Document {
	x := &extraction{
		opts:   p.opts,
		order:  documentOrder(doc),
		rawPre: rawPre,
	}

	out := &report.Document{
		Chapters: []*report.Chapter{},
		Glossary: CollectGlossary(doc),
	}

	main := MainRegion(doc)
	if main.Length() == 0 {
		p.log.Warn("no main content region found")
		return out
	}

	seen := make(map[string]bool)
	for _, span := range chapterSpans(main) {
		if seen[span.id] {
			p.log.Warn("skipping duplicate chapter id", "chapter", span.id)
			continue
		}
		seen[span.id] = true

		ch := x.chapter(span)
		p.log.Debug("chapter extracted",
			"chapter", ch.ID,
			"title", ch.Title,
			"sections", len(ch.Sections),
		)
		out.Chapters = append(out.Chapters, ch)
	}
	return out
}

// extraction carries the per-document state shared by the classifiers.
type extraction struct {
	opts   Options
	order  map[*html.Node]int
	rawPre map[*html.Node]string
}

// positioned is a block tagged with the document order of its source element.
type positioned struct {
	pos   int
	block report.Block
}

func (x *extraction) pos(s *goquery.Selection) int {
	if s.Length() == 0 {
		return 0
	}
	return x.order[s.Nodes[0]]
}

func (x *extraction) chapter(span chapterSpan) *report.Chapter {
	ch := &report.Chapter{
		ID:       span.id,
		Title:    chapterTitle(span),
		Sections: []*report.Section{},
	}

	for _, sec := range sectionSpans(span.sel) {
		var found []positioned
		found = append(found, x.tables(sec.sel)...)
		found = append(found, x.stats(sec.sel)...)
		found = append(found, x.cards(sec.sel)...)
		found = append(found, x.notes(sec.sel)...)
		found = append(found, x.diagrams(sec.sel)...)
		found = append(found, x.trends(sec.sel)...)

		ch.Sections = append(ch.Sections, &report.Section{
			Title:   sectionTitle(sec.marker),
			Content: assemble(found),
		})
	}

	// Chapters without section markers keep their tables, trends and stats
	// in one section named after the chapter.
	if len(ch.Sections) == 0 {
		var found []positioned
		found = append(found, x.tables(span.sel)...)
		found = append(found, x.trends(span.sel)...)
		found = append(found, x.stats(span.sel)...)
		if len(found) > 0 {
			ch.Sections = append(ch.Sections, &report.Section{
				Title:   ch.Title,
				Content: assemble(found),
			})
		}
	}
	return ch
}

// assemble orders blocks by source position. It is the only place block
// order is decided.
func assemble(found []positioned) []report.Block {
	sort.SliceStable(found, func(i, j int) bool { return found[i].pos < found[j].pos })
	blocks := make([]report.Block, 0, len(found))
	for _, f := range found {
		blocks = append(blocks, f.block)
	}
	return blocks
}

// documentOrder numbers every node in pre-order.
func documentOrder(doc *goquery.Document) map[*html.Node]int {
	order := make(map[*html.Node]int)
	next := 0
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		order[n] = next
		next++
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}
	return order
}
