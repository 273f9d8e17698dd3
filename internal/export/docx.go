package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dgallion1/reportgest/internal/report"
	"github.com/fumiama/go-docx"
)

// Heading sizes in half-points.
const (
	sizeChapter = "36"
	sizeSection = "28"
	sizeTable   = "24"
)

// DOCX writes doc as a Word document. Headings carry the Heading1-3 styles
// so outline views work; tables become real Word tables.
func DOCX(w io.Writer, doc *report.Document) error {
	f := docx.New().WithDefaultTheme()

	for _, ch := range doc.Chapters {
		heading(f, "Heading1", sizeChapter, ch.Title)
		for _, sec := range ch.Sections {
			if sec.Title != "" && sec.Title != ch.Title {
				heading(f, "Heading2", sizeSection, sec.Title)
			}
			for _, blk := range sec.Content {
				docxBlock(f, blk)
			}
		}
	}

	if len(doc.Glossary) > 0 {
		heading(f, "Heading1", sizeChapter, "Glossary")
		terms := make([]string, 0, len(doc.Glossary))
		for term := range doc.Glossary {
			terms = append(terms, term)
		}
		sort.Strings(terms)
		for _, term := range terms {
			p := f.AddParagraph()
			p.AddText(term).Bold()
			p.AddText(": " + doc.Glossary[term])
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func heading(f *docx.Docx, style, size, text string) {
	f.AddParagraph().Style(style).AddText(report.StripMarkers(text)).Bold().Size(size)
}

func docxBlock(f *docx.Docx, blk report.Block) {
	switch blk := blk.(type) {
	case *report.Table:
		docxTable(f, blk)
	case *report.Stats:
		for _, it := range blk.Items {
			p := f.AddParagraph()
			p.AddText(plain(it.Value)).Bold().Color(statHex(it.Color))
			p.AddText("  " + plain(it.Label))
		}
	case *report.Cards:
		for _, it := range blk.Items {
			p := f.AddParagraph()
			p.AddText(plain(it.Title)).Bold()
			p.AddText(": " + plain(it.Text))
		}
	case *report.Note:
		f.AddParagraph().AddText(plain(blk.Text)).Italic()
	case *report.Diagram:
		f.AddParagraph().AddText(DiagramText(blk.Text)).Font("Consolas", "Consolas", "Consolas", "")
	case *report.Trends:
		for _, it := range blk.Items {
			p := f.AddParagraph()
			p.AddText(fmt.Sprintf("%d. %s", it.Num, plain(it.Title))).Bold()
			p.AddText(": " + plain(it.Description))
		}
	}
}

func docxTable(f *docx.Docx, t *report.Table) {
	cols := len(t.Headers)
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return
	}
	if t.Subtitle != nil {
		heading(f, "Heading3", sizeTable, *t.Subtitle)
	}

	rows := make([][]string, 0, len(t.Rows)+1)
	if len(t.Headers) > 0 {
		rows = append(rows, t.Headers)
	}
	rows = append(rows, t.Rows...)

	tbl := f.AddTable(len(rows), cols, 0, nil)
	for i, row := range rows {
		for j := range cols {
			text := ""
			if j < len(row) {
				text = plain(row[j])
			}
			r := tbl.TableRows[i].TableCells[j].AddParagraph().AddText(text)
			if i == 0 && len(t.Headers) > 0 {
				r.Bold()
			}
		}
	}
}

func plain(s string) string {
	return strings.TrimSpace(report.StripMarkers(s))
}

func statHex(c report.Color) string {
	switch c {
	case report.ColorGreen:
		return "2E7D32"
	case report.ColorBlue:
		return "1565C0"
	case report.ColorOrange:
		return "EF6C00"
	case report.ColorPink:
		return "AD1457"
	}
	return "6A1B9A"
}
