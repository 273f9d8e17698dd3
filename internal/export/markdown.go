package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/dgallion1/reportgest/internal/report"
	"golang.org/x/net/html"
)

// Markdown writes doc as GitHub-flavored Markdown: chapters as level-1
// headings, sections as level-2, table subtitles as level-3. Glossary
// markers are dropped and the glossary is appended as a final section.
func Markdown(w io.Writer, doc *report.Document) error {
	var b strings.Builder
	for _, ch := range doc.Chapters {
		fmt.Fprintf(&b, "# %s\n\n", inline(ch.Title))
		for _, sec := range ch.Sections {
			// The synthetic section of a chapter without sections repeats
			// the chapter title.
			if sec.Title != "" && sec.Title != ch.Title {
				fmt.Fprintf(&b, "## %s\n\n", inline(sec.Title))
			}
			for _, blk := range sec.Content {
				writeBlock(&b, blk)
			}
		}
	}
	writeGlossary(&b, doc.Glossary)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBlock(b *strings.Builder, blk report.Block) {
	switch blk := blk.(type) {
	case *report.Table:
		writeTable(b, blk)
	case *report.Stats:
		for _, it := range blk.Items {
			fmt.Fprintf(b, "- **%s** %s\n", inline(it.Value), inline(it.Label))
		}
		b.WriteString("\n")
	case *report.Cards:
		for _, it := range blk.Items {
			fmt.Fprintf(b, "- **%s**: %s\n", inline(it.Title), inline(it.Text))
		}
		b.WriteString("\n")
	case *report.Note:
		fmt.Fprintf(b, "> %s\n\n", inline(blk.Text))
	case *report.Diagram:
		fmt.Fprintf(b, "```text\n%s\n```\n\n", DiagramText(blk.Text))
	case *report.Trends:
		for _, it := range blk.Items {
			fmt.Fprintf(b, "%d. **%s**: %s\n", it.Num, inline(it.Title), inline(it.Description))
		}
		b.WriteString("\n")
	}
}

func writeTable(b *strings.Builder, t *report.Table) {
	cols := len(t.Headers)
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return
	}
	if t.Subtitle != nil {
		fmt.Fprintf(b, "### %s\n\n", inline(*t.Subtitle))
	}

	writeRow := func(cells []string) {
		b.WriteString("|")
		for i := range cols {
			cell := ""
			if i < len(cells) {
				cell = cellText(cells[i])
			}
			fmt.Fprintf(b, " %s |", cell)
		}
		b.WriteString("\n")
	}

	// GFM needs a header row; a headerless table gets an empty one.
	writeRow(t.Headers)
	b.WriteString("|")
	for range cols {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range t.Rows {
		writeRow(row)
	}
	b.WriteString("\n")
}

func writeGlossary(b *strings.Builder, g report.Glossary) {
	if len(g) == 0 {
		return
	}
	terms := make([]string, 0, len(g))
	for term := range g {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	b.WriteString("# Glossary\n\n")
	for _, term := range terms {
		fmt.Fprintf(b, "- **%s**: %s\n", inline(term), inline(g[term]))
	}
	b.WriteString("\n")
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"<", `\<`,
	"[", `\[`,
)

// inline escapes Markdown syntax in normalized text and removes glossary
// markers.
func inline(s string) string {
	return mdEscaper.Replace(report.StripMarkers(s))
}

func cellText(s string) string {
	return strings.ReplaceAll(inline(s), "|", `\|`)
}

// DiagramText turns the literal markup kept in a diagram block into plain
// text: tags are dropped and entities decoded. Line breaks and indentation
// are kept.
func DiagramText(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Trim(b.String(), "\n")
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
