package report

import (
	"fmt"
	"slices"
	"strings"
)

// Problem is a structural issue found in a document. Problems never stop an
// extraction; they flag pages whose markup drifted from the expected shape.
type Problem struct {
	Chapter string `json:"chapter"`
	Section string `json:"section,omitempty"`
	Block   int    `json:"block"` // -1 when the problem is not about a block
	Message string `json:"message"`
}

func (p Problem) String() string {
	loc := p.Chapter
	if p.Section != "" {
		loc += "/" + p.Section
	}
	if p.Block >= 0 {
		loc += fmt.Sprintf("[%d]", p.Block)
	}
	return loc + ": " + p.Message
}

// Validate reports structural problems in doc: duplicate or empty chapter
// ids, tables whose rows do not match the header width, unknown stat colors,
// unnumbered or repeated trends and empty text blocks.
func Validate(doc *Document) []Problem {
	var problems []Problem
	seen := make(map[string]bool)

	for _, ch := range doc.Chapters {
		add := func(section string, block int, format string, args ...any) {
			problems = append(problems, Problem{
				Chapter: ch.ID,
				Section: section,
				Block:   block,
				Message: fmt.Sprintf(format, args...),
			})
		}

		switch {
		case strings.TrimSpace(ch.ID) == "":
			add("", -1, "empty chapter id")
		case seen[ch.ID]:
			add("", -1, "duplicate chapter id")
		}
		seen[ch.ID] = true
		if strings.TrimSpace(ch.Title) == "" {
			add("", -1, "empty chapter title")
		}

		for _, sec := range ch.Sections {
			if len(sec.Content) == 0 {
				add(sec.Title, -1, "section has no content")
			}
			for i, b := range sec.Content {
				for _, msg := range blockProblems(b) {
					add(sec.Title, i, "%s", msg)
				}
			}
		}
	}
	return problems
}

func blockProblems(b Block) []string {
	var out []string
	switch b := b.(type) {
	case *Table:
		if len(b.Rows) == 0 {
			out = append(out, "table has no rows")
		}
		if len(b.Headers) > 0 {
			for i, row := range b.Rows {
				if len(row) != len(b.Headers) {
					out = append(out, fmt.Sprintf("row %d has %d cells, header has %d", i, len(row), len(b.Headers)))
				}
			}
		}
	case *Stats:
		for i, it := range b.Items {
			if it.Color != ColorAccent && !slices.Contains(StatColors, it.Color) {
				out = append(out, fmt.Sprintf("stat %d has unknown color %q", i, it.Color))
			}
			if it.Value == "" {
				out = append(out, fmt.Sprintf("stat %d has no value", i))
			}
		}
	case *Trends:
		nums := make(map[int]bool)
		for i, it := range b.Items {
			if it.Num <= 0 {
				out = append(out, fmt.Sprintf("trend %d has number %d", i, it.Num))
			}
			if nums[it.Num] {
				out = append(out, fmt.Sprintf("trend number %d repeated", it.Num))
			}
			nums[it.Num] = true
		}
	case *Note:
		if strings.TrimSpace(b.Text) == "" {
			out = append(out, "empty note")
		}
	case *Diagram:
		if strings.TrimSpace(b.Text) == "" {
			out = append(out, "empty diagram")
		}
	}
	return out
}
