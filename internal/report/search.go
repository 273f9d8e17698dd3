package report

import (
	"strings"
)

// Hit is one block matching a search.
type Hit struct {
	ChapterID    string `json:"chapter_id"`
	ChapterTitle string `json:"chapter_title"`
	SectionTitle string `json:"section_title"`
	Index        int    `json:"index"` // position of the block in its section
	Block        Block  `json:"block"`
}

// SearchableText flattens every user-visible string of a block into one
// space-separated string.
func SearchableText(b Block) string {
	var texts []string
	switch b := b.(type) {
	case *Table:
		if b.Subtitle != nil {
			texts = append(texts, *b.Subtitle)
		}
		texts = append(texts, b.Headers...)
		for _, row := range b.Rows {
			texts = append(texts, row...)
		}
	case *Stats:
		for _, it := range b.Items {
			texts = append(texts, it.Value, it.Label)
		}
	case *Trends:
		for _, it := range b.Items {
			texts = append(texts, it.Title, it.Description)
		}
	case *Cards:
		for _, it := range b.Items {
			texts = append(texts, it.Title, it.Text)
		}
	case *Note:
		texts = append(texts, b.Text)
	case *Diagram:
		texts = append(texts, b.Text)
	}
	return strings.Join(texts, " ")
}

// Search returns the blocks whose text contains query, case-insensitively.
// An empty typ matches every block type. Glossary markers are ignored when
// matching, so "GPQA" finds "⟦GPQA⟧".
func Search(doc *Document, query string, typ BlockType) []Hit {
	q := strings.ToLower(strings.TrimSpace(query))
	var hits []Hit
	for _, ch := range doc.Chapters {
		for _, sec := range ch.Sections {
			for i, b := range sec.Content {
				if typ != "" && b.Type() != typ {
					continue
				}
				text := strings.ToLower(StripMarkers(SearchableText(b)))
				if q != "" && !strings.Contains(text, q) {
					continue
				}
				hits = append(hits, Hit{
					ChapterID:    ch.ID,
					ChapterTitle: ch.Title,
					SectionTitle: sec.Title,
					Index:        i,
					Block:        b,
				})
			}
		}
	}
	return hits
}

const (
	MarkerOpen  = "⟦"
	MarkerClose = "⟧"
)

// StripMarkers removes glossary markers, keeping the term text.
func StripMarkers(s string) string {
	return markerReplacer.Replace(s)
}

var markerReplacer = strings.NewReplacer(MarkerOpen, "", MarkerClose, "")

// Terms returns the glossary terms marked in s, in order of appearance.
func Terms(s string) []string {
	var terms []string
	for {
		start := strings.Index(s, MarkerOpen)
		if start < 0 {
			return terms
		}
		rest := s[start+len(MarkerOpen):]
		end := strings.Index(rest, MarkerClose)
		if end < 0 {
			return terms
		}
		if end > 0 {
			terms = append(terms, rest[:end])
		}
		s = rest[end+len(MarkerClose):]
	}
}
