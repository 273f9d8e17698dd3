package report

import (
	"errors"
	"strings"
)

// Document is the root of an extracted report. It is built once per
// extraction and treated as read-only afterwards.
type Document struct {
	Chapters []*Chapter `json:"chapters"`
	Glossary Glossary   `json:"glossary"`
}

// Glossary maps a term to its definition.
type Glossary map[string]string

// Chapter is one top-level report chapter.
type Chapter struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Sections []*Section `json:"sections"`
}

// Section is a titled run of content blocks inside a chapter.
type Section struct {
	Title   string  `json:"title"` // may be empty
	Content []Block `json:"content"`
}

// BlockType is the JSON discriminator of a content block.
type BlockType string

const (
	TypeTable   BlockType = "table"
	TypeStats   BlockType = "stats"
	TypeCards   BlockType = "cards"
	TypeNote    BlockType = "note"
	TypeDiagram BlockType = "diagram"
	TypeTrends  BlockType = "trends"
)

// BlockTypes lists every block type in a stable order.
var BlockTypes = []BlockType{TypeTable, TypeStats, TypeCards, TypeNote, TypeDiagram, TypeTrends}

// Block is one structured content shape found in a section.
type Block interface {
	Type() BlockType
}

// Table is a header row plus body rows. Subtitle is the nearest preceding
// subsection heading, nil when there is none.
type Table struct {
	Subtitle *string    `json:"subtitle"`
	Headers  []string   `json:"headers"`
	Rows     [][]string `json:"rows"`
}

// Stats is a grid of headline numbers.
type Stats struct {
	Items []Stat `json:"items"`
}

// Stat is one value/label pair with a display color.
type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color Color  `json:"color"`
}

// Color is the display category of a stat.
type Color string

const (
	ColorAccent Color = "accent"
	ColorGreen  Color = "green"
	ColorBlue   Color = "blue"
	ColorOrange Color = "orange"
	ColorPink   Color = "pink"
)

// StatColors are the recognized color classes in match priority order.
// Anything else falls back to ColorAccent.
var StatColors = []Color{ColorGreen, ColorBlue, ColorOrange, ColorPink}

// Cards is a grid of titled paragraphs.
type Cards struct {
	Items []Card `json:"items"`
}

// Card is one title/body pair.
type Card struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Note is a plain-text callout.
type Note struct {
	Text string `json:"text"`
}

// Diagram is preformatted text.
type Diagram struct {
	Text string `json:"text"`
}

// Trends is a numbered list of trend items.
type Trends struct {
	Items []Trend `json:"items"`
}

// Trend is one numbered trend.
type Trend struct {
	Num         int    `json:"num"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (*Table) Type() BlockType   { return TypeTable }
func (*Stats) Type() BlockType   { return TypeStats }
func (*Cards) Type() BlockType   { return TypeCards }
func (*Note) Type() BlockType    { return TypeNote }
func (*Diagram) Type() BlockType { return TypeDiagram }
func (*Trends) Type() BlockType  { return TypeTrends }

var (
	ErrChapterNotFound = errors.New("chapter not found")
	ErrSectionNotFound = errors.New("section not found")
)

// Chapter returns the chapter with the given id.
func (d *Document) Chapter(id string) (*Chapter, error) {
	for _, ch := range d.Chapters {
		if ch.ID == id {
			return ch, nil
		}
	}
	return nil, ErrChapterNotFound
}

// SectionByPrefix returns the first section whose title starts with prefix.
func (c *Chapter) SectionByPrefix(prefix string) (*Section, error) {
	for _, sec := range c.Sections {
		if strings.HasPrefix(sec.Title, prefix) {
			return sec, nil
		}
	}
	return nil, ErrSectionNotFound
}

// Tables returns the section's table blocks in order.
func (s *Section) Tables() []*Table {
	var out []*Table
	for _, b := range s.Content {
		if t, ok := b.(*Table); ok {
			out = append(out, t)
		}
	}
	return out
}
