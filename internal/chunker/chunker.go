package chunker

import (
	"fmt"
	"strings"

	"github.com/dgallion1/reportgest/internal/report"
)

// Chunk is a retrieval-sized piece of report text with its position in the
// chapter/section hierarchy.
type Chunk struct {
	Text       string   `json:"text"`
	Index      int      `json:"index"`
	Breadcrumb []string `json:"breadcrumb"`
	ChapterID  string   `json:"chapter_id"`
}

// Config controls chunking behavior.
type Config struct {
	ChunkSize    int // Target chunk size in tokens.
	ChunkOverlap int // Overlap between consecutive chunks in tokens.
	MinChunk     int // Minimum chunk size to emit.
}

// DefaultConfig returns defaults sized for report sections, which are much
// shorter than whole documents.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    500,
		ChunkOverlap: 50,
		MinChunk:     5,
	}
}

// ChunkReport flattens each section into text and splits it into chunks.
// Every chunk carries the breadcrumb [chapter title, section title]; the
// section title is left out when empty.
func ChunkReport(doc *report.Document, cfg Config) []Chunk {
	def := DefaultConfig()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = def.ChunkSize
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = def.ChunkOverlap
	}
	if cfg.MinChunk <= 0 {
		cfg.MinChunk = def.MinChunk
	}

	var chunks []Chunk
	for _, ch := range doc.Chapters {
		for _, sec := range ch.Sections {
			bc := []string{ch.Title}
			if sec.Title != "" {
				bc = append(bc, sec.Title)
			}
			text := SectionText(sec)
			if text == "" {
				continue
			}

			parts := []string{text}
			if EstimateTokens(text) > cfg.ChunkSize {
				parts = splitText(text, cfg.ChunkSize, cfg.ChunkOverlap)
			}
			for _, part := range parts {
				if EstimateTokens(part) < cfg.MinChunk {
					continue
				}
				chunks = append(chunks, Chunk{
					Text:       part,
					Index:      len(chunks),
					Breadcrumb: copyBreadcrumb(bc),
					ChapterID:  ch.ID,
				})
			}
		}
	}
	return chunks
}

// SectionText renders a section's blocks as plain-text paragraphs separated
// by blank lines. Glossary markers are dropped.
func SectionText(sec *report.Section) string {
	var paras []string
	for _, b := range sec.Content {
		if p := blockText(b); p != "" {
			paras = append(paras, report.StripMarkers(p))
		}
	}
	return strings.Join(paras, "\n\n")
}

func blockText(b report.Block) string {
	var lines []string
	switch b := b.(type) {
	case *report.Table:
		if b.Subtitle != nil {
			lines = append(lines, *b.Subtitle)
		}
		if len(b.Headers) > 0 {
			lines = append(lines, strings.Join(b.Headers, " | "))
		}
		for _, row := range b.Rows {
			lines = append(lines, strings.Join(row, " | "))
		}
	case *report.Stats:
		for _, it := range b.Items {
			lines = append(lines, it.Label+": "+it.Value)
		}
	case *report.Cards:
		for _, it := range b.Items {
			lines = append(lines, it.Title+": "+it.Text)
		}
	case *report.Trends:
		for _, it := range b.Items {
			lines = append(lines, fmt.Sprintf("%d. %s: %s", it.Num, it.Title, it.Description))
		}
	case *report.Note:
		lines = append(lines, b.Text)
	case *report.Diagram:
		lines = append(lines, b.Text)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// splitText breaks text into chunks of approximately targetTokens, with overlap.
func splitText(text string, targetTokens, overlapTokens int) []string {
	paragraphs := splitByParagraphs(text)

	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, para := range paragraphs {
		paraTokens := EstimateTokens(para)

		// An oversized paragraph is split on sentences on its own.
		if paraTokens > targetTokens {
			if currentTokens > 0 {
				result = append(result, current.String())
				current.Reset()
				currentTokens = 0
			}
			result = append(result, splitBySentences(para, targetTokens, overlapTokens)...)
			continue
		}

		if currentTokens+paraTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())

			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
		currentTokens += paraTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}
	return result
}

func splitByParagraphs(text string) []string {
	var result []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences breaks a large paragraph into sentence-based chunks.
func splitBySentences(text string, targetTokens, overlapTokens int) []string {
	var result []string
	var current strings.Builder
	currentTokens := 0

	for _, sent := range splitSentences(text) {
		sentTokens := EstimateTokens(sent)

		if currentTokens+sentTokens > targetTokens && currentTokens > 0 {
			result = append(result, current.String())
			overlap := getOverlapText(current.String(), overlapTokens)
			current.Reset()
			currentTokens = 0
			if overlap != "" {
				current.WriteString(overlap)
				currentTokens = EstimateTokens(overlap)
			}
		}

		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
		currentTokens += sentTokens
	}

	if currentTokens > 0 {
		result = append(result, current.String())
	}
	return result
}

// splitSentences ends a sentence at ". ", "! ", "? ", a line break, or a
// CJK full stop, exclamation or question mark.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)
		switch r {
		case '。', '！', '？', '\n':
			flush()
		case '.', '!', '?':
			if i+1 < len(text) && text[i+1] == ' ' {
				flush()
			}
		}
	}
	flush()
	return sentences
}

// getOverlapText extracts the last N tokens worth of words for overlap.
func getOverlapText(text string, targetTokens int) string {
	words := strings.Fields(text)
	targetWords := int(float64(targetTokens) / 1.33)
	if targetWords <= 0 || len(words) <= targetWords {
		return ""
	}
	return strings.Join(words[len(words)-targetWords:], " ")
}

func copyBreadcrumb(bc []string) []string {
	if len(bc) == 0 {
		return nil
	}
	out := make([]string, len(bc))
	copy(out, bc)
	return out
}
