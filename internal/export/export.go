// Package export renders an extracted report into reading and retrieval
// formats.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/reportgest/internal/chunker"
	"github.com/dgallion1/reportgest/internal/report"
)

// Format names an output format.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
	FormatDOCX     Format = "docx"
	FormatChunks   Format = "chunks"
)

// Formats lists the supported formats.
var Formats = []Format{FormatMarkdown, FormatHTML, FormatDOCX, FormatChunks}

// ParseFormat accepts a format name, case-insensitively. "md" is an alias
// for markdown and "jsonl" for chunks.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "md":
		return FormatMarkdown, nil
	case "jsonl":
		return FormatChunks, nil
	case FormatMarkdown, FormatHTML, FormatDOCX, FormatChunks:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Extension returns the usual file extension for f, with the leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatMarkdown:
		return ".md"
	case FormatHTML:
		return ".html"
	case FormatDOCX:
		return ".docx"
	case FormatChunks:
		return ".jsonl"
	}
	return ""
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatChunks:
		return "application/x-ndjson"
	}
	return "application/octet-stream"
}

// Write renders doc to w in format f.
func Write(w io.Writer, doc *report.Document, f Format) error {
	switch f {
	case FormatMarkdown:
		return Markdown(w, doc)
	case FormatHTML:
		return HTML(w, doc)
	case FormatDOCX:
		return DOCX(w, doc)
	case FormatChunks:
		return Chunks(w, doc, chunker.DefaultConfig())
	}
	return fmt.Errorf("unknown export format %q", f)
}
