package export

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/dgallion1/reportgest/internal/report"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>
`

// HTML writes doc as a standalone HTML page rendered from its Markdown.
func HTML(w io.Writer, doc *report.Document) error {
	var src bytes.Buffer
	if err := Markdown(&src, doc); err != nil {
		return err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	title := "Report"
	if len(doc.Chapters) > 0 {
		title = report.StripMarkers(doc.Chapters[0].Title)
	}
	_, err := fmt.Fprintf(w, pageTemplate, html.EscapeString(title), body.String())
	return err
}
