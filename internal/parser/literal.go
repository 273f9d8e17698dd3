package parser

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// rawPreSources pairs every pre element of doc with its inner markup exactly
// as written in src. It returns nil when the tokenizer and the tree disagree
// on the number of pre elements, as they can for malformed pages.
func rawPreSources(doc *goquery.Document, src []byte) map[*html.Node]string {
	raw := rawPreContents(src)
	pres := doc.Find("pre").Nodes
	if len(raw) != len(pres) {
		return nil
	}
	out := make(map[*html.Node]string, len(pres))
	for i, n := range pres {
		out[n] = raw[i]
	}
	return out
}

// rawPreContents returns the source between each top-level <pre> and its
// closing tag, in document order.
func rawPreContents(src []byte) []string {
	var out []string
	var buf strings.Builder
	depth := 0

	z := html.NewTokenizer(bytes.NewReader(src))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return out
		}
		// TagName lowercases the token buffer, so take the raw bytes first.
		raw := string(z.Raw())
		isPre := false
		if tt == html.StartTagToken || tt == html.EndTagToken {
			name, _ := z.TagName()
			isPre = string(name) == "pre"
		}

		switch {
		case depth == 0:
			if isPre && tt == html.StartTagToken {
				depth = 1
			}
			continue
		case isPre && tt == html.StartTagToken:
			depth++
		case isPre && tt == html.EndTagToken:
			depth--
			if depth == 0 {
				out = append(out, buf.String())
				buf.Reset()
				continue
			}
		}
		buf.WriteString(raw)
	}
}

// literalText rebuilds the content of n without escaping text, keeping
// nested tags. It stands in for the raw source when none is available.
func literalText(n *html.Node) string {
	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeLiteral(&buf, c)
	}
	return buf.String()
}

func writeLiteral(buf *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(n.Data)
	case html.CommentNode:
		buf.WriteString("<!--" + n.Data + "-->")
	case html.ElementNode:
		buf.WriteString("<" + n.Data)
		for _, a := range n.Attr {
			buf.WriteString(" " + a.Key + `="` + strings.ReplaceAll(a.Val, `"`, "&#34;") + `"`)
		}
		buf.WriteByte('>')
		if isVoid(n.DataAtom) {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeLiteral(buf, c)
		}
		buf.WriteString("</" + n.Data + ">")
	}
}

func isVoid(a atom.Atom) bool {
	switch a {
	case atom.Br, atom.Hr, atom.Img, atom.Wbr, atom.Input:
		return true
	}
	return false
}
