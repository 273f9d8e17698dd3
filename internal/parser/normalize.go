package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/reportgest/internal/report"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

// Normalize turns a markup fragment into plain text. Glossary terms become
// ⟦term⟧, superscripts are prefixed with ^, line breaks become spaces,
// every other tag is dropped and whitespace is collapsed. Applying it to its
// own output returns the output unchanged, except when decoded entities spell
// out markup: "a&lt;b&gt;c" becomes "a<b>c", which a second pass reads as a
// tag and reduces to "ac".
func Normalize(fragment string) string {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), bodyContext)
	if err != nil {
		return collapseSpace(fragment)
	}
	return normalizeNodes(nodes)
}

// Text normalizes the children of every node in s.
func Text(s *goquery.Selection) string {
	var nodes []*html.Node
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			nodes = append(nodes, c)
		}
	}
	return normalizeNodes(nodes)
}

func normalizeNodes(nodes []*html.Node) string {
	var buf strings.Builder
	for _, n := range nodes {
		writeText(&buf, n)
	}
	return collapseSpace(buf.String())
}

func writeText(buf *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style:
		return
	case atom.Br:
		buf.WriteByte(' ')
		return
	case atom.Abbr:
		if hasClass(n, "glossary-term") {
			if term := collapseSpace(textContent(n)); term != "" {
				buf.WriteString(report.MarkerOpen + term + report.MarkerClose)
			}
			return
		}
	case atom.Sup:
		buf.WriteByte('^')
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(buf, c)
	}
	if isBlock(n.DataAtom) {
		buf.WriteByte(' ')
	}
}

// isBlock reports whether adjacent elements of this kind need a separator
// so their texts do not run together.
func isBlock(a atom.Atom) bool {
	switch a {
	case atom.P, atom.Div, atom.Li, atom.Td, atom.Th, atom.Tr,
		atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return buf.String()
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
