package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MainRegion returns the report's main content element: the first
// main.container, else the first main. The selection is empty when the
// page has neither.
func MainRegion(doc *goquery.Document) *goquery.Selection {
	if m := doc.Find("main.container").First(); m.Length() > 0 {
		return m
	}
	return doc.Find("main").First()
}

type chapterSpan struct {
	id  string
	sel *goquery.Selection
}

// chapterSpans returns the outermost div.chapter[id] elements of main in
// document order.
func chapterSpans(main *goquery.Selection) []chapterSpan {
	var spans []chapterSpan
	main.Find("div.chapter[id]").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsUntilSelection(main).Filter("div.chapter").Length() > 0 {
			return
		}
		id, _ := s.Attr("id")
		id = strings.TrimSpace(id)
		if id == "" {
			return
		}
		spans = append(spans, chapterSpan{id: id, sel: s})
	})
	return spans
}

// chapterTitle is the text after the numeric badge of the chapter's h2,
// or the chapter id when either is missing.
func chapterTitle(span chapterSpan) string {
	badge := span.sel.Find("h2").First().Find("span.chapter-num").First()
	if badge.Length() == 0 {
		return span.id
	}
	var rest []*html.Node
	for n := badge.Nodes[0].NextSibling; n != nil; n = n.NextSibling {
		rest = append(rest, n)
	}
	if title := normalizeNodes(rest); title != "" {
		return title
	}
	return span.id
}

// sectionSpan is a section marker and sel, the marker plus every element
// after it up to the next section marker or the end of the chapter.
type sectionSpan struct {
	marker *goquery.Selection
	sel    *goquery.Selection
}

// sectionSpans returns the outermost div.section elements of a chapter,
// each extended over the content that follows it.
func sectionSpans(chapter *goquery.Selection) []sectionSpan {
	var spans []sectionSpan
	chapter.Find("div.section").Each(func(_ int, s *goquery.Selection) {
		if s.ParentsUntilSelection(chapter).Filter("div.section").Length() > 0 {
			return
		}
		nodes := sectionExtent(s.Nodes[0], chapter.Nodes[0])
		spans = append(spans, sectionSpan{
			marker: s,
			sel:    s.Slice(0, 0).AddNodes(nodes...),
		})
	})
	return spans
}

// sectionExtent collects marker and the elements that follow it in document
// order, climbing out of wrappers up to chapter, and stops at the next
// section marker.
func sectionExtent(marker, chapter *html.Node) []*html.Node {
	nodes := []*html.Node{marker}
	for n := marker; n != nil && n != chapter; n = n.Parent {
		for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
			if collectUntilSection(sib, &nodes) {
				return nodes
			}
		}
	}
	return nodes
}

// collectUntilSection appends n, or the part of it before the first section
// marker it contains, and reports whether a marker was reached.
func collectUntilSection(n *html.Node, nodes *[]*html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if isSectionMarker(n) {
		return true
	}
	if !containsSectionMarker(n) {
		*nodes = append(*nodes, n)
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if collectUntilSection(c, nodes) {
			return true
		}
	}
	return false
}

func isSectionMarker(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Div && hasClass(n, "section")
}

func containsSectionMarker(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isSectionMarker(c) || containsSectionMarker(c) {
			return true
		}
	}
	return false
}

// findAll matches selector against the nodes of span and their descendants,
// in document order.
func findAll(span *goquery.Selection, selector string) *goquery.Selection {
	var nodes []*html.Node
	span.Each(func(_ int, s *goquery.Selection) {
		nodes = append(nodes, s.Filter(selector).Nodes...)
		nodes = append(nodes, s.Find(selector).Nodes...)
	})
	return span.Slice(0, 0).AddNodes(nodes...)
}

func sectionTitle(sec *goquery.Selection) string {
	h3 := sec.Find("h3").First()
	if h3.Length() == 0 {
		return ""
	}
	return Text(h3)
}
