package glossary

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/reportgest/internal/parser"
	"github.com/dgallion1/reportgest/internal/report"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AnnotateDocument wraps glossary terms found in the text of the page's main
// region, in place. Text already inside abbr, code, pre, script or style is
// left alone. It returns the number of terms wrapped and whether a main
// region was found.
func AnnotateDocument(doc *goquery.Document, g report.Glossary) (int, bool) {
	main := parser.MainRegion(doc)
	if main.Length() == 0 {
		return 0, false
	}
	m := NewMatcher(g)

	var texts []*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.ElementNode && skipSubtree(n.DataAtom) {
			return
		}
		if n.Type == html.TextNode {
			texts = append(texts, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(main.Nodes[0])

	count := 0
	for _, n := range texts {
		segs := m.Split(n.Data)
		if len(segs) == 1 && !segs[0].Term {
			continue
		}
		parent := n.Parent
		for _, seg := range segs {
			if seg.Term {
				parent.InsertBefore(abbrNode(seg.Text, m.Definition(seg.Text)), n)
				count++
				continue
			}
			parent.InsertBefore(&html.Node{Type: html.TextNode, Data: seg.Text}, n)
		}
		parent.RemoveChild(n)
	}
	return count, true
}

func skipSubtree(a atom.Atom) bool {
	switch a {
	case atom.Abbr, atom.Code, atom.Pre, atom.Script, atom.Style:
		return true
	}
	return false
}

func abbrNode(term, definition string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     "abbr",
		DataAtom: atom.Abbr,
		Attr: []html.Attribute{
			{Key: "title", Val: definition},
			{Key: "class", Val: "glossary-term"},
		},
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: term})
	return n
}
