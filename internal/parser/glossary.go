package parser

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/reportgest/internal/report"
)

// GlossarySelector matches inline glossary annotations.
const GlossarySelector = "abbr.glossary-term[title]"

// CollectGlossary maps every annotated term in doc to its definition.
// Annotations without term text are skipped; a term seen twice keeps the
// later definition.
func CollectGlossary(doc *goquery.Document) report.Glossary {
	g := report.Glossary{}
	doc.Find(GlossarySelector).Each(func(_ int, s *goquery.Selection) {
		term := collapseSpace(s.Text())
		if term == "" {
			return
		}
		def, _ := s.Attr("title")
		g[term] = def
	})
	return g
}
