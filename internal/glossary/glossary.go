package glossary

import (
	"fmt"
	"html"
	"os"
	"sort"
	"strings"

	"github.com/dgallion1/reportgest/internal/report"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML mapping of term to definition.
func Load(path string) (report.Glossary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary: %w", err)
	}
	g := report.Glossary{}
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse glossary: %w", err)
	}
	for term := range g {
		if strings.TrimSpace(term) == "" {
			delete(g, term)
		}
	}
	return g, nil
}

// Segment is a run of text; Term is set when the run is a glossary term.
type Segment struct {
	Text string
	Term bool
}

// Matcher finds glossary terms in text. Longer terms win over shorter ones
// starting at the same position, so "GPT-5 Pro" is never split into "GPT-5".
type Matcher struct {
	g     report.Glossary
	terms []string
}

// NewMatcher orders the glossary terms longest first, ties broken
// lexicographically.
func NewMatcher(g report.Glossary) *Matcher {
	terms := make([]string, 0, len(g))
	for term := range g {
		if term != "" {
			terms = append(terms, term)
		}
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})
	return &Matcher{g: g, terms: terms}
}

// Definition returns the definition of term.
func (m *Matcher) Definition(term string) string {
	return m.g[term]
}

// Split cuts text into plain and term segments. A term only matches when the
// characters on both sides of it are not ASCII letters, digits or
// underscores; CJK neighbours count as boundaries.
func (m *Matcher) Split(text string) []Segment {
	if len(m.terms) == 0 || text == "" {
		return []Segment{{Text: text}}
	}

	var segs []Segment
	plainStart := 0
	i := 0
	for i < len(text) {
		term := m.matchAt(text, i)
		if term == "" {
			i++
			continue
		}
		if plainStart < i {
			segs = append(segs, Segment{Text: text[plainStart:i]})
		}
		segs = append(segs, Segment{Text: term, Term: true})
		i += len(term)
		plainStart = i
	}
	if plainStart < len(text) {
		segs = append(segs, Segment{Text: text[plainStart:]})
	}
	return segs
}

func (m *Matcher) matchAt(text string, i int) string {
	if i > 0 && isWordByte(text[i-1]) {
		return ""
	}
	for _, term := range m.terms {
		if !strings.HasPrefix(text[i:], term) {
			continue
		}
		end := i + len(term)
		if end < len(text) && isWordByte(text[end]) {
			continue
		}
		return term
	}
	return ""
}

// isWordByte reports ASCII word characters. Bytes of multi-byte runes are
// never word bytes, which makes CJK text a boundary.
func isWordByte(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

// Annotate wraps every glossary term in plain text with a tooltip abbr
// element and returns HTML. Text outside terms is escaped.
func Annotate(text string, g report.Glossary) string {
	m := NewMatcher(g)
	var b strings.Builder
	for _, seg := range m.Split(text) {
		if !seg.Term {
			b.WriteString(html.EscapeString(seg.Text))
			continue
		}
		fmt.Fprintf(&b, `<abbr title="%s" class="glossary-term">%s</abbr>`,
			html.EscapeString(m.Definition(seg.Text)), html.EscapeString(seg.Text))
	}
	return b.String()
}
