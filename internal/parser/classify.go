package parser

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/reportgest/internal/report"
	"golang.org/x/net/html"
)

// tables finds every table in span that is not nested in another table.
// Wrapped (div.table-wrap) and bare tables are the same element kind in the
// tree, so each one yields exactly one record.
func (x *extraction) tables(span *goquery.Selection) []positioned {
	headings := findAll(span, "h4").FilterFunction(func(_ int, h *goquery.Selection) bool {
		return h.Closest("div.card, div.trend-item, table").Length() == 0
	})

	var out []positioned
	findAll(span, "table").Each(func(_ int, t *goquery.Selection) {
		if t.ParentsFiltered("table").Length() > 0 {
			return
		}
		pos := x.pos(t)
		headers, rows := tableCells(t)
		out = append(out, positioned{pos: pos, block: &report.Table{
			Subtitle: x.subtitle(headings, pos),
			Headers:  headers,
			Rows:     rows,
		}})
	})
	return out
}

// subtitle is the text of the last heading that starts before pos.
func (x *extraction) subtitle(headings *goquery.Selection, pos int) *string {
	var last *goquery.Selection
	headings.EachWithBreak(func(_ int, h *goquery.Selection) bool {
		if x.pos(h) >= pos {
			return false
		}
		last = h
		return true
	})
	if last == nil {
		return nil
	}
	text := Text(last)
	return &text
}

// tableCells reads the header cells and body rows of t, ignoring rows of
// nested tables. Without a thead, a leading row made only of th cells is the
// header row. Body rows need at least one td.
func tableCells(t *goquery.Selection) ([]string, [][]string) {
	headers := []string{}
	rows := [][]string{}
	hasHead := t.ChildrenFiltered("thead").Length() > 0

	t.Find("tr").Each(func(i int, tr *goquery.Selection) {
		if !tr.Closest("table").IsSelection(t) {
			return
		}
		cells := tr.ChildrenFiltered("th, td")
		tds := cells.Filter("td").Length()

		switch {
		case tr.Parent().Is("thead"):
			cells.Filter("th").Each(func(_ int, th *goquery.Selection) {
				headers = append(headers, Text(th))
			})
		case !hasHead && tds == 0 && len(headers) == 0 && len(rows) == 0:
			cells.Each(func(_ int, th *goquery.Selection) {
				headers = append(headers, Text(th))
			})
		case tds > 0:
			row := make([]string, 0, cells.Length())
			cells.Each(func(_ int, td *goquery.Selection) {
				row = append(row, Text(td))
			})
			rows = append(rows, row)
		}
	})
	return headers, rows
}

func (x *extraction) stats(span *goquery.Selection) []positioned {
	var out []positioned
	findAll(span, "div.stats-grid").Each(func(_ int, grid *goquery.Selection) {
		var items []report.Stat
		grid.Find("div.stat").Each(func(_ int, st *goquery.Selection) {
			value := st.Find(".value").First()
			label := st.Find(".label").First()
			if value.Length() == 0 || label.Length() == 0 {
				return
			}
			items = append(items, report.Stat{
				Value: Text(value),
				Label: Text(label),
				Color: statColor(st),
			})
		})
		if len(items) > 0 {
			out = append(out, positioned{pos: x.pos(grid), block: &report.Stats{Items: items}})
		}
	})
	return out
}

// statColor picks the first recognized color named by one of the stat's
// extra classes, matching by substring so "stat-green" counts as green.
func statColor(st *goquery.Selection) report.Color {
	class, _ := st.Attr("class")
	var extra []string
	for _, c := range strings.Fields(class) {
		if c != "stat" {
			extra = append(extra, c)
		}
	}
	for _, color := range report.StatColors {
		for _, c := range extra {
			if strings.Contains(c, string(color)) {
				return color
			}
		}
	}
	return report.ColorAccent
}

func (x *extraction) cards(span *goquery.Selection) []positioned {
	var out []positioned
	findAll(span, "div.card-grid").Each(func(_ int, grid *goquery.Selection) {
		var items []report.Card
		grid.Find("div.card").Each(func(_ int, card *goquery.Selection) {
			title := card.Find("h4").First()
			body := card.Find("p").First()
			if title.Length() == 0 || body.Length() == 0 {
				return
			}
			items = append(items, report.Card{Title: Text(title), Text: Text(body)})
		})
		if len(items) > 0 {
			out = append(out, positioned{pos: x.pos(grid), block: &report.Cards{Items: items}})
		}
	})
	return out
}

func (x *extraction) notes(span *goquery.Selection) []positioned {
	var out []positioned
	findAll(span, "div.note").Each(func(_ int, note *goquery.Selection) {
		if text := Text(note); text != "" {
			out = append(out, positioned{pos: x.pos(note), block: &report.Note{Text: text}})
		}
	})
	return out
}

func (x *extraction) diagrams(span *goquery.Selection) []positioned {
	var out []positioned
	findAll(span, "div.diagram > pre").Each(func(_ int, pre *goquery.Selection) {
		out = append(out, positioned{
			pos:   x.pos(pre.Parent()),
			block: &report.Diagram{Text: x.diagramText(pre.Nodes[0])},
		})
	})
	return out
}

// diagramText is the pre's source with only &amp; decoded.
func (x *extraction) diagramText(pre *html.Node) string {
	if src, ok := x.rawPre[pre]; ok {
		return strings.ReplaceAll(src, "&amp;", "&")
	}
	return literalText(pre)
}

// trends gathers every trend item of span into a single block placed at its
// first item, or ahead of everything with Options.TrendsFirst.
func (x *extraction) trends(span *goquery.Selection) []positioned {
	var items []report.Trend
	first := -1
	findAll(span, "div.trend-item").Each(func(_ int, item *goquery.Selection) {
		num, err := strconv.Atoi(strings.TrimSpace(item.Find(".trend-num").First().Text()))
		if err != nil {
			return
		}
		content := item.Find(".trend-content").First()
		title := content.Find("h4").First()
		desc := content.Find("p").First()
		if title.Length() == 0 || desc.Length() == 0 {
			return
		}
		if first < 0 {
			first = x.pos(item)
		}
		items = append(items, report.Trend{Num: num, Title: Text(title), Description: Text(desc)})
	})
	if len(items) == 0 {
		return nil
	}
	if x.opts.TrendsFirst {
		first = -1
	}
	return []positioned{{pos: first, block: &report.Trends{Items: items}}}
}
