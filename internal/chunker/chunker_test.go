package chunker

import (
	"strings"
	"testing"

	"github.com/dgallion1/reportgest/internal/report"
	"github.com/google/go-cmp/cmp"
)

func noteDoc(chapters ...*report.Chapter) *report.Document {
	return &report.Document{Chapters: chapters}
}

func noteSection(title, text string) *report.Section {
	return &report.Section{Title: title, Content: []report.Block{&report.Note{Text: text}}}
}

func TestChunkReport_SmallSectionFitsOneChunk(t *testing.T) {
	doc := noteDoc(&report.Chapter{
		ID:       "ch1",
		Title:    "Chapter",
		Sections: []*report.Section{noteSection("Section", strings.Repeat("word ", 200))},
	})

	chunks := ChunkReport(doc, Config{ChunkSize: 1500, ChunkOverlap: 200, MinChunk: 50})

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Index != 0 {
		t.Errorf("expected index 0, got %d", chunks[0].Index)
	}
	if chunks[0].ChapterID != "ch1" {
		t.Errorf("expected chapter id ch1, got %q", chunks[0].ChapterID)
	}
	if !strings.Contains(chunks[0].Text, "word") {
		t.Errorf("expected chunk text to contain 'word', got %q", chunks[0].Text)
	}
}

func TestChunkReport_LargeSectionRequiresSplitting(t *testing.T) {
	// ~2700 words -> ~3600 tokens at 1.33 tokens/word.
	largeText := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 300)
	doc := noteDoc(&report.Chapter{
		ID:       "ch1",
		Title:    "Large",
		Sections: []*report.Section{noteSection("Big Section", largeText)},
	})

	cfg := Config{ChunkSize: 500, ChunkOverlap: 50, MinChunk: 10}
	chunks := ChunkReport(doc, cfg)

	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks for large text, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Index != i {
			t.Errorf("chunk %d: expected index %d, got %d", i, i, c.Index)
		}
		// Sentence boundaries allow slight overflow; 2x is a generous ceiling.
		if tokens := EstimateTokens(c.Text); tokens > cfg.ChunkSize*2 {
			t.Errorf("chunk %d: %d tokens exceeds 2x target %d", i, tokens, cfg.ChunkSize)
		}
	}
}

func TestChunkReport_Breadcrumbs(t *testing.T) {
	doc := noteDoc(
		&report.Chapter{
			ID:    "ch1",
			Title: "模型发布",
			Sections: []*report.Section{
				noteSection("1.1 旗舰", strings.Repeat("alpha ", 50)),
				noteSection("", strings.Repeat("beta ", 50)),
			},
		},
		&report.Chapter{
			ID:       "ch2",
			Title:    "市场",
			Sections: []*report.Section{noteSection("2.1 融资", strings.Repeat("gamma ", 50))},
		},
	)

	chunks := ChunkReport(doc, Config{ChunkSize: 2000, ChunkOverlap: 100, MinChunk: 10})

	var got [][]string
	for _, c := range chunks {
		got = append(got, c.Breadcrumb)
	}
	want := [][]string{{"模型发布", "1.1 旗舰"}, {"模型发布"}, {"市场", "2.1 融资"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("breadcrumbs mismatch (-want +got):\n%s", diff)
	}
}

func TestChunkReport_MinChunkFiltering(t *testing.T) {
	doc := noteDoc(&report.Chapter{
		ID:       "ch1",
		Title:    "Tiny",
		Sections: []*report.Section{noteSection("Short", "Hi")},
	})

	chunks := ChunkReport(doc, Config{ChunkSize: 1500, ChunkOverlap: 200, MinChunk: 100})
	if len(chunks) != 0 {
		t.Errorf("expected 0 chunks (below MinChunk), got %d", len(chunks))
	}
}

func TestChunkReport_Empty(t *testing.T) {
	if chunks := ChunkReport(&report.Document{}, DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected 0 chunks, got %d", len(chunks))
	}
	doc := noteDoc(&report.Chapter{ID: "ch1", Title: "Empty", Sections: []*report.Section{{Title: "s"}}})
	if chunks := ChunkReport(doc, DefaultConfig()); len(chunks) != 0 {
		t.Errorf("expected 0 chunks for section without content, got %d", len(chunks))
	}
}

func TestChunkReport_DefaultConfigFallback(t *testing.T) {
	doc := noteDoc(&report.Chapter{
		ID:       "ch1",
		Title:    "Doc",
		Sections: []*report.Section{noteSection("", strings.Repeat("word ", 200))},
	})
	if chunks := ChunkReport(doc, Config{}); len(chunks) != 1 {
		t.Errorf("expected 1 chunk with zero config (defaults applied), got %d", len(chunks))
	}
}

func TestSectionText(t *testing.T) {
	sub := "主要发布"
	sec := &report.Section{
		Title: "s",
		Content: []report.Block{
			&report.Stats{Items: []report.Stat{{Value: "$20B", Label: "⟦ARR⟧", Color: report.ColorGreen}}},
			&report.Table{
				Subtitle: &sub,
				Headers:  []string{"模型", "⟦GPQA⟧"},
				Rows:     [][]string{{"GPT-5", "88.4%"}},
			},
			&report.Trends{Items: []report.Trend{{Num: 1, Title: "推理", Description: "更长"}}},
			&report.Note{Text: ""},
		},
	}

	want := "ARR: $20B\n\n主要发布\n模型 | GPQA\nGPT-5 | 88.4%\n\n1. 推理: 更长"
	if got := SectionText(sec); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"one two three", 3},
		{"混合专家模型", 6},
		{"采用 MoE 架构", 5},
		{"   ", 1},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.in); got != tt.want {
			t.Errorf("EstimateTokens(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestSplitSentences_CJK(t *testing.T) {
	got := splitSentences("第一句。第二句！Third one. Fourth?")
	want := []string{"第一句。", "第二句！", "Third one.", "Fourth?"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("sentences mismatch (-want +got):\n%s", diff)
	}
}
