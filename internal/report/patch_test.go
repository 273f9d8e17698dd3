package report

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadPatches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch.yaml")
	data := `patches:
  - chapter: ch1
    section_prefix: "1.1"
    rows:
      - ["GPT-5.1", "89.0%"]
  - chapter: ch2
    section_prefix: ch2
    append: true
    rows:
      - [c, d]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	patches, err := LoadPatches(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []RowPatch{
		{Chapter: "ch1", SectionPrefix: "1.1", Rows: [][]string{{"GPT-5.1", "89.0%"}}},
		{Chapter: "ch2", SectionPrefix: "ch2", Append: true, Rows: [][]string{{"c", "d"}}},
	}
	if diff := cmp.Diff(want, patches); diff != "" {
		t.Errorf("patches mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyPatches(t *testing.T) {
	doc := sampleDocument()
	patched, err := ApplyPatches(doc, []RowPatch{
		{Chapter: "ch1", SectionPrefix: "1.1", Rows: [][]string{{"GPT-5.1", "89.0%"}}},
		{Chapter: "ch2", SectionPrefix: "ch2", Append: true, Rows: [][]string{{"c", "d"}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := patched.Chapters[0].Sections[0].Tables()[0].Rows
	if diff := cmp.Diff([][]string{{"GPT-5.1", "89.0%"}}, got); diff != "" {
		t.Errorf("replaced rows mismatch (-want +got):\n%s", diff)
	}
	got = patched.Chapters[1].Sections[0].Tables()[0].Rows
	if diff := cmp.Diff([][]string{{"a", "b"}, {"c", "d"}}, got); diff != "" {
		t.Errorf("appended rows mismatch (-want +got):\n%s", diff)
	}

	if n := len(doc.Chapters[0].Sections[0].Tables()[0].Rows); n != 2 {
		t.Errorf("original document modified: expected 2 rows, got %d", n)
	}
}

func TestApplyPatches_Errors(t *testing.T) {
	tests := []struct {
		name    string
		patch   RowPatch
		wantErr error
		wantMsg string
	}{
		{"unknown chapter", RowPatch{Chapter: "ch9", SectionPrefix: "1.1"}, ErrChapterNotFound, "patch 0 (ch9/1.1)"},
		{"unknown section", RowPatch{Chapter: "ch1", SectionPrefix: "9."}, ErrSectionNotFound, "patch 0 (ch1/9.)"},
		{"table out of range", RowPatch{Chapter: "ch1", SectionPrefix: "1.1", Table: 3}, nil, "out of range"},
		{"section without tables", RowPatch{Chapter: "ch1", SectionPrefix: "1.2"}, nil, "section has 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ApplyPatches(sampleDocument(), []RowPatch{tt.patch})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error to contain %q, got %q", tt.wantMsg, err.Error())
			}
		})
	}
}
