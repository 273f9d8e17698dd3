package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/reportgest/internal/report"
)

const page = `<!DOCTYPE html><html><body><main class="container">
<div class="chapter" id="ch1">
  <h2><span class="chapter-num">01</span>模型发布</h2>
  <div class="section">
    <h3>1.1 旗舰模型</h3>
    <p>Sparse MoE models and <abbr title="混合专家" class="glossary-term">MoE</abbr> routing.</p>
    <table><thead><tr><th>模型</th><th>GPQA</th></tr></thead>
      <tbody><tr><td>GPT-5</td><td>88.4%</td></tr></tbody></table>
  </div>
</div>
</main></body></html>`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("LOG_LEVEL", "error")
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestExtractSummaryPatchExport(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "index.html", page)
	output := filepath.Join(dir, "src", "data", "report.json")

	out, err := run(t, "extract", "--input", input, "--output", output)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	for _, want := range []string{"Extracted: 1 chapters", "ch1: 模型发布 (1 sections)", "- 1.1 旗舰模型: [table]", "Written to " + output} {
		if !strings.Contains(out, want) {
			t.Errorf("expected extract output to contain %q, got:\n%s", want, out)
		}
	}

	out, err = run(t, "summary", "--report", output)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !strings.Contains(out, "Table rows: 1") {
		t.Errorf("unexpected summary:\n%s", out)
	}

	patch := writeFile(t, dir, "patch.yaml", `patches:
  - chapter: ch1
    section_prefix: "1.1"
    append: true
    rows:
      - [Claude, "84.8%"]
`)
	if _, err := run(t, "patch", "--report", output, "--patch", patch); err != nil {
		t.Fatalf("patch: %v", err)
	}
	doc, err := report.Load(output)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rows := doc.Chapters[0].Sections[0].Tables()[0].Rows; len(rows) != 2 {
		t.Errorf("expected 2 rows after patch, got %d", len(rows))
	}

	out, err = run(t, "export", "--report", output, "--format", "markdown")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.Contains(out, "| Claude | 84.8% |") {
		t.Errorf("unexpected markdown:\n%s", out)
	}

	docxPath := filepath.Join(dir, "report.docx")
	if _, err := run(t, "export", "--report", output, "--format", "docx", "--output", docxPath); err != nil {
		t.Fatalf("export docx: %v", err)
	}
	if info, err := os.Stat(docxPath); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty docx, err=%v", err)
	}
}

func TestExport_DOCXNeedsOutput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "report.json")
	if err := report.Save(output, &report.Document{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := run(t, "export", "--report", output, "--format", "docx"); err == nil {
		t.Error("expected error writing docx to stdout")
	}
}

func TestAnnotate(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "index.html", page)
	gloss := writeFile(t, dir, "glossary.yaml", "GPQA: 研究生级问答基准\n")
	output := filepath.Join(dir, "annotated.html")

	out, err := run(t, "annotate", "--input", input, "--output", output, "--glossary", gloss)
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if !strings.Contains(out, "Annotated 2 occurrences of 2 terms") {
		t.Errorf("unexpected output %q", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, `Sparse <abbr title="混合专家" class="glossary-term">MoE</abbr> models`) {
		t.Errorf("expected MoE to be wrapped:\n%s", html)
	}
	if !strings.Contains(html, `<th><abbr title="研究生级问答基准" class="glossary-term">GPQA</abbr></th>`) {
		t.Errorf("expected GPQA header to be wrapped:\n%s", html)
	}

	// The annotated page extracts the file glossary too.
	reportPath := filepath.Join(dir, "report.json")
	if _, err := run(t, "extract", "--input", output, "--output", reportPath, "--quiet"); err != nil {
		t.Fatalf("extract: %v", err)
	}
	doc, err := report.Load(reportPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Glossary["GPQA"] != "研究生级问答基准" {
		t.Errorf("expected GPQA in glossary, got %v", doc.Glossary)
	}
	if got := doc.Chapters[0].Sections[0].Tables()[0].Headers[1]; got != "⟦GPQA⟧" {
		t.Errorf("expected marked header, got %q", got)
	}
}

func TestExtract_MissingInput(t *testing.T) {
	if _, err := run(t, "extract", "--input", filepath.Join(t.TempDir(), "nope.html")); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs([]string{"summary"})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "PORT") {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	clean := filepath.Join(dir, "clean.json")
	if err := report.Save(clean, &report.Document{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := run(t, "validate", "--report", clean)
	if err != nil {
		t.Fatalf("validate clean: %v", err)
	}
	if !strings.Contains(out, "No problems found") {
		t.Errorf("unexpected output %q", out)
	}

	ragged := filepath.Join(dir, "ragged.json")
	doc := &report.Document{Chapters: []*report.Chapter{{
		ID:    "ch1",
		Title: "One",
		Sections: []*report.Section{{
			Title:   "s",
			Content: []report.Block{&report.Table{Headers: []string{"a", "b"}, Rows: [][]string{{"1"}}}},
		}},
	}}}
	if err := report.Save(ragged, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err = run(t, "validate", "--report", ragged)
	if err == nil {
		t.Fatal("expected error for ragged table")
	}
	if !strings.Contains(out, "ch1/s[0]: row 0 has 1 cells, header has 2") {
		t.Errorf("unexpected output %q", out)
	}
}
