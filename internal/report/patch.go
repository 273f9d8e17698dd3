package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RowPatch replaces or extends the rows of one table, addressed by chapter
// id, section title prefix and the table's index among the section's tables.
type RowPatch struct {
	Chapter       string     `yaml:"chapter"`
	SectionPrefix string     `yaml:"section_prefix"`
	Table         int        `yaml:"table"`
	Append        bool       `yaml:"append"`
	Rows          [][]string `yaml:"rows"`
}

// PatchFile is the on-disk patch format.
type PatchFile struct {
	Patches []RowPatch `yaml:"patches"`
}

// LoadPatches reads a YAML patch file.
func LoadPatches(path string) ([]RowPatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read patch file: %w", err)
	}
	var pf PatchFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse patch file: %w", err)
	}
	return pf.Patches, nil
}

// ApplyPatches returns a copy of doc with every patch applied in order.
// doc itself is left untouched.
func ApplyPatches(doc *Document, patches []RowPatch) (*Document, error) {
	out, err := Clone(doc)
	if err != nil {
		return nil, fmt.Errorf("clone report: %w", err)
	}
	for i, p := range patches {
		if err := applyPatch(out, p); err != nil {
			return nil, fmt.Errorf("patch %d (%s/%s): %w", i, p.Chapter, p.SectionPrefix, err)
		}
	}
	return out, nil
}

func applyPatch(doc *Document, p RowPatch) error {
	ch, err := doc.Chapter(p.Chapter)
	if err != nil {
		return err
	}
	sec, err := ch.SectionByPrefix(p.SectionPrefix)
	if err != nil {
		return err
	}
	tables := sec.Tables()
	if p.Table < 0 || p.Table >= len(tables) {
		return fmt.Errorf("table index %d out of range (section has %d)", p.Table, len(tables))
	}
	t := tables[p.Table]
	if p.Append {
		t.Rows = append(t.Rows, p.Rows...)
	} else {
		t.Rows = p.Rows
	}
	return nil
}
