package report

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

func (d *Document) MarshalJSON() ([]byte, error) {
	type alias Document
	out := alias(*d)
	if out.Chapters == nil {
		out.Chapters = []*Chapter{}
	}
	if out.Glossary == nil {
		out.Glossary = Glossary{}
	}
	return marshalLiteral(out)
}

func (t *Table) MarshalJSON() ([]byte, error) {
	type alias Table
	out := alias(*t)
	if out.Headers == nil {
		out.Headers = []string{}
	}
	if out.Rows == nil {
		out.Rows = [][]string{}
	}
	return marshalTagged(TypeTable, &out)
}

func (s *Stats) MarshalJSON() ([]byte, error) {
	type alias Stats
	return marshalTagged(TypeStats, (*alias)(s))
}

func (c *Cards) MarshalJSON() ([]byte, error) {
	type alias Cards
	return marshalTagged(TypeCards, (*alias)(c))
}

func (n *Note) MarshalJSON() ([]byte, error) {
	type alias Note
	return marshalTagged(TypeNote, (*alias)(n))
}

func (d *Diagram) MarshalJSON() ([]byte, error) {
	type alias Diagram
	return marshalTagged(TypeDiagram, (*alias)(d))
}

func (t *Trends) MarshalJSON() ([]byte, error) {
	type alias Trends
	return marshalTagged(TypeTrends, (*alias)(t))
}

// marshalTagged writes {"type": typ, ...fields of v}. v must marshal to an object.
func marshalTagged(typ BlockType, v any) ([]byte, error) {
	body, err := marshalLiteral(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	tag, _ := marshalLiteral(typ)
	buf.Write(tag)
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// marshalLiteral is json.Marshal without HTML escaping; the escaping done by
// an inner json.Marshal would survive the outer encoder's SetEscapeHTML(false).
func marshalLiteral(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (s *Section) MarshalJSON() ([]byte, error) {
	type alias Section
	out := alias(*s)
	if out.Content == nil {
		out.Content = []Block{}
	}
	return marshalLiteral(out)
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var raw struct {
		Title   string            `json:"title"`
		Content []json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Title = raw.Title
	s.Content = make([]Block, 0, len(raw.Content))
	for i, msg := range raw.Content {
		b, err := decodeBlock(msg)
		if err != nil {
			return fmt.Errorf("section %q block %d: %w", raw.Title, i, err)
		}
		s.Content = append(s.Content, b)
	}
	return nil
}

func decodeBlock(msg json.RawMessage) (Block, error) {
	var head struct {
		Type BlockType `json:"type"`
	}
	if err := json.Unmarshal(msg, &head); err != nil {
		return nil, err
	}
	var b Block
	switch head.Type {
	case TypeTable:
		b = &Table{}
	case TypeStats:
		b = &Stats{}
	case TypeCards:
		b = &Cards{}
	case TypeNote:
		b = &Note{}
	case TypeDiagram:
		b = &Diagram{}
	case TypeTrends:
		b = &Trends{}
	default:
		return nil, fmt.Errorf("unknown block type %q", head.Type)
	}
	if err := json.Unmarshal(msg, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Encode writes the document as indented JSON. Non-ASCII text and markup
// characters are written literally.
func Encode(w io.Writer, doc *Document) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (*Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	if doc.Glossary == nil {
		doc.Glossary = Glossary{}
	}
	return &doc, nil
}

// Load reads a JSON snapshot from path.
func Load(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open report: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Save writes doc to path through a temp file in the same directory, so a
// failed run never leaves a truncated snapshot behind.
func Save(path string, doc *Document) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".report-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := Encode(tmp, doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}

// ContentHash returns the hex SHA-256 of the encoded document.
func ContentHash(doc *Document) (string, error) {
	h := sha256.New()
	if err := Encode(h, doc); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Clone returns a deep copy of doc.
func Clone(doc *Document) (*Document, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return nil, err
	}
	return Decode(&buf)
}
