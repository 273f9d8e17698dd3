package api

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/dgallion1/reportgest/internal/export"
	"github.com/dgallion1/reportgest/internal/report"
	"github.com/go-chi/chi/v5"
)

// snapshot loads the served report, writing the error response itself when
// there is none.
func (s *Server) snapshot(w http.ResponseWriter) (*Snapshot, bool) {
	snap, err := s.store.Get()
	if errors.Is(err, errNoSnapshot) {
		jsonError(w, "report not found; run an extraction first", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		s.log.Error("load snapshot failed", "error", err)
		jsonError(w, "failed to load report", http.StatusInternalServerError)
		return nil, false
	}
	return snap, true
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	w.Header().Set("ETag", snap.ETag)
	if match := r.Header.Get("If-None-Match"); match != "" && etagMatches(match, snap.ETag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	writeJSON(w, http.StatusOK, snap.Doc)
}

func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.Summarize(snap.Doc))
}

func (s *Server) handleProblems(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	problems := report.Validate(snap.Doc)
	if problems == nil {
		problems = []report.Problem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(problems),
		"problems": problems,
	})
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	ch, err := snap.Doc.Chapter(chi.URLParam(r, "chapterID"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}

	q := r.URL.Query().Get("q")
	typ, err := parseBlockType(r.URL.Query().Get("type"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	hits := report.Search(snap.Doc, q, typ)
	if hits == nil {
		hits = []report.Hit{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"query": q,
		"type":  typ,
		"count": len(hits),
		"hits":  hits,
	})
}

// parseBlockType accepts a block type name; "" and "all" mean any type.
func parseBlockType(v string) (report.BlockType, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" || v == "all" {
		return "", nil
	}
	for _, t := range report.BlockTypes {
		if string(t) == v {
			return t, nil
		}
	}
	return "", errors.New("unknown block type " + v)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, snap.Doc, format); err != nil {
		s.log.Error("export failed", "format", format, "error", err)
		jsonError(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	if format == export.FormatDOCX {
		w.Header().Set("Content-Disposition", `attachment; filename="report`+format.Extension()+`"`)
	}
	w.Write(buf.Bytes())
}

func (s *Server) handleGlossary(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.snapshot(w)
	if !ok {
		return
	}
	g := snap.Doc.Glossary
	if g == nil {
		g = report.Glossary{}
	}
	writeJSON(w, http.StatusOK, g)
}
