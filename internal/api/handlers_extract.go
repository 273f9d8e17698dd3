package api

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dgallion1/reportgest/internal/parser"
	"github.com/dgallion1/reportgest/internal/report"
)

// handleExtract runs an extraction over the HTML request body. With
// ?save=true the result also replaces the served snapshot.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.stats.RecordFailure(time.Since(start), len(data))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return
		}
		jsonError(w, "failed to read body", http.StatusBadRequest)
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		s.stats.RecordFailure(time.Since(start), 0)
		jsonError(w, "empty body", http.StatusBadRequest)
		return
	}

	opts := parser.Options{TrendsFirst: s.cfg.TrendsFirst}
	if v := r.URL.Query().Get("trends_first"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.stats.RecordFailure(time.Since(start), len(data))
			jsonError(w, "trends_first must be a boolean", http.StatusBadRequest)
			return
		}
		opts.TrendsFirst = b
	}

	doc, err := parser.New(opts, s.log).Parse(bytes.NewReader(data))
	if err != nil {
		s.stats.RecordFailure(time.Since(start), len(data))
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.stats.Record(time.Since(start), len(data), len(doc.Chapters))

	sum := report.Summarize(doc)
	s.log.Info("report extracted",
		"bytes", len(data),
		"chapters", sum.Chapters,
		"sections", sum.Sections,
		"table_rows", sum.TableRows,
		"glossary_terms", sum.GlossaryTerms,
		"problems", len(report.Validate(doc)),
	)

	if r.URL.Query().Get("save") == "true" {
		snap, err := s.store.Put(doc)
		if err != nil {
			s.log.Error("save snapshot failed", "error", err)
			jsonError(w, "failed to save report", http.StatusInternalServerError)
			return
		}
		w.Header().Set("ETag", snap.ETag)
	}

	writeJSON(w, http.StatusOK, doc)
}
