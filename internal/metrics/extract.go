package metrics

import (
	"sort"
	"sync"
	"time"
)

type run struct {
	at         time.Time
	durationMs int64
	inputBytes int
	chapters   int
	failed     bool
}

// Snapshot aggregates the extraction runs inside the window.
type Snapshot struct {
	Runs       int     `json:"runs"`
	Failures   int     `json:"failures"`
	InputBytes int64   `json:"input_bytes"`
	Chapters   int     `json:"chapters"`
	MinMs      int64   `json:"min_ms"`
	MaxMs      int64   `json:"max_ms"`
	AvgMs      float64 `json:"avg_ms"`
	P50Ms      float64 `json:"p50_ms"`
	P95Ms      float64 `json:"p95_ms"`
	P99Ms      float64 `json:"p99_ms"`
	WindowSecs int64   `json:"window_secs"`
}

// Extractions keeps recent extraction runs within a rolling window.
// Safe for concurrent use.
type Extractions struct {
	mu     sync.Mutex
	runs   []run
	window time.Duration
	now    func() time.Time
}

func NewExtractions(window time.Duration) *Extractions {
	if window <= 0 {
		window = time.Hour
	}
	return &Extractions{
		runs:   make([]run, 0, 256),
		window: window,
		now:    time.Now,
	}
}

// Record adds a successful run.
func (e *Extractions) Record(d time.Duration, inputBytes, chapters int) {
	e.add(run{durationMs: d.Milliseconds(), inputBytes: inputBytes, chapters: chapters})
}

// RecordFailure adds a run that did not produce a document.
func (e *Extractions) RecordFailure(d time.Duration, inputBytes int) {
	e.add(run{durationMs: d.Milliseconds(), inputBytes: inputBytes, failed: true})
}

func (e *Extractions) add(r run) {
	if r.durationMs < 0 {
		r.durationMs = 0
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	r.at = e.now()
	e.pruneLocked(r.at)
	e.runs = append(e.runs, r)
}

func (e *Extractions) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pruneLocked(e.now())
	snap := Snapshot{WindowSecs: int64(e.window / time.Second)}
	if len(e.runs) == 0 {
		return snap
	}

	latencies := make([]int64, 0, len(e.runs))
	var sum int64
	for _, r := range e.runs {
		snap.InputBytes += int64(r.inputBytes)
		snap.Chapters += r.chapters
		if r.failed {
			snap.Failures++
		}
		latencies = append(latencies, r.durationMs)
		sum += r.durationMs
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	snap.Runs = len(latencies)
	snap.MinMs = latencies[0]
	snap.MaxMs = latencies[len(latencies)-1]
	snap.AvgMs = float64(sum) / float64(len(latencies))
	snap.P50Ms = percentile(latencies, 50)
	snap.P95Ms = percentile(latencies, 95)
	snap.P99Ms = percentile(latencies, 99)
	return snap
}

func (e *Extractions) pruneLocked(now time.Time) {
	cutoff := now.Add(-e.window)
	keep := e.runs[:0]
	for _, r := range e.runs {
		if !r.at.Before(cutoff) {
			keep = append(keep, r)
		}
	}
	e.runs = keep
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	switch {
	case len(sorted) == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[len(sorted)-1])
	}

	rank := float64(len(sorted)-1) * pct / 100
	lower := int(rank)
	if lower+1 >= len(sorted) {
		return float64(sorted[lower])
	}
	lo, hi := float64(sorted[lower]), float64(sorted[lower+1])
	return lo + (hi-lo)*(rank-float64(lower))
}
