package metrics

import (
	"testing"
	"time"
)

func TestExtractionsSnapshotPercentiles(t *testing.T) {
	stats := NewExtractions(time.Hour)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, 1000, 2)
	}

	snap := stats.Snapshot()
	if snap.Runs != 5 {
		t.Fatalf("expected runs=5, got %d", snap.Runs)
	}
	if snap.MinMs != 100 || snap.MaxMs != 500 {
		t.Fatalf("expected min=100 max=500, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 300 {
		t.Fatalf("expected avg=300, got %f", snap.AvgMs)
	}
	if snap.P50Ms != 300 {
		t.Fatalf("expected p50=300, got %f", snap.P50Ms)
	}
	if snap.P95Ms != 480 {
		t.Fatalf("expected p95=480, got %f", snap.P95Ms)
	}
	if snap.P99Ms != 496 {
		t.Fatalf("expected p99=496, got %f", snap.P99Ms)
	}
	if snap.InputBytes != 5000 || snap.Chapters != 10 {
		t.Fatalf("expected bytes=5000 chapters=10, got bytes=%d chapters=%d", snap.InputBytes, snap.Chapters)
	}
	if snap.WindowSecs != 3600 {
		t.Fatalf("expected window=3600, got %d", snap.WindowSecs)
	}
}

func TestExtractionsCountsFailures(t *testing.T) {
	stats := NewExtractions(time.Hour)
	stats.Record(10*time.Millisecond, 10, 1)
	stats.RecordFailure(5*time.Millisecond, 20)

	snap := stats.Snapshot()
	if snap.Runs != 2 || snap.Failures != 1 {
		t.Fatalf("expected runs=2 failures=1, got runs=%d failures=%d", snap.Runs, snap.Failures)
	}
	if snap.Chapters != 1 {
		t.Fatalf("expected chapters=1, got %d", snap.Chapters)
	}
}

func TestExtractionsPrunesExpiredRuns(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	stats := NewExtractions(time.Minute)
	stats.now = func() time.Time { return now }

	stats.Record(100*time.Millisecond, 0, 0)
	now = now.Add(2 * time.Minute)

	if snap := stats.Snapshot(); snap.Runs != 0 {
		t.Fatalf("expected runs=0 after prune, got %d", snap.Runs)
	}

	stats.Record(200*time.Millisecond, 0, 0)
	snap := stats.Snapshot()
	if snap.Runs != 1 {
		t.Fatalf("expected runs=1 for fresh run, got %d", snap.Runs)
	}
	if snap.MinMs != 200 || snap.MaxMs != 200 {
		t.Fatalf("expected min=max=200, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}

func TestExtractionsClampsNegativeDuration(t *testing.T) {
	stats := NewExtractions(time.Hour)
	stats.Record(-10*time.Millisecond, 0, 0)
	snap := stats.Snapshot()
	if snap.MinMs != 0 || snap.MaxMs != 0 {
		t.Fatalf("expected clamped duration=0, got min=%d max=%d", snap.MinMs, snap.MaxMs)
	}
}
