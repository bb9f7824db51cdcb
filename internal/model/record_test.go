package model

import (
	"testing"
	"time"
)

func TestRecordColumns(t *testing.T) {
	t.Parallel()

	r := Record{Title: "Data mining", URL: "https://en.wikipedia.org/wiki/Data_mining"}
	cols := r.Columns()

	if len(cols) != len(RecordHeader) {
		t.Fatalf("expected %d columns, got %d", len(RecordHeader), len(cols))
	}
	if cols[0] != r.Title || cols[1] != r.URL {
		t.Errorf("unexpected column order: %v", cols)
	}
	if RecordHeader[0] != "title" || RecordHeader[1] != "url" {
		t.Errorf("unexpected header: %v", RecordHeader)
	}
}

func TestPageResultHasNext(t *testing.T) {
	t.Parallel()

	if (PageResult{}).HasNext() {
		t.Error("empty result should not have a next page")
	}
	if !(PageResult{NextURL: "https://example.org/next"}).HasNext() {
		t.Error("result with NextURL should have a next page")
	}
}

func TestRunElapsed(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	running := &Run{StartedAt: start}
	if running.Finished() {
		t.Error("run without FinishedAt should not be finished")
	}
	if running.Elapsed() != 0 {
		t.Errorf("expected zero elapsed for unfinished run, got %v", running.Elapsed())
	}

	done := &Run{StartedAt: start, FinishedAt: start.Add(90 * time.Second)}
	if !done.Finished() {
		t.Error("run with FinishedAt should be finished")
	}
	if done.Elapsed() != 90*time.Second {
		t.Errorf("expected 90s elapsed, got %v", done.Elapsed())
	}
}
