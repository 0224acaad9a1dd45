package main

import (
	"testing"
	"time"

	"github.com/yungbote/protocol-clarity-backend/internal/clients/redis"
)

func TestFormatRunEvent(t *testing.T) {
	ts := time.Date(2026, 8, 29, 14, 3, 7, 0, time.UTC)

	got := formatRunEvent(redis.RunEvent{
		RunID:     "run-1",
		Event:     "chunk_done",
		ChunkID:   "chunk-9",
		Outcome:   "repaired",
		Strategy:  "simplify_language",
		Timestamp: ts,
	})
	want := "14:03:07 run=run-1 event=chunk_done chunk=chunk-9 outcome=repaired strategy=simplify_language"
	if got != want {
		t.Fatalf("formatRunEvent = %q, want %q", got, want)
	}

	got = formatRunEvent(redis.RunEvent{
		RunID:     "run-1",
		Event:     "run_started",
		Timestamp: ts,
	})
	want = "14:03:07 run=run-1 event=run_started"
	if got != want {
		t.Fatalf("formatRunEvent = %q, want %q", got, want)
	}
}
