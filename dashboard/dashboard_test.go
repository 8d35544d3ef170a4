package dashboard

import (
	"testing"
	"time"
)

func TestMergeActivityOrdersNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	feed := []Activity{
		{Type: "user", RefID: "u1", Timestamp: base.Add(-2 * time.Hour)},
		{Type: "order", RefID: "o1", Timestamp: base},
		{Type: "user", RefID: "u2", Timestamp: base.Add(-1 * time.Hour)},
	}

	merged := MergeActivity(feed)
	want := []string{"o1", "u2", "u1"}
	for i, ref := range want {
		if merged[i].RefID != ref {
			t.Fatalf("position %d: got %s, want %s", i, merged[i].RefID, ref)
		}
	}
}

func TestMergeActivityTieBreaksByID(t *testing.T) {
	ts := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	feed := []Activity{
		{Type: "order", RefID: "aaa", Timestamp: ts},
		{Type: "order", RefID: "zzz", Timestamp: ts},
		{Type: "order", RefID: "mmm", Timestamp: ts},
	}

	merged := MergeActivity(feed)
	want := []string{"zzz", "mmm", "aaa"}
	for i, ref := range want {
		if merged[i].RefID != ref {
			t.Fatalf("position %d: got %s, want %s", i, merged[i].RefID, ref)
		}
	}

	// same input, same sequence
	again := MergeActivity([]Activity{
		{Type: "order", RefID: "mmm", Timestamp: ts},
		{Type: "order", RefID: "zzz", Timestamp: ts},
		{Type: "order", RefID: "aaa", Timestamp: ts},
	})
	for i := range merged {
		if merged[i].RefID != again[i].RefID {
			t.Fatal("merge order must be deterministic regardless of input order")
		}
	}
}

func TestMergeActivityEmpty(t *testing.T) {
	if got := MergeActivity(nil); len(got) != 0 {
		t.Fatalf("expected empty result, got %d entries", len(got))
	}
}
