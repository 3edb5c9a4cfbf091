package model

import (
	"testing"
	"time"
)

func TestCheckpointAdvance(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cp := Checkpoint{Topic: "Gainers", BatchID: 4, Offsets: map[int32]int64{0: 10, 1: 7}}

	next := cp.Advance(5, map[int32]int64{1: 12, 2: 3}, "run-1", now)

	if next.BatchID != 5 {
		t.Errorf("BatchID: got %d, want 5", next.BatchID)
	}
	want := map[int32]int64{0: 10, 1: 12, 2: 3}
	for p, o := range want {
		if next.Offsets[p] != o {
			t.Errorf("partition %d: got %d, want %d", p, next.Offsets[p], o)
		}
	}
	if cp.Offsets[1] != 7 {
		t.Errorf("Advance must not mutate the receiver, partition 1 is now %d", cp.Offsets[1])
	}
	if next.Topic != "Gainers" || next.RunID != "run-1" || !next.UpdatedAt.Equal(now) {
		t.Errorf("unexpected metadata: %+v", next)
	}
}

func TestCheckpointAdvanceNeverMovesBackwards(t *testing.T) {
	cp := Checkpoint{Offsets: map[int32]int64{0: 50}}
	next := cp.Advance(1, map[int32]int64{0: 20}, "", time.Now())
	if next.Offsets[0] != 50 {
		t.Errorf("got %d, want 50", next.Offsets[0])
	}
}
