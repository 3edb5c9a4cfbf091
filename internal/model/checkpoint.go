package model

import "time"

// Checkpoint is the durable cursor of a topic: the last committed batch
// and the next offset to read for each partition.
type Checkpoint struct {
	Topic     string          `json:"topic"`
	BatchID   int64           `json:"batch_id"`
	Offsets   map[int32]int64 `json:"offsets"`
	RunID     string          `json:"run_id"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Advance returns a copy of c moved past batch. Partitions absent from the batch keep their offset.
func (c Checkpoint) Advance(batchID int64, endOffsets map[int32]int64, runID string, now time.Time) Checkpoint {
	offsets := make(map[int32]int64, len(c.Offsets)+len(endOffsets))
	for p, o := range c.Offsets {
		offsets[p] = o
	}
	for p, o := range endOffsets {
		if o > offsets[p] {
			offsets[p] = o
		}
	}
	return Checkpoint{
		Topic:     c.Topic,
		BatchID:   batchID,
		Offsets:   offsets,
		RunID:     runID,
		UpdatedAt: now,
	}
}
