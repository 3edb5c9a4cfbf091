package model

import "time"

// RawMessage is a single record pulled from the quote topic.
type RawMessage struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// RawBatch is a group of messages pulled together. EndOffsets holds, for every partition
// present in the batch, the next offset to read once the batch is done.
type RawBatch struct {
	Messages   []RawMessage
	EndOffsets map[int32]int64
}

// Len returns the number of messages in the batch.
func (b RawBatch) Len() int {
	return len(b.Messages)
}
