package deadletter

import "time"

// Envelope is what lands on the dead-letter topic for every message of a rejected batch.
type Envelope struct {
	ID        string    `json:"id"`
	BatchID   int64     `json:"batch_id"`
	Topic     string    `json:"topic"`
	Partition int32     `json:"partition"`
	Offset    int64     `json:"offset"`
	Key       []byte    `json:"key,omitempty"`
	Value     []byte    `json:"value"`
	Error     string    `json:"error"`
	FailedAt  time.Time `json:"failed_at"`
}
