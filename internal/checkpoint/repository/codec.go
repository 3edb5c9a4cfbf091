package repository

import (
	"encoding/json"
	"fmt"

	"stock-stream-srv/internal/model"
)

// Encode serializes a checkpoint the same way for every backend.
func Encode(cp model.Checkpoint) ([]byte, error) {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: encode: %w", ErrFailedToCommit, err)
	}
	return data, nil
}

// Decode parses a stored checkpoint. A missing offsets map decodes as empty.
func Decode(data []byte) (model.Checkpoint, error) {
	var cp model.Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return model.Checkpoint{}, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if cp.Offsets == nil {
		cp.Offsets = map[int32]int64{}
	}
	return cp, nil
}
