package main

import (
	"encoding/json"
	"errors"
	"fmt"

	pkgKafka "stock-stream-srv/pkg/kafka"
)

var errNotArray = errors.New("payload must be a JSON array")

// splitQuotes validates data as a JSON array and regroups its elements into
// arrays of at most size elements. size <= 0 keeps the array whole.
func splitQuotes(data []byte, size int) ([][]byte, error) {
	var quotes []json.RawMessage
	if err := json.Unmarshal(data, &quotes); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotArray, err)
	}
	if quotes == nil {
		return nil, errNotArray
	}
	if size <= 0 || size >= len(quotes) {
		whole, err := json.Marshal(quotes)
		if err != nil {
			return nil, err
		}
		return [][]byte{whole}, nil
	}

	var out [][]byte
	for start := 0; start < len(quotes); start += size {
		end := min(start+size, len(quotes))
		part, err := json.Marshal(quotes[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, part)
	}
	return out, nil
}

// publish sends payloads in order and returns how many were sent.
func publish(producer pkgKafka.IProducer, key []byte, payloads [][]byte) (int, error) {
	for i, p := range payloads {
		if err := producer.Publish(key, p); err != nil {
			return i, err
		}
	}
	return len(payloads), nil
}
