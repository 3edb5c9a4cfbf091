package decoder

import (
	"errors"
	"fmt"
)

// ErrMalformedMessage is wrapped by every DecodeError.
var ErrMalformedMessage = errors.New("decoder: malformed message")

// DecodeError pinpoints the message (and array element, when known) that failed.
// Index is -1 when the whole value could not be parsed.
type DecodeError struct {
	Topic     string
	Partition int32
	Offset    int64
	Index     int
	Field     string
	Reason    string
}

func (e *DecodeError) Error() string {
	loc := fmt.Sprintf("%s/%d@%d", e.Topic, e.Partition, e.Offset)
	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s element %d field %q: %s", ErrMalformedMessage, loc, e.Index, e.Field, e.Reason)
	case e.Index >= 0:
		return fmt.Sprintf("%s: %s element %d: %s", ErrMalformedMessage, loc, e.Index, e.Reason)
	default:
		return fmt.Sprintf("%s: %s: %s", ErrMalformedMessage, loc, e.Reason)
	}
}

func (e *DecodeError) Unwrap() error {
	return ErrMalformedMessage
}

type fieldError struct {
	field  string
	reason string
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.field, e.reason)
}
