package decoder

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"stock-stream-srv/internal/schema"
)

// timestampLayouts are tried in order; layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// jsonNumber is the JSON number grammar. Numeric strings must match it, which
// keeps out Go-only forms such as hex floats, digit underscores, Inf and NaN.
var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// Epoch bounds for numeric timestamps: 0001-01-01T00:00:00Z to 9999-12-31T23:59:59Z.
const (
	minEpochSeconds = -62135596800
	maxEpochSeconds = 253402300799
)

// coerce converts a decoded JSON value to the Go type of t. Only lossless
// conversions are accepted.
func coerce(t schema.Type, raw any) (any, error) {
	switch t {
	case schema.String:
		return toString(raw)
	case schema.Float:
		return toFloat(raw)
	case schema.Integer:
		return toInt32(raw)
	case schema.Timestamp:
		return toTimestamp(raw)
	default:
		return nil, fmt.Errorf("unsupported schema type %s", t)
	}
}

func toString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	default:
		return "", fmt.Errorf("cannot use %s as string", jsonKind(raw))
	}
}

func toFloat(raw any) (float64, error) {
	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	default:
		return 0, fmt.Errorf("cannot use %s as float", jsonKind(raw))
	}

	if !jsonNumber.MatchString(text) {
		return 0, fmt.Errorf("%q is not a number", text)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", text)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a finite number", text)
	}
	return f, nil
}

func toInt32(raw any) (int32, error) {
	var text string
	switch v := raw.(type) {
	case json.Number:
		text = v.String()
	case string:
		text = strings.TrimSpace(v)
	default:
		return 0, fmt.Errorf("cannot use %s as integer", jsonKind(raw))
	}
	if !jsonNumber.MatchString(text) {
		return 0, fmt.Errorf("%q is not an integer", text)
	}

	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		if n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("%d overflows a 32-bit integer", n)
		}
		return int32(n), nil
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", text)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q has a fractional part", text)
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, fmt.Errorf("%q overflows a 32-bit integer", text)
	}
	return int32(f), nil
}

func toTimestamp(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case string:
		text := strings.TrimSpace(v)
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, text); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%q is not a recognised timestamp", text)
	case json.Number:
		// Numbers are seconds since the Unix epoch.
		f, err := strconv.ParseFloat(v.String(), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return time.Time{}, fmt.Errorf("%q is not a valid epoch timestamp", v.String())
		}
		if f < minEpochSeconds || f > maxEpochSeconds {
			return time.Time{}, fmt.Errorf("epoch timestamp %s is out of range", v.String())
		}
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("cannot use %s as timestamp", jsonKind(raw))
	}
}

func jsonKind(raw any) string {
	switch raw.(type) {
	case string:
		return "string"
	case json.Number:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%T", raw)
	}
}
