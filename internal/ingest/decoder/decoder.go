package decoder

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"stock-stream-srv/internal/model"
	"stock-stream-srv/internal/schema"
)

// Decoder turns raw topic messages into stock records.
type Decoder interface {
	// Decode flattens every message of batch. Any malformed message fails the whole
	// batch and no records are returned.
	Decode(batch model.RawBatch) ([]model.StockRecord, error)
}

type implDecoder struct {
	fields []schema.Field
}

// New creates a decoder bound to the stock quote schema.
func New() Decoder {
	return &implDecoder{fields: schema.StockFields()}
}

func (d *implDecoder) Decode(batch model.RawBatch) ([]model.StockRecord, error) {
	records := make([]model.StockRecord, 0, batch.Len())
	for _, msg := range batch.Messages {
		decoded, err := d.decodeMessage(msg)
		if err != nil {
			return nil, err
		}
		records = append(records, decoded...)
	}
	return records, nil
}

func (d *implDecoder) decodeMessage(msg model.RawMessage) ([]model.StockRecord, error) {
	fail := func(index int, field, reason string) error {
		return &DecodeError{
			Topic:     msg.Topic,
			Partition: msg.Partition,
			Offset:    msg.Offset,
			Index:     index,
			Field:     field,
			Reason:    reason,
		}
	}

	if !utf8.Valid(msg.Value) {
		return nil, fail(-1, "", "value is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(msg.Value))
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fail(-1, "", "invalid JSON: "+err.Error())
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fail(-1, "", "unexpected data after JSON array")
	}

	elements, ok := root.([]any)
	if !ok {
		return nil, fail(-1, "", "value is a JSON "+jsonKind(root)+", want array")
	}

	status := statusFromKey(msg.Key)
	records := make([]model.StockRecord, 0, len(elements))
	for i, el := range elements {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, fail(i, "", "element is a JSON "+jsonKind(el)+", want object")
		}
		rec, err := d.decodeObject(obj)
		if err != nil {
			if fe, ok := err.(*fieldError); ok {
				return nil, fail(i, fe.field, fe.reason)
			}
			return nil, fail(i, "", err.Error())
		}
		rec.Status = status
		records = append(records, rec)
	}
	return records, nil
}

func (d *implDecoder) decodeObject(obj map[string]any) (model.StockRecord, error) {
	values := make(map[string]any, len(d.fields))
	for _, f := range d.fields {
		raw, present := obj[f.Name]
		if !present || raw == nil {
			if f.Required {
				return model.StockRecord{}, &fieldError{field: f.Name, reason: "required field is missing or null"}
			}
			continue
		}
		v, err := coerce(f.Type, raw)
		if err != nil {
			return model.StockRecord{}, &fieldError{field: f.Name, reason: err.Error()}
		}
		values[f.Name] = v
	}
	return toRecord(values), nil
}

func toRecord(values map[string]any) model.StockRecord {
	return model.StockRecord{
		Symbol:                      values[schema.FieldSymbol].(string),
		Type:                        optional[string](values, schema.FieldType),
		Name:                        values[schema.FieldName].(string),
		Price:                       values[schema.FieldPrice].(float64),
		Change:                      optional[float64](values, schema.FieldChange),
		ChangePercent:               optional[float64](values, schema.FieldChangePercent),
		PreviousClose:               optional[float64](values, schema.FieldPreviousClose),
		PreOrPostMarket:             optional[float64](values, schema.FieldPreOrPostMarket),
		PreOrPostMarketChange:       optional[float64](values, schema.FieldPreOrPostMarketChange),
		PreOrPosMarketChangePercent: optional[float64](values, schema.FieldPreOrPosMarketChangePercent),
		LastUpdateUTC:               optional[time.Time](values, schema.FieldLastUpdateUTC),
		Currency:                    optional[string](values, schema.FieldCurrency),
		Exchange:                    optional[string](values, schema.FieldExchange),
		ExchangeOpen:                optional[time.Time](values, schema.FieldExchangeOpen),
		ExchangeClose:               optional[time.Time](values, schema.FieldExchangeClose),
		Timezone:                    optional[string](values, schema.FieldTimezone),
		UTCOffsetSec:                optional[int32](values, schema.FieldUTCOffsetSec),
		CountryCode:                 optional[string](values, schema.FieldCountryCode),
		GoogleMID:                   optional[string](values, schema.FieldGoogleMID),
	}
}

func optional[T any](values map[string]any, name string) *T {
	v, ok := values[name].(T)
	if !ok {
		return nil
	}
	return &v
}

// statusFromKey renders the message key as text, replacing invalid UTF-8.
func statusFromKey(key []byte) *string {
	if key == nil {
		return nil
	}
	s := strings.ToValidUTF8(string(key), "\uFFFD")
	return &s
}
