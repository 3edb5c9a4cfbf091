package decoder

import (
	"errors"
	"testing"
	"time"

	"stock-stream-srv/internal/model"
)

func rawMsg(key []byte, value string, offset int64) model.RawMessage {
	return model.RawMessage{Topic: "Gainers", Partition: 0, Offset: offset, Key: key, Value: []byte(value)}
}

func TestDecode(t *testing.T) {
	d := New()

	t.Run("end to end quote", func(t *testing.T) {
		batch := model.RawBatch{Messages: []model.RawMessage{
			rawMsg([]byte("GAIN"), `[{"symbol":"AAPL","name":"Apple Inc.","price":150.0,"type":"stock",
				"change":1.5,"change_percent":"1.01","utc_offset_sec":-14400,
				"last_update_utc":"2024-03-01 20:00:00","exchange_open":"2024-03-01T09:30:00-05:00",
				"currency":"USD","exchange":"NASDAQ","timezone":"America/New_York",
				"country_code":"US","google_mid":"/m/07zmbvf"}]`, 0),
		}}

		records, err := d.Decode(batch)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record, got %d", len(records))
		}
		r := records[0]
		if r.Symbol != "AAPL" || r.Name != "Apple Inc." || r.Price != 150.0 {
			t.Errorf("required fields: %+v", r)
		}
		if r.Status == nil || *r.Status != "GAIN" {
			t.Errorf("status: got %v, want GAIN", r.Status)
		}
		if r.ChangePercent == nil || *r.ChangePercent != 1.01 {
			t.Errorf("change_percent should be coerced from string, got %v", r.ChangePercent)
		}
		if r.UTCOffsetSec == nil || *r.UTCOffsetSec != -14400 {
			t.Errorf("utc_offset_sec: got %v", r.UTCOffsetSec)
		}
		wantUpdate := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
		if r.LastUpdateUTC == nil || !r.LastUpdateUTC.Equal(wantUpdate) {
			t.Errorf("last_update_utc: got %v, want %v", r.LastUpdateUTC, wantUpdate)
		}
		wantOpen := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
		if r.ExchangeOpen == nil || !r.ExchangeOpen.Equal(wantOpen) {
			t.Errorf("exchange_open: got %v, want %v", r.ExchangeOpen, wantOpen)
		}
		if r.ExchangeClose != nil || r.PreviousClose != nil {
			t.Errorf("absent optional fields must stay nil: %+v", r)
		}
	})

	t.Run("count equals sum of array lengths with per-message status", func(t *testing.T) {
		batch := model.RawBatch{Messages: []model.RawMessage{
			rawMsg([]byte("GAIN"), `[{"symbol":"A","name":"a","price":1},{"symbol":"B","name":"b","price":2}]`, 0),
			rawMsg([]byte("LOSE"), `[{"symbol":"C","name":"c","price":3}]`, 1),
			rawMsg(nil, `[{"symbol":"D","name":"d","price":4},{"symbol":"E","name":"e","price":5},{"symbol":"F","name":"f","price":6}]`, 2),
		}}

		records, err := d.Decode(batch)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if len(records) != 6 {
			t.Fatalf("expected 6 records, got %d", len(records))
		}
		wantStatus := []string{"GAIN", "GAIN", "LOSE", "", "", ""}
		for i, r := range records {
			if wantStatus[i] == "" {
				if r.Status != nil {
					t.Errorf("record %d: keyless message must give nil status, got %q", i, *r.Status)
				}
				continue
			}
			if r.Status == nil || *r.Status != wantStatus[i] {
				t.Errorf("record %d: status got %v, want %s", i, r.Status, wantStatus[i])
			}
		}
	})

	t.Run("empty array yields no records", func(t *testing.T) {
		records, err := d.Decode(model.RawBatch{Messages: []model.RawMessage{rawMsg([]byte("GAIN"), `[]`, 0)}})
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if len(records) != 0 {
			t.Fatalf("expected 0 records, got %d", len(records))
		}
	})

	t.Run("missing price fails the batch", func(t *testing.T) {
		batch := model.RawBatch{Messages: []model.RawMessage{
			rawMsg([]byte("GAIN"), `[{"symbol":"A","name":"a","price":1}]`, 0),
			rawMsg([]byte("GAIN"), `[{"symbol":"B","name":"b"}]`, 1),
		}}

		records, err := d.Decode(batch)
		if records != nil {
			t.Errorf("expected no partial output, got %d records", len(records))
		}
		if !errors.Is(err, ErrMalformedMessage) {
			t.Fatalf("expected ErrMalformedMessage, got %v", err)
		}
		var de *DecodeError
		if !errors.As(err, &de) {
			t.Fatalf("expected *DecodeError, got %T", err)
		}
		if de.Offset != 1 || de.Index != 0 || de.Field != "price" {
			t.Errorf("unexpected error location: %+v", de)
		}
	})
}

func TestDecodeRejects(t *testing.T) {
	d := New()

	tests := []struct {
		name  string
		value string
		field string
	}{
		{name: "not json", value: `{oops`},
		{name: "object instead of array", value: `{"symbol":"A"}`},
		{name: "null value", value: `null`},
		{name: "trailing data", value: `[] []`},
		{name: "element not object", value: `[1]`},
		{name: "null required field", value: `[{"symbol":null,"name":"a","price":1}]`, field: "symbol"},
		{name: "price not numeric", value: `[{"symbol":"A","name":"a","price":"abc"}]`, field: "price"},
		{name: "price boolean", value: `[{"symbol":"A","name":"a","price":true}]`, field: "price"},
		{name: "fractional integer", value: `[{"symbol":"A","name":"a","price":1,"utc_offset_sec":1.5}]`, field: "utc_offset_sec"},
		{name: "integer overflow", value: `[{"symbol":"A","name":"a","price":1,"utc_offset_sec":9999999999}]`, field: "utc_offset_sec"},
		{name: "bad timestamp", value: `[{"symbol":"A","name":"a","price":1,"exchange_open":"yesterday"}]`, field: "exchange_open"},
		{name: "object as string", value: `[{"symbol":{"x":1},"name":"a","price":1}]`, field: "symbol"},
		{name: "hex float price", value: `[{"symbol":"A","name":"a","price":"0x1p4"}]`, field: "price"},
		{name: "underscore price", value: `[{"symbol":"A","name":"a","price":"1_0"}]`, field: "price"},
		{name: "inf price", value: `[{"symbol":"A","name":"a","price":"inf"}]`, field: "price"},
		{name: "nan price", value: `[{"symbol":"A","name":"a","price":"NaN"}]`, field: "price"},
		{name: "plus sign price", value: `[{"symbol":"A","name":"a","price":"+5"}]`, field: "price"},
		{name: "hex integer", value: `[{"symbol":"A","name":"a","price":1,"utc_offset_sec":"0x10"}]`, field: "utc_offset_sec"},
		{name: "underscore integer", value: `[{"symbol":"A","name":"a","price":1,"utc_offset_sec":"3_600"}]`, field: "utc_offset_sec"},
		{name: "epoch too large", value: `[{"symbol":"A","name":"a","price":1,"last_update_utc":1e20}]`, field: "last_update_utc"},
		{name: "epoch too small", value: `[{"symbol":"A","name":"a","price":1,"last_update_utc":-1e30}]`, field: "last_update_utc"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := d.Decode(model.RawBatch{Messages: []model.RawMessage{rawMsg(nil, tc.value, 7)}})
			var de *DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected *DecodeError, got %v", err)
			}
			if de.Field != tc.field {
				t.Errorf("field: got %q, want %q", de.Field, tc.field)
			}
			if de.Offset != 7 {
				t.Errorf("offset: got %d, want 7", de.Offset)
			}
		})
	}
}

func TestDecodeInvalidUTF8(t *testing.T) {
	msg := model.RawMessage{Topic: "Active", Value: []byte{'[', 0xff, ']'}}
	_, err := New().Decode(model.RawBatch{Messages: []model.RawMessage{msg}})
	if !errors.Is(err, ErrMalformedMessage) {
		t.Fatalf("expected ErrMalformedMessage, got %v", err)
	}
}

func TestDecodeLosslessCoercions(t *testing.T) {
	value := `[{"symbol":123,"name":"n","price":" 42.5 ","utc_offset_sec":"3600","exchange_close":1709326800}]`
	records, err := New().Decode(model.RawBatch{Messages: []model.RawMessage{rawMsg([]byte{0xff}, value, 0)}})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	r := records[0]
	if r.Symbol != "123" {
		t.Errorf("symbol: got %q", r.Symbol)
	}
	if r.Price != 42.5 {
		t.Errorf("price: got %v", r.Price)
	}
	if r.UTCOffsetSec == nil || *r.UTCOffsetSec != 3600 {
		t.Errorf("utc_offset_sec: got %v", r.UTCOffsetSec)
	}
	if r.ExchangeClose == nil || r.ExchangeClose.Unix() != 1709326800 {
		t.Errorf("exchange_close: got %v", r.ExchangeClose)
	}
	if r.Status == nil || *r.Status != "\uFFFD" {
		t.Errorf("invalid UTF-8 key should be replaced, got %v", r.Status)
	}
}
