package transform

import (
	"context"
	"math"
	"strings"

	"stock-stream-srv/internal/model"
)

// Transformer maps a decoded batch to the rows that get persisted.
type Transformer interface {
	Transform(ctx context.Context, records []model.StockRecord) ([]model.StockRecord, error)
}

// Func adapts a plain function to Transformer.
type Func func(ctx context.Context, records []model.StockRecord) ([]model.StockRecord, error)

func (f Func) Transform(ctx context.Context, records []model.StockRecord) ([]model.StockRecord, error) {
	return f(ctx, records)
}

// Identity returns records unchanged.
var Identity Transformer = Func(func(_ context.Context, records []model.StockRecord) ([]model.StockRecord, error) {
	return records, nil
})

type normalizer struct{}

// NewNormalizer returns the default transformer: trims text fields, upper-cases
// symbol, currency and country code, and fills change_percent from change and
// previous_close when the feed left it out.
func NewNormalizer() Transformer {
	return normalizer{}
}

func (normalizer) Transform(ctx context.Context, records []model.StockRecord) ([]model.StockRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]model.StockRecord, len(records))
	for i, r := range records {
		r.Symbol = strings.ToUpper(strings.TrimSpace(r.Symbol))
		r.Name = strings.TrimSpace(r.Name)
		r.Type = trimmed(r.Type, false)
		r.Currency = trimmed(r.Currency, true)
		r.Exchange = trimmed(r.Exchange, false)
		r.Timezone = trimmed(r.Timezone, false)
		r.CountryCode = trimmed(r.CountryCode, true)
		r.GoogleMID = trimmed(r.GoogleMID, false)

		if r.ChangePercent == nil && r.Change != nil && r.PreviousClose != nil && *r.PreviousClose != 0 {
			pct := math.Round(*r.Change / *r.PreviousClose * 100 * 1e4) / 1e4
			r.ChangePercent = &pct
		}
		out[i] = r
	}
	return out, nil
}

// trimmed returns a new pointer so the input record is never mutated; blank strings become nil.
func trimmed(s *string, upper bool) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	if upper {
		v = strings.ToUpper(v)
	}
	return &v
}
