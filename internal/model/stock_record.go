package model

import "time"

// StockRecord is one normalized quote row. Symbol, Name and Price are always set;
// every other field is nil when the payload omitted it or sent null.
type StockRecord struct {
	Symbol                      string
	Type                        *string
	Name                        string
	Price                       float64
	Change                      *float64
	ChangePercent               *float64
	PreviousClose               *float64
	PreOrPostMarket             *float64
	PreOrPostMarketChange       *float64
	PreOrPosMarketChangePercent *float64
	LastUpdateUTC               *time.Time
	Currency                    *string
	Exchange                    *string
	ExchangeOpen                *time.Time
	ExchangeClose               *time.Time
	Timezone                    *string
	UTCOffsetSec                *int32
	CountryCode                 *string
	GoogleMID                   *string

	// Status is the source message key as text; nil when the message had no key.
	Status *string
}

// MicroBatch is one processing cycle: the decoded records plus the raw batch they came from.
type MicroBatch struct {
	ID      int64
	Records []StockRecord
	Source  RawBatch
}
