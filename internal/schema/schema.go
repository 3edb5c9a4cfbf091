package schema

// Type is the logical type of a quote field.
type Type int

const (
	String Type = iota
	Float
	Integer
	Timestamp
)

func (t Type) String() string {
	switch t {
	case String:
		return "string"
	case Float:
		return "float"
	case Integer:
		return "integer"
	case Timestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// Field describes one key of a decoded quote object.
type Field struct {
	Name     string
	Type     Type
	Required bool
}

// Field names as they appear on the wire and as table columns.
const (
	FieldSymbol                      = "symbol"
	FieldType                        = "type"
	FieldName                        = "name"
	FieldPrice                       = "price"
	FieldChange                      = "change"
	FieldChangePercent               = "change_percent"
	FieldPreviousClose               = "previous_close"
	FieldPreOrPostMarket             = "pre_or_post_market"
	FieldPreOrPostMarketChange       = "pre_or_post_market_change"
	FieldPreOrPosMarketChangePercent = "pre_or_pos_market_change_percent"
	FieldLastUpdateUTC               = "last_update_utc"
	FieldCurrency                    = "currency"
	FieldExchange                    = "exchange"
	FieldExchangeOpen                = "exchange_open"
	FieldExchangeClose               = "exchange_close"
	FieldTimezone                    = "timezone"
	FieldUTCOffsetSec                = "utc_offset_sec"
	FieldCountryCode                 = "country_code"
	FieldGoogleMID                   = "google_mid"

	// FieldStatus is not part of the payload; it is derived from the message key.
	FieldStatus = "status"
)

var stockFields = []Field{
	{Name: FieldSymbol, Type: String, Required: true},
	{Name: FieldType, Type: String},
	{Name: FieldName, Type: String, Required: true},
	{Name: FieldPrice, Type: Float, Required: true},
	{Name: FieldChange, Type: Float},
	{Name: FieldChangePercent, Type: Float},
	{Name: FieldPreviousClose, Type: Float},
	{Name: FieldPreOrPostMarket, Type: Float},
	{Name: FieldPreOrPostMarketChange, Type: Float},
	{Name: FieldPreOrPosMarketChangePercent, Type: Float},
	{Name: FieldLastUpdateUTC, Type: Timestamp},
	{Name: FieldCurrency, Type: String},
	{Name: FieldExchange, Type: String},
	{Name: FieldExchangeOpen, Type: Timestamp},
	{Name: FieldExchangeClose, Type: Timestamp},
	{Name: FieldTimezone, Type: String},
	{Name: FieldUTCOffsetSec, Type: Integer},
	{Name: FieldCountryCode, Type: String},
	{Name: FieldGoogleMID, Type: String},
}

// StockFields returns the quote schema in wire order.
func StockFields() []Field {
	out := make([]Field, len(stockFields))
	copy(out, stockFields)
	return out
}

// Columns returns the sink column names: the schema fields followed by status.
func Columns() []string {
	cols := make([]string, 0, len(stockFields)+1)
	for _, f := range stockFields {
		cols = append(cols, f.Name)
	}
	return append(cols, FieldStatus)
}
