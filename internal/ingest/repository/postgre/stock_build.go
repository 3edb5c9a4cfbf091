package postgre

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"stock-stream-srv/internal/schema"
)

func str(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func flt(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func i32(v *int32) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}

func ts(v *time.Time) any {
	if v == nil {
		return nil
	}
	return v.UTC()
}

func sqlType(t schema.Type) string {
	switch t {
	case schema.Float:
		return "DOUBLE PRECISION"
	case schema.Integer:
		return "INTEGER"
	case schema.Timestamp:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

func createTableQuery(schemaName, table string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s.%s (\n", pq.QuoteIdentifier(schemaName), pq.QuoteIdentifier(table))
	for _, f := range schema.StockFields() {
		fmt.Fprintf(&b, "\t%s %s", pq.QuoteIdentifier(f.Name), sqlType(f.Type))
		if f.Required {
			b.WriteString(" NOT NULL")
		}
		b.WriteString(",\n")
	}
	fmt.Fprintf(&b, "\t%s TEXT,\n", pq.QuoteIdentifier(schema.FieldStatus))
	fmt.Fprintf(&b, "\t%s BIGINT NOT NULL,\n", pq.QuoteIdentifier(ColumnBatchID))
	b.WriteString("\t\"ingested_at\" TIMESTAMPTZ NOT NULL DEFAULT now()\n)")
	return b.String()
}
