package postgre

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/lib/pq"

	"stock-stream-srv/internal/ingest/repository"
	"stock-stream-srv/internal/model"
	"stock-stream-srv/internal/schema"
)

// Write - COPY the batch into the stock table inside one transaction
func (r *implRepository) Write(ctx context.Context, batchID int64, records []model.StockRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return r.fail(ctx, batchID, "begin", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyInSchema(r.schema, r.table, columns()...))
	if err != nil {
		_ = tx.Rollback()
		return r.fail(ctx, batchID, "prepare copy", err)
	}

	for i := range records {
		if _, err := stmt.ExecContext(ctx, rowValues(&records[i], batchID)...); err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return r.fail(ctx, batchID, fmt.Sprintf("copy row %d", i), err)
		}
	}

	// An argument-less Exec flushes the COPY buffer; most server-side errors show up here.
	if _, err := stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		_ = tx.Rollback()
		return r.fail(ctx, batchID, "flush copy", err)
	}
	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return r.fail(ctx, batchID, "close copy", err)
	}
	if err := tx.Commit(); err != nil {
		return r.fail(ctx, batchID, "commit", err)
	}

	r.l.Debugf(ctx, "ingest.repository.postgre.Write: batch %d: %d rows into %s.%s", batchID, len(records), r.schema, r.table)
	return nil
}

// EnsureTable - Create the stock table if missing
func (r *implRepository) EnsureTable(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTableQuery(r.schema, r.table)); err != nil {
		r.l.Errorf(ctx, "ingest.repository.postgre.EnsureTable: %s.%s: %v", r.schema, r.table, err)
		return fmt.Errorf("%w: %s.%s: %w", repository.ErrFailedToEnsureTable, r.schema, r.table, err)
	}
	return nil
}

func (r *implRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *implRepository) fail(ctx context.Context, batchID int64, op string, err error) error {
	retryable := isRetryable(err)
	r.l.Errorf(ctx, "ingest.repository.postgre.Write: batch %d: %s (retryable=%t): %v", batchID, op, retryable, err)
	return &repository.SinkError{
		BatchID:   batchID,
		Retryable: retryable,
		Err:       fmt.Errorf("%s: %w", op, err),
	}
}

// isRetryable holds for connection loss, serialization and deadlock rollbacks,
// resource exhaustion and operator intervention.
func isRetryable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "40", "53":
			return true
		}
		return strings.HasPrefix(string(pqErr.Code), "57P")
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

func columns() []string {
	return append(schema.Columns(), ColumnBatchID)
}

// rowValues follows schema column order. Optional fields become SQL NULL when nil.
func rowValues(rec *model.StockRecord, batchID int64) []any {
	return []any{
		rec.Symbol,
		str(rec.Type),
		rec.Name,
		rec.Price,
		flt(rec.Change),
		flt(rec.ChangePercent),
		flt(rec.PreviousClose),
		flt(rec.PreOrPostMarket),
		flt(rec.PreOrPostMarketChange),
		flt(rec.PreOrPosMarketChangePercent),
		ts(rec.LastUpdateUTC),
		str(rec.Currency),
		str(rec.Exchange),
		ts(rec.ExchangeOpen),
		ts(rec.ExchangeClose),
		str(rec.Timezone),
		i32(rec.UTCOffsetSec),
		str(rec.CountryCode),
		str(rec.GoogleMID),
		str(rec.Status),
		batchID,
	}
}
