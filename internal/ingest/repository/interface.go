package repository

import (
	"context"

	"stock-stream-srv/internal/model"
)

//go:generate mockery --name SinkRepository
type SinkRepository interface {
	// Write appends records as one transaction tagged with batchID. Empty input is a no-op.
	Write(ctx context.Context, batchID int64, records []model.StockRecord) error
	// EnsureTable creates the stock table when it does not exist.
	EnsureTable(ctx context.Context) error
	Ping(ctx context.Context) error
}
