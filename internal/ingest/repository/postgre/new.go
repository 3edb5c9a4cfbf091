package postgre

import (
	"database/sql"

	"stock-stream-srv/internal/ingest/repository"
	"stock-stream-srv/pkg/log"
)

const (
	defaultSchema = "public"
	defaultTable  = "stock"

	// ColumnBatchID tags every row with the micro-batch that wrote it.
	ColumnBatchID = "batch_id"
)

type implRepository struct {
	db     *sql.DB
	l      log.Logger
	schema string
	table  string
}

// New - Factory function
func New(db *sql.DB, l log.Logger, opt repository.Options) repository.SinkRepository {
	if opt.Schema == "" {
		opt.Schema = defaultSchema
	}
	if opt.Table == "" {
		opt.Table = defaultTable
	}
	return &implRepository{
		db:     db,
		l:      l,
		schema: opt.Schema,
		table:  opt.Table,
	}
}
