package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	contractx "krishisetu/agent/contract"
)

type PostgresConfig struct {
	DSN string `envconfig:"DSN" split_words:"true"`
}

type queryRow struct {
	bun.BaseModel `bun:"table:query_history"`

	ID       uuid.UUID                     `bun:"id,pk"`
	At       time.Time                     `bun:"at,notnull"`
	Query    contractx.Query               `bun:"query,type:jsonb"`
	Response contractx.SynthesizedResponse `bun:"response,type:jsonb"`
}

// PostgresStore persists records in a query_history table, for deployments
// that already run Postgres and want history queryable with SQL.
type PostgresStore struct {
	db *bun.DB
}

func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("history: ping postgres: %w", err)
	}
	if _, err := db.NewCreateTable().Model((*queryRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("history: create query_history table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Record(ctx context.Context, rec Record) error {
	row := queryRow{ID: rec.ID, At: rec.At, Query: rec.Query, Response: rec.Response}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("history: insert record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return nil, nil
	}
	var rows []queryRow
	err := s.db.NewSelect().Model(&rows).Order("at DESC").Limit(limit).Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("history: select recent: %w", err)
	}
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, Record{ID: row.ID, At: row.At, Query: row.Query, Response: row.Response})
	}
	return records, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
