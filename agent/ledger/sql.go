package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"

	contractx "github.com/tanpawarit/Chative-Voice-Desk/agent/contract"
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLLedger stores records in SQLite or Postgres through bun. Several
// assistants may share one database; a scoped ledger only reads back its own
// assistant's orders.
type SQLLedger struct {
	db        *bun.DB
	assistant string
}

type SQLOption func(*SQLLedger)

// WithAssistant scopes LastOrder to orders written by one assistant.
func WithAssistant(name string) SQLOption {
	return func(l *SQLLedger) {
		l.assistant = strings.TrimSpace(name)
	}
}

// OpenSQL connects to the ledger database and creates missing tables.
func OpenSQL(ctx context.Context, driver, dsn string, opts ...SQLOption) (*SQLLedger, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("ledger dsn is required for driver %q", driver)
	}

	var db *bun.DB
	switch driver {
	case DriverSQLite:
		sqldb, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite ledger: %w", err)
		}
		// SQLite allows one writer at a time.
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("unsupported ledger driver %q", driver)
	}

	ledger, err := NewSQLLedger(ctx, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return ledger, nil
}

// NewSQLLedger wraps an open bun.DB and creates the record tables if needed.
func NewSQLLedger(ctx context.Context, db *bun.DB, opts ...SQLOption) (*SQLLedger, error) {
	if db == nil {
		return nil, errors.New("bun db is required")
	}
	models := []any{(*OrderRecord)(nil), (*TicketRecord)(nil), (*LeadRecord)(nil)}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return nil, fmt.Errorf("create ledger table: %w", err)
		}
	}
	l := &SQLLedger{db: db}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func (l *SQLLedger) AppendOrder(ctx context.Context, rec OrderRecord) error {
	return l.insert(ctx, &rec)
}

func (l *SQLLedger) LastOrder(ctx context.Context) (OrderRecord, error) {
	var rec OrderRecord
	q := l.db.NewSelect().Model(&rec)
	if l.assistant != "" {
		q = q.Where("assistant = ?", l.assistant)
	}
	err := q.Order("created_at DESC", "id DESC").
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return OrderRecord{}, fmt.Errorf("%w: no orders yet", contractx.ErrNotFound)
	}
	if err != nil {
		return OrderRecord{}, fmt.Errorf("%w: read last order: %v", contractx.ErrPersistence, err)
	}
	return rec, nil
}

func (l *SQLLedger) AppendTicket(ctx context.Context, rec TicketRecord) error {
	return l.insert(ctx, &rec)
}

func (l *SQLLedger) AppendLead(ctx context.Context, rec LeadRecord) error {
	return l.insert(ctx, &rec)
}

func (l *SQLLedger) Close() error {
	return l.db.Close()
}

func (l *SQLLedger) insert(ctx context.Context, model any) error {
	if _, err := l.db.NewInsert().Model(model).Exec(ctx); err != nil {
		return fmt.Errorf("%w: insert record: %v", contractx.ErrPersistence, err)
	}
	return nil
}
