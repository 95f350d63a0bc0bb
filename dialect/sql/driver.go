package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/syssam/booltime/dialect"
)

type (
	// Result is the result of an Exec.
	Result = sql.Result
	// NullTime is a nullable timestamp column value.
	NullTime = sql.NullTime
	// TxOptions configures BeginTx.
	TxOptions = sql.TxOptions
)

// Driver runs statements on a *sql.DB.
type Driver struct {
	db      *sql.DB
	dialect string
}

// Open opens a database with the database/sql driver named by dialect.
func Open(dialect, source string) (*Driver, error) {
	db, err := sql.Open(dialect, source)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: open %s: %w", dialect, err)
	}
	return OpenDB(dialect, db), nil
}

// OpenDB wraps an open database.
func OpenDB(dialect string, db *sql.DB) *Driver {
	return &Driver{db: db, dialect: dialect}
}

// DB returns the wrapped database.
func (d *Driver) DB() *sql.DB { return d.db }

// Dialect returns the dialect name with any wrapper suffix removed.
func (d *Driver) Dialect() string {
	for _, name := range []string{dialect.MySQL, dialect.SQLite, dialect.Postgres} {
		if strings.HasPrefix(d.dialect, name) {
			return name
		}
	}
	return d.dialect
}

// Exec runs a statement that returns no rows.
func (d *Driver) Exec(ctx context.Context, query string, args []any) (Result, error) {
	return execOn(ctx, d.db, query, args)
}

// Query runs a statement that returns rows. The caller closes them.
func (d *Driver) Query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	return queryOn(ctx, d.db, query, args)
}

// Tx starts a transaction with default options.
func (d *Driver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// BeginTx starts a transaction.
func (d *Driver) BeginTx(ctx context.Context, opts *TxOptions) (*Tx, error) {
	tx, err := d.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: begin: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Close closes the database.
func (d *Driver) Close() error { return d.db.Close() }

// Tx is a transaction started by Driver.Tx.
type Tx struct {
	tx *sql.Tx
}

// Exec runs a statement inside the transaction.
func (t *Tx) Exec(ctx context.Context, query string, args []any) (Result, error) {
	return execOn(ctx, t.tx, query, args)
}

// Query runs a query inside the transaction.
func (t *Tx) Query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	return queryOn(ctx, t.tx, query, args)
}

// Commit commits the transaction.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback aborts the transaction.
func (t *Tx) Rollback() error { return t.tx.Rollback() }

type conn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func execOn(ctx context.Context, c conn, q string, args []any) (Result, error) {
	res, err := c.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: exec: %w", err)
	}
	return res, nil
}

func queryOn(ctx context.Context, c conn, q string, args []any) (*sql.Rows, error) {
	rows, err := c.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("dialect/sql: query: %w", err)
	}
	return rows, nil
}

// ColumnScanner is the subset of *sql.Rows used by ScanAll.
type ColumnScanner interface {
	Close() error
	Err() error
	Next() bool
	Scan(dest ...any) error
}

// ScanAll calls scan for every row and closes rows.
func ScanAll(rows ColumnScanner, scan func(ColumnScanner) error) (err error) {
	defer func() { err = errors.Join(err, rows.Close()) }()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

var (
	_ dialect.Driver = (*Driver)(nil)
	_ dialect.Tx     = (*Tx)(nil)
)
