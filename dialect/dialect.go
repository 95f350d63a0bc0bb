package dialect

import (
	"context"
	"database/sql"
)

// Dialect names. Driver names with one of these as prefix, such as
// "postgres-otel", resolve to the bare name.
const (
	MySQL    = "mysql"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// ExecQuerier runs statements. args are the positional arguments of the
// query as produced by the dialect/sql builders.
type ExecQuerier interface {
	Exec(ctx context.Context, query string, args []any) (sql.Result, error)
	Query(ctx context.Context, query string, args []any) (*sql.Rows, error)
}

// Driver is the connection the stores and the schema check run on.
type Driver interface {
	ExecQuerier
	// Tx starts a transaction.
	Tx(context.Context) (Tx, error)
	Close() error
	// Dialect returns one of MySQL, SQLite or Postgres.
	Dialect() string
}

// Tx is an ExecQuerier bound to a transaction.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}
