// Package dialect names the SQL dialects supported by the stores and the
// schema check, and defines the driver interfaces they run on.
//
// # Dialect Constants
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// # Driver Interface
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args []any) (sql.Result, error)
//	    Query(ctx context.Context, query string, args []any) (*sql.Rows, error)
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// # Usage
//
//	import (
//	    "github.com/syssam/booltime/dialect"
//	    "github.com/syssam/booltime/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
// # Sub-packages
//
//   - dialect/sql: driver implementation and statement builders
//   - dialect/sql/schema: live schema checks for boolean timestamp columns
package dialect
