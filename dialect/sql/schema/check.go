package schema

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"

	"ariga.io/atlas/sql/migrate"
	"ariga.io/atlas/sql/mysql"
	"ariga.io/atlas/sql/postgres"
	"ariga.io/atlas/sql/schema"
	"ariga.io/atlas/sql/sqlite"

	"github.com/syssam/booltime"
	"github.com/syssam/booltime/dialect"
)

// Conn is the connection a Checker inspects. *sql.Driver and
// *sql.StatsDriver from dialect/sql satisfy it.
type Conn interface {
	DB() *stdsql.DB
	Dialect() string
}

// Checker inspects live tables through atlas.
type Checker struct {
	drv    migrate.Driver
	schema string
}

// CheckOption configures a Checker.
type CheckOption func(*Checker)

// WithSchema sets the schema to inspect. An empty name means the
// connection's current schema. SQLite defaults to "main".
func WithSchema(name string) CheckOption {
	return func(c *Checker) {
		c.schema = name
	}
}

// NewChecker opens an atlas inspector for the connection's dialect.
func NewChecker(conn Conn, opts ...CheckOption) (*Checker, error) {
	drv, err := open(conn.Dialect(), conn.DB())
	if err != nil {
		return nil, err
	}
	c := &Checker{drv: drv}
	if conn.Dialect() == dialect.SQLite {
		c.schema = "main"
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func open(name string, db *stdsql.DB) (migrate.Driver, error) {
	switch name {
	case dialect.SQLite:
		return sqlite.Open(db)
	case dialect.Postgres:
		return postgres.Open(db)
	case dialect.MySQL:
		return mysql.Open(db)
	default:
		return nil, fmt.Errorf("dialect/sql/schema: unsupported dialect %q", name)
	}
}

// Check is a shorthand for NewChecker followed by Checker.Check.
func Check(ctx context.Context, conn Conn, table string, fields ...*booltime.Field) (*ValidationResult, error) {
	c, err := NewChecker(conn)
	if err != nil {
		return nil, err
	}
	return c.Check(ctx, table, fields...)
}

// Check verifies that table has a nullable time column for every field.
// A missing or NOT NULL column is an error. A column of a non-time type
// is a warning.
func (c *Checker) Check(ctx context.Context, table string, fields ...*booltime.Field) (*ValidationResult, error) {
	s, err := c.drv.InspectSchema(ctx, c.schema, &schema.InspectOptions{
		Tables: []string{table},
	})
	if err != nil && !schema.IsNotExistError(err) {
		return nil, fmt.Errorf("dialect/sql/schema: inspect %q: %w", table, err)
	}
	var (
		t  *schema.Table
		ok bool
	)
	if s != nil {
		t, ok = s.Table(table)
	}
	if !ok {
		return nil, fmt.Errorf("dialect/sql/schema: %w", &ValidationError{
			Table:    table,
			Message:  "table does not exist",
			Breaking: true,
		})
	}
	result := &ValidationResult{}
	for _, f := range fields {
		col, ok := t.Column(f.Attribute())
		switch {
		case !ok:
			result.Errors = append(result.Errors, &ValidationError{
				Table:    table,
				Column:   f.Attribute(),
				Field:    f.Active(),
				Message:  fmt.Sprintf("column for %q is missing", f.Active()),
				Breaking: true,
			})
			continue
		case col.Type == nil:
			continue
		case !col.Type.Null:
			result.Errors = append(result.Errors, &ValidationError{
				Table:    table,
				Column:   f.Attribute(),
				Field:    f.Active(),
				Message:  "column is NOT NULL, clearing the timestamp would fail",
				Breaking: true,
			})
		}
		if _, ok := col.Type.Type.(*schema.TimeType); !ok {
			result.Warnings = append(result.Warnings, &ValidationError{
				Table:   table,
				Column:  f.Attribute(),
				Field:   f.Active(),
				Message: fmt.Sprintf("column type %s is not a time type", typeName(col)),
			})
		}
	}
	return result, nil
}

func typeName(c *schema.Column) string {
	if c.Type.Raw != "" {
		return c.Type.Raw
	}
	return fmt.Sprintf("%T", c.Type.Type)
}

// IsValidationError reports whether err is or wraps a *ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}
