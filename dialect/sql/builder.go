package sql

import (
	"strconv"
	"strings"

	"github.com/syssam/booltime/dialect"
)

// Builder is a SQL string builder with identifier quoting and dialect
// aware placeholders.
type Builder struct {
	sb      strings.Builder
	args    []any
	dialect string
}

// Dialect returns a builder factory for the given dialect.
//
//	sql.Dialect(dialect.Postgres).Update("users").Set("activated_at", now).Where(sql.EQ("id", 1))
func Dialect(name string) *DialectBuilder {
	return &DialectBuilder{dialect: name}
}

// DialectBuilder creates statement builders for one dialect.
type DialectBuilder struct {
	dialect string
}

// Update returns an UPDATE builder for table.
func (d *DialectBuilder) Update(table string) *UpdateBuilder {
	return &UpdateBuilder{Builder: Builder{dialect: d.dialect}, table: table}
}

// Select returns a SELECT builder for the given columns.
func (d *DialectBuilder) Select(columns ...string) *Selector {
	return &Selector{Builder: Builder{dialect: d.dialect}, columns: columns}
}

// WriteString writes s as is.
func (b *Builder) WriteString(s string) *Builder {
	b.sb.WriteString(s)
	return b
}

// Ident writes a quoted identifier. Dotted names are quoted per part and
// expressions such as "*" or "COUNT(*)" are written as is.
func (b *Builder) Ident(s string) *Builder {
	if s == "*" || strings.ContainsAny(s, "(`\" ") {
		b.sb.WriteString(s)
		return b
	}
	for i, part := range strings.Split(s, ".") {
		if i > 0 {
			b.sb.WriteByte('.')
		}
		b.sb.WriteString(b.Quote(part))
	}
	return b
}

// Quote quotes a single identifier for the builder's dialect.
func (b *Builder) Quote(ident string) string {
	if b.dialect == dialect.MySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// Arg writes a placeholder and records v as its argument.
func (b *Builder) Arg(v any) *Builder {
	b.args = append(b.args, v)
	if b.dialect == dialect.Postgres {
		b.sb.WriteString("$" + strconv.Itoa(len(b.args)))
	} else {
		b.sb.WriteByte('?')
	}
	return b
}

// Query returns the statement and its arguments.
func (b *Builder) Query() (string, []any) {
	return b.sb.String(), b.args
}

// Predicate renders a boolean SQL expression into a builder.
type Predicate func(*Builder)

// EQ returns a "column = value" predicate.
func EQ(column string, v any) Predicate {
	return func(b *Builder) {
		b.Ident(column).WriteString(" = ").Arg(v)
	}
}

// IsNull returns a "column IS NULL" predicate.
func IsNull(column string) Predicate {
	return func(b *Builder) {
		b.Ident(column).WriteString(" IS NULL")
	}
}

// NotNull returns a "column IS NOT NULL" predicate.
func NotNull(column string) Predicate {
	return func(b *Builder) {
		b.Ident(column).WriteString(" IS NOT NULL")
	}
}

// And groups predicates with the AND operator between them.
// A single predicate is written without parentheses.
func And(preds ...Predicate) Predicate {
	return func(b *Builder) {
		switch len(preds) {
		case 0:
			b.WriteString("TRUE")
		case 1:
			preds[0](b)
		default:
			b.WriteString("(")
			for i, p := range preds {
				if i > 0 {
					b.WriteString(" AND ")
				}
				p(b)
			}
			b.WriteString(")")
		}
	}
}

type assignment struct {
	column string
	value  any
}

// UpdateBuilder builds an UPDATE statement.
type UpdateBuilder struct {
	Builder
	table string
	sets  []assignment
	where []Predicate
}

// Set adds a "column = value" assignment.
func (u *UpdateBuilder) Set(column string, v any) *UpdateBuilder {
	u.sets = append(u.sets, assignment{column: column, value: v})
	return u
}

// Where adds predicates joined with AND.
func (u *UpdateBuilder) Where(preds ...Predicate) *UpdateBuilder {
	u.where = append(u.where, preds...)
	return u
}

// Query returns the statement and its arguments.
func (u *UpdateBuilder) Query() (string, []any) {
	u.WriteString("UPDATE ").Ident(u.table).WriteString(" SET ")
	for i, s := range u.sets {
		if i > 0 {
			u.WriteString(", ")
		}
		u.Ident(s.column).WriteString(" = ").Arg(s.value)
	}
	writeWhere(&u.Builder, u.where)
	return u.Builder.Query()
}

// Selector builds a SELECT statement.
type Selector struct {
	Builder
	columns []string
	table   string
	where   []Predicate
	order   []string
}

// From sets the table to select from.
func (s *Selector) From(table string) *Selector {
	s.table = table
	return s
}

// Where adds predicates joined with AND.
func (s *Selector) Where(preds ...Predicate) *Selector {
	s.where = append(s.where, preds...)
	return s
}

// OrderBy appends ascending order columns.
func (s *Selector) OrderBy(columns ...string) *Selector {
	s.order = append(s.order, columns...)
	return s
}

// Query returns the statement and its arguments.
func (s *Selector) Query() (string, []any) {
	s.WriteString("SELECT ")
	if len(s.columns) == 0 {
		s.WriteString("*")
	}
	for i, c := range s.columns {
		if i > 0 {
			s.WriteString(", ")
		}
		s.Ident(c)
	}
	s.WriteString(" FROM ").Ident(s.table)
	writeWhere(&s.Builder, s.where)
	for i, c := range s.order {
		if i == 0 {
			s.WriteString(" ORDER BY ")
		} else {
			s.WriteString(", ")
		}
		s.Ident(c)
	}
	return s.Builder.Query()
}

func writeWhere(b *Builder, preds []Predicate) {
	if len(preds) == 0 {
		return
	}
	b.WriteString(" WHERE ")
	for i, p := range preds {
		if i > 0 {
			b.WriteString(" AND ")
		}
		p(b)
	}
}
