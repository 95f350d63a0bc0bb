// Package sqlstore persists boolean timestamps through a dialect.Driver.
//
//	drv, err := sql.Open(dialect.Postgres, dsn)
//	store := sqlstore.New(drv, "users")
//	err = UserActivated.Act(ctx, store, booltime.MustStruct(u))
//	ids, err := store.Keys(ctx, UserActivated.Scope())
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/syssam/booltime"
	"github.com/syssam/booltime/dialect"
	"github.com/syssam/booltime/dialect/sql"
)

// Store is a booltime.Updater backed by one SQL table.
type Store struct {
	drv   dialect.Driver
	conn  dialect.ExecQuerier
	table string
	key   string
	log   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithKey sets the key column selected by Keys. Default is "id".
func WithKey(column string) Option {
	return func(s *Store) {
		if column != "" {
			s.key = column
		}
	}
}

// New returns a Store for table.
func New(drv dialect.Driver, table string, opts ...Option) *Store {
	s := &Store{
		drv:   drv,
		conn:  drv,
		table: table,
		key:   "id",
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the table name.
func (s *Store) Table() string { return s.table }

// InTx runs fn with a Store whose statements share one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
//
//	err := store.InTx(ctx, func(tx *sqlstore.Store) error {
//		for _, u := range users {
//			if err := UserActivated.Act(ctx, tx, booltime.MustStruct(u)); err != nil {
//				return err
//			}
//		}
//		return nil
//	})
func (s *Store) InTx(ctx context.Context, fn func(*Store) error) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("sqlstore: begin: %w", err)
	}
	scoped := *s
	scoped.conn = tx
	if err := fn(&scoped); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return errors.Join(err, fmt.Errorf("sqlstore: rollback: %w", rerr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlstore: commit: %w", err)
	}
	return nil
}

// UpdateAttribute writes the current value of attr to the row of rec.
// rec must implement booltime.Keyed. Only attr is written.
func (s *Store) UpdateAttribute(ctx context.Context, rec booltime.Record, attr string) error {
	column, key, err := keyOf(rec)
	if err != nil {
		return err
	}
	t, err := rec.Timestamp(attr)
	if err != nil {
		return err
	}
	var value any
	if t != nil {
		value = *t
	}
	query, args := sql.Dialect(s.drv.Dialect()).
		Update(s.table).
		Set(attr, value).
		Where(sql.EQ(column, key)).
		Query()
	res, err := s.conn.Exec(ctx, query, args)
	if err != nil {
		return fmt.Errorf("sqlstore: update %s.%s: %w", s.table, attr, err)
	}
	// MySQL reports changed rows, not matched rows.
	if s.drv.Dialect() != dialect.MySQL {
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("sqlstore: rows affected: %w", err)
		}
		if n == 0 {
			return booltime.NewNotFoundError(s.table, key)
		}
	}
	s.log.DebugContext(ctx, "attribute updated", "table", s.table, "attribute", attr, "key", key, "set", t != nil)
	return nil
}

// Reload reads attrs of rec from its row and stages them on rec.
func (s *Store) Reload(ctx context.Context, rec booltime.Record, attrs ...string) error {
	if len(attrs) == 0 {
		return errors.New("sqlstore: reload requires at least one attribute")
	}
	column, key, err := keyOf(rec)
	if err != nil {
		return err
	}
	query, args := sql.Dialect(s.drv.Dialect()).
		Select(attrs...).
		From(s.table).
		Where(sql.EQ(column, key)).
		Query()
	rows, err := s.conn.Query(ctx, query, args)
	if err != nil {
		return fmt.Errorf("sqlstore: reload %s: %w", s.table, err)
	}
	values := make([]sql.NullTime, len(attrs))
	found := false
	err = sql.ScanAll(rows, func(cs sql.ColumnScanner) error {
		dest := make([]any, len(values))
		for i := range values {
			dest[i] = &values[i]
		}
		found = true
		return cs.Scan(dest...)
	})
	if err != nil {
		return fmt.Errorf("sqlstore: reload %s: %w", s.table, err)
	}
	if !found {
		return booltime.NewNotFoundError(s.table, key)
	}
	for i, attr := range attrs {
		var t *time.Time
		if values[i].Valid {
			t = &values[i].Time
		}
		if err := rec.SetTimestamp(attr, t); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns the key of every row matching all scopes, in key order.
func (s *Store) Keys(ctx context.Context, scopes ...booltime.Scope) ([]any, error) {
	query, args := sql.Dialect(s.drv.Dialect()).
		Select(s.key).
		From(s.table).
		Where(Predicates(scopes...)...).
		OrderBy(s.key).
		Query()
	rows, err := s.conn.Query(ctx, query, args)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: keys %s: %w", s.table, err)
	}
	var keys []any
	err = sql.ScanAll(rows, func(cs sql.ColumnScanner) error {
		var k any
		if err := cs.Scan(&k); err != nil {
			return err
		}
		if b, ok := k.([]byte); ok {
			k = string(b)
		}
		keys = append(keys, k)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sqlstore: keys %s: %w", s.table, err)
	}
	return keys, nil
}

// Count returns the number of rows matching all scopes.
func (s *Store) Count(ctx context.Context, scopes ...booltime.Scope) (int64, error) {
	query, args := sql.Dialect(s.drv.Dialect()).
		Select("COUNT(*)").
		From(s.table).
		Where(Predicates(scopes...)...).
		Query()
	rows, err := s.conn.Query(ctx, query, args)
	if err != nil {
		return 0, fmt.Errorf("sqlstore: count %s: %w", s.table, err)
	}
	var n int64
	err = sql.ScanAll(rows, func(cs sql.ColumnScanner) error {
		return cs.Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("sqlstore: count %s: %w", s.table, err)
	}
	return n, nil
}

// Predicates converts scopes to "column IS NOT NULL" predicates.
func Predicates(scopes ...booltime.Scope) []sql.Predicate {
	preds := make([]sql.Predicate, len(scopes))
	for i, sc := range scopes {
		preds[i] = sql.NotNull(sc.Column)
	}
	return preds
}

func keyOf(rec booltime.Record) (string, any, error) {
	k, ok := rec.(booltime.Keyed)
	if !ok {
		return "", nil, fmt.Errorf("%w: %T does not implement booltime.Keyed", booltime.ErrNoKey, rec)
	}
	return k.Key()
}

var _ booltime.Updater = (*Store)(nil)
