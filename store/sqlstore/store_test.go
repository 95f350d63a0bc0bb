package sqlstore

import (
	"bytes"
	"context"
	stdsql "database/sql"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/syssam/booltime"
	"github.com/syssam/booltime/dialect"
	"github.com/syssam/booltime/dialect/sql"
)

var epoch = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func fixed() time.Time { return epoch }

var (
	activated = booltime.Declare("activate", booltime.WithClock(fixed))
	closed    = booltime.Declare("close", booltime.WithClock(fixed))
)

type user struct {
	ID          int64
	Name        string
	ActivatedAt *time.Time
	ClosedAt    stdsql.NullTime
}

func mockStore(t *testing.T, name string) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(sql.OpenDB(name, db), "users"), mock
}

func TestUpdateAttribute(t *testing.T) {
	t.Run("writes_only_the_attribute", func(t *testing.T) {
		s, mock := mockStore(t, dialect.Postgres)
		mock.ExpectExec(`UPDATE "users" SET "activated_at" = $1 WHERE "id" = $2`).
			WithArgs(epoch, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		u := &user{ID: 7, Name: "unsaved"}
		require.NoError(t, activated.Act(context.Background(), s, booltime.MustStruct(u)))
		require.NotNil(t, u.ActivatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("clear_writes_null", func(t *testing.T) {
		s, mock := mockStore(t, dialect.SQLite)
		mock.ExpectExec(`UPDATE "users" SET "closed_at" = ? WHERE "id" = ?`).
			WithArgs(nil, int64(7)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rec := booltime.MustStruct(&user{ID: 7})
		require.NoError(t, s.UpdateAttribute(context.Background(), rec, closed.Attribute()))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing_row", func(t *testing.T) {
		s, mock := mockStore(t, dialect.SQLite)
		mock.ExpectExec(`UPDATE "users" SET "activated_at" = ? WHERE "id" = ?`).
			WithArgs(epoch, int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := activated.Act(context.Background(), s, booltime.MustStruct(&user{ID: 9}))
		require.Error(t, err)
		assert.True(t, booltime.IsNotFound(err))
		var nf *booltime.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "users", nf.Table())
		assert.Equal(t, int64(9), nf.Key())
	})

	t.Run("mysql_unchanged_row", func(t *testing.T) {
		s, mock := mockStore(t, dialect.MySQL)
		mock.ExpectExec("UPDATE `users` SET `activated_at` = ? WHERE `id` = ?").
			WithArgs(epoch, int64(9)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		require.NoError(t, activated.Act(context.Background(), s, booltime.MustStruct(&user{ID: 9})))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("driver_error", func(t *testing.T) {
		s, mock := mockStore(t, dialect.SQLite)
		expectedErr := errors.New("database is locked")
		mock.ExpectExec(`UPDATE "users" SET "activated_at" = ? WHERE "id" = ?`).WillReturnError(expectedErr)

		err := activated.Act(context.Background(), s, booltime.MustStruct(&user{ID: 1}))
		assert.ErrorIs(t, err, expectedErr)
		assert.ErrorContains(t, err, "sqlstore: update users.activated_at")
	})

	t.Run("record_without_key", func(t *testing.T) {
		s, _ := mockStore(t, dialect.SQLite)
		err := s.UpdateAttribute(context.Background(), unkeyed{}, "activated_at")
		assert.ErrorIs(t, err, booltime.ErrNoKey)

		err = s.UpdateAttribute(context.Background(), booltime.MustStruct(&struct{ ActivatedAt *time.Time }{}), "activated_at")
		assert.ErrorIs(t, err, booltime.ErrNoKey)
	})
}

func TestInTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		s, mock := mockStore(t, dialect.Postgres)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users" SET "activated_at" = $1 WHERE "id" = $2`).
			WithArgs(epoch, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "users" SET "activated_at" = $1 WHERE "id" = $2`).
			WithArgs(epoch, int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		ctx := context.Background()
		err := s.InTx(ctx, func(tx *Store) error {
			for _, id := range []int64{1, 2} {
				if err := activated.Act(ctx, tx, booltime.MustStruct(&user{ID: id})); err != nil {
					return err
				}
			}
			return nil
		})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback_on_missing_row", func(t *testing.T) {
		s, mock := mockStore(t, dialect.Postgres)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "users" SET "activated_at" = $1 WHERE "id" = $2`).
			WithArgs(epoch, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "users" SET "activated_at" = $1 WHERE "id" = $2`).
			WithArgs(epoch, int64(404)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		ctx := context.Background()
		err := s.InTx(ctx, func(tx *Store) error {
			for _, id := range []int64{1, 404} {
				if err := activated.Act(ctx, tx, booltime.MustStruct(&user{ID: id})); err != nil {
					return err
				}
			}
			return nil
		})
		assert.True(t, booltime.IsNotFound(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin_error", func(t *testing.T) {
		s, mock := mockStore(t, dialect.Postgres)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		called := false
		err := s.InTx(context.Background(), func(*Store) error {
			called = true
			return nil
		})
		assert.ErrorContains(t, err, "sqlstore: begin")
		assert.False(t, called)
	})
}

type unkeyed struct{}

func (unkeyed) Timestamp(string) (*time.Time, error)  { return nil, nil }
func (unkeyed) SetTimestamp(string, *time.Time) error { return nil }

func TestReload(t *testing.T) {
	t.Run("stages_values", func(t *testing.T) {
		s, mock := mockStore(t, dialect.SQLite)
		mock.ExpectQuery(`SELECT "activated_at", "closed_at" FROM "users" WHERE "id" = ?`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"activated_at", "closed_at"}).AddRow(epoch, nil))

		u := &user{ID: 3, ClosedAt: stdsql.NullTime{Time: epoch, Valid: true}}
		require.NoError(t, s.Reload(context.Background(), booltime.MustStruct(u), "activated_at", "closed_at"))
		require.NotNil(t, u.ActivatedAt)
		assert.True(t, epoch.Equal(*u.ActivatedAt))
		assert.False(t, u.ClosedAt.Valid)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing_row", func(t *testing.T) {
		s, mock := mockStore(t, dialect.SQLite)
		mock.ExpectQuery(`SELECT "activated_at" FROM "users" WHERE "id" = ?`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"activated_at"}))

		err := s.Reload(context.Background(), booltime.MustStruct(&user{ID: 3}), "activated_at")
		assert.True(t, booltime.IsNotFound(err))
	})

	t.Run("no_attributes", func(t *testing.T) {
		s, _ := mockStore(t, dialect.SQLite)
		assert.Error(t, s.Reload(context.Background(), booltime.MustStruct(&user{ID: 3})))
	})
}

func TestKeysAndCount(t *testing.T) {
	s, mock := mockStore(t, dialect.Postgres)
	mock.ExpectQuery(`SELECT "id" FROM "users" WHERE "activated_at" IS NOT NULL AND "closed_at" IS NOT NULL ORDER BY "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)).AddRow([]byte("b7")))
	mock.ExpectQuery(`SELECT COUNT(*) FROM "users" WHERE "activated_at" IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(5)))
	mock.ExpectQuery(`SELECT COUNT(*) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(8)))

	ctx := context.Background()
	keys, err := s.Keys(ctx, activated.Scope(), closed.Scope())
	require.NoError(t, err)
	assert.Equal(t, []any{int64(2), "b7"}, keys)

	n, err := s.Count(ctx, activated.Scope())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func openSQLite(t *testing.T, ddl string) *stdsql.DB {
	t.Helper()
	db, err := stdsql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	_, err = db.Exec(ddl)
	require.NoError(t, err)
	return db
}

func TestSQLite(t *testing.T) {
	db := openSQLite(t, `CREATE TABLE users (
		id INTEGER PRIMARY KEY,
		name TEXT,
		activated_at DATETIME,
		closed_at DATETIME
	)`)
	for _, name := range []string{"ann", "bob", "cid"} {
		_, err := db.Exec(`INSERT INTO users (name) VALUES (?)`, name)
		require.NoError(t, err)
	}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	drv := sql.NewStatsDriver(sql.OpenDB(dialect.SQLite, db), sql.WithLogger(logger))
	s := New(drv, "users", WithLogger(logger))
	ctx := context.Background()

	reload := func(t *testing.T, id int64) *user {
		t.Helper()
		u := &user{ID: id}
		require.NoError(t, s.Reload(ctx, booltime.MustStruct(u), "activated_at", "closed_at"))
		return u
	}

	t.Run("action_persists", func(t *testing.T) {
		u := &user{ID: 1}
		require.NoError(t, activated.Act(ctx, s, booltime.MustStruct(u)))
		fresh := reload(t, 1)
		require.NotNil(t, fresh.ActivatedAt)
		assert.True(t, epoch.Equal(*fresh.ActivatedAt))
		assert.False(t, fresh.ClosedAt.Valid)
		assert.Contains(t, buf.String(), "attribute updated")
	})

	t.Run("writer_does_not_persist", func(t *testing.T) {
		u := &user{ID: 2}
		require.NoError(t, closed.Set(booltime.MustStruct(u), "yes"))
		assert.True(t, u.ClosedAt.Valid)
		fresh := reload(t, 2)
		assert.False(t, fresh.ClosedAt.Valid)
	})

	t.Run("scope_selects_set_rows", func(t *testing.T) {
		require.NoError(t, activated.Act(ctx, s, booltime.MustStruct(&user{ID: 3})))
		keys, err := s.Keys(ctx, activated.Scope())
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1), int64(3)}, keys)

		n, err := s.Count(ctx, closed.Scope())
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("clear_persists", func(t *testing.T) {
		u := reload(t, 3)
		rec := booltime.MustStruct(u)
		require.NoError(t, activated.Set(rec, false))
		require.NoError(t, s.UpdateAttribute(ctx, rec, activated.Attribute()))
		keys, err := s.Keys(ctx, activated.Scope())
		require.NoError(t, err)
		assert.Equal(t, []any{int64(1)}, keys)
	})

	t.Run("missing_row", func(t *testing.T) {
		err := activated.Act(ctx, s, booltime.MustStruct(&user{ID: 42}))
		assert.True(t, booltime.IsNotFound(err))
	})

	t.Run("rolled_back_tx_leaves_rows", func(t *testing.T) {
		before := drv.Stats().Snapshot().Execs
		err := s.InTx(ctx, func(tx *Store) error {
			if err := closed.Act(ctx, tx, booltime.MustStruct(&user{ID: 2})); err != nil {
				return err
			}
			return closed.Act(ctx, tx, booltime.MustStruct(&user{ID: 42}))
		})
		assert.True(t, booltime.IsNotFound(err))
		assert.Equal(t, before+2, drv.Stats().Snapshot().Execs)
		assert.False(t, reload(t, 2).ClosedAt.Valid)
	})

	assert.Positive(t, drv.Stats().Snapshot().Execs)
}

type document struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ApprovedAt *time.Time
}

func TestSQLiteUUIDKeys(t *testing.T) {
	db := openSQLite(t, `CREATE TABLE documents (id TEXT PRIMARY KEY, approved_at DATETIME)`)
	a, b := uuid.New(), uuid.New()
	for _, id := range []uuid.UUID{a, b} {
		_, err := db.Exec(`INSERT INTO documents (id) VALUES (?)`, id)
		require.NoError(t, err)
	}
	approved := booltime.Declare("approve", booltime.WithClock(fixed))
	s := New(sql.OpenDB(dialect.SQLite, db), "documents")
	ctx := context.Background()

	require.NoError(t, approved.Act(ctx, s, booltime.MustStruct(&document{ID: b})))
	keys, err := s.Keys(ctx, approved.Scope())
	require.NoError(t, err)
	assert.Equal(t, []any{b.String()}, keys)
}
