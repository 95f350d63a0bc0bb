package sql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/syssam/booltime/dialect"
)

// QueryStats holds statement execution counters.
type QueryStats struct {
	Queries  atomic.Int64
	Execs    atomic.Int64
	Duration atomic.Int64 // nanoseconds
	Slow     atomic.Int64
	Errors   atomic.Int64
}

// Snapshot returns a point-in-time copy of the counters.
func (s *QueryStats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Queries:  s.Queries.Load(),
		Execs:    s.Execs.Load(),
		Duration: time.Duration(s.Duration.Load()),
		Slow:     s.Slow.Load(),
		Errors:   s.Errors.Load(),
	}
}

// StatsSnapshot is a point-in-time snapshot of QueryStats.
type StatsSnapshot struct {
	Queries  int64
	Execs    int64
	Duration time.Duration
	Slow     int64
	Errors   int64
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d duration=%s slow=%d errors=%d",
		s.Queries, s.Execs, s.Duration, s.Slow, s.Errors)
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the duration above which a statement is counted
// and logged as slow. Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.threshold = d
	}
}

// WithLogger sets the logger used for slow statements and errors.
// Default is slog.Default().
func WithLogger(l *slog.Logger) StatsOption {
	return func(s *StatsDriver) {
		if l != nil {
			s.log = l
		}
	}
}

// StatsDriver wraps a Driver with statement statistics and slow
// statement logging.
//
//	drv, _ := sql.Open(dialect.Postgres, dsn)
//	st := sql.NewStatsDriver(drv, sql.WithSlowThreshold(200*time.Millisecond))
//	store := sqlstore.New(st, "users")
//	...
//	slog.Info("sql stats", "stats", st.Stats().Snapshot())
type StatsDriver struct {
	*Driver
	stats     *QueryStats
	threshold time.Duration
	log       *slog.Logger
}

// NewStatsDriver wraps drv with statistics collection.
func NewStatsDriver(drv *Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:    drv,
		stats:     &QueryStats{},
		threshold: 100 * time.Millisecond,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stats returns the live counters.
func (d *StatsDriver) Stats() *QueryStats {
	return d.stats
}

// Query runs a query and records statistics.
func (d *StatsDriver) Query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := d.Driver.Query(ctx, query, args)
	d.stats.Queries.Add(1)
	d.record(ctx, query, args, start, err)
	return rows, err
}

// Exec runs a statement and records statistics.
func (d *StatsDriver) Exec(ctx context.Context, query string, args []any) (Result, error) {
	start := time.Now()
	res, err := d.Driver.Exec(ctx, query, args)
	d.stats.Execs.Add(1)
	d.record(ctx, query, args, start, err)
	return res, err
}

// Tx starts a transaction whose statements are recorded like the
// driver's own.
func (d *StatsDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	tx, err := d.Driver.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &statsTx{Tx: tx, drv: d}, nil
}

type statsTx struct {
	*Tx
	drv *StatsDriver
}

func (t *statsTx) Query(ctx context.Context, query string, args []any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := t.Tx.Query(ctx, query, args)
	t.drv.stats.Queries.Add(1)
	t.drv.record(ctx, query, args, start, err)
	return rows, err
}

func (t *statsTx) Exec(ctx context.Context, query string, args []any) (Result, error) {
	start := time.Now()
	res, err := t.Tx.Exec(ctx, query, args)
	t.drv.stats.Execs.Add(1)
	t.drv.record(ctx, query, args, start, err)
	return res, err
}

func (d *StatsDriver) record(ctx context.Context, query string, args []any, start time.Time, err error) {
	elapsed := time.Since(start)
	d.stats.Duration.Add(int64(elapsed))
	if err != nil {
		d.stats.Errors.Add(1)
		d.log.DebugContext(ctx, "statement failed", "query", query, "error", err)
	}
	if elapsed > d.threshold {
		d.stats.Slow.Add(1)
		d.log.WarnContext(ctx, "slow statement", "duration", elapsed, "query", query, "args", args)
	}
}

var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Tx     = (*statsTx)(nil)
)
