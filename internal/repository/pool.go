package repository

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/limbo/habitflow/internal/metrics"
	"github.com/limbo/habitflow/pkg/cleanup"
)

// Connect opens the shared pool for all repositories and registers its closing.
func Connect(cfg DBConfig) *pgxpool.Pool {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating pgxpool error: " + err.Error())
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	if err = pool.Ping(ctx); err != nil {
		log.Fatal("error while pinging pgxpool: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return pool
}

type instrumentedConn struct {
	PgConnection
}

// Instrument records the duration of every statement in the db query histogram.
func Instrument(conn PgConnection) PgConnection {
	return &instrumentedConn{PgConnection: conn}
}

func (c *instrumentedConn) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	defer metrics.ObserveDBQuery("exec", time.Now())
	return c.PgConnection.Exec(ctx, sql, arguments...)
}

func (c *instrumentedConn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()
	rows, err := c.PgConnection.Query(ctx, sql, args...)
	if err != nil {
		metrics.ObserveDBQuery("query", start)
		return nil, err
	}
	return &instrumentedRows{Rows: rows, start: start}, nil
}

// QueryRow is timed until the row is scanned, where pgx actually waits for the result.
func (c *instrumentedConn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return &instrumentedRow{row: c.PgConnection.QueryRow(ctx, sql, args...), start: time.Now()}
}

type instrumentedRow struct {
	row   pgx.Row
	start time.Time
}

func (r *instrumentedRow) Scan(dest ...any) error {
	defer metrics.ObserveDBQuery("query_row", r.start)
	return r.row.Scan(dest...)
}

// instrumentedRows is observed once, when iteration ends or the rows are closed.
type instrumentedRows struct {
	pgx.Rows
	start    time.Time
	observed bool
}

func (r *instrumentedRows) Next() bool {
	if r.Rows.Next() {
		return true
	}
	r.observe()
	return false
}

func (r *instrumentedRows) Close() {
	r.Rows.Close()
	r.observe()
}

func (r *instrumentedRows) observe() {
	if r.observed {
		return
	}
	r.observed = true
	metrics.ObserveDBQuery("query", r.start)
}
