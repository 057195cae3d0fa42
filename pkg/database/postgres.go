package database

import (
	"context"
	"fmt"
	"time"

	"venue-bot/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// PgxIface is what repositories need from the pool; pgxmock implements it
// in tests.
type PgxIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var _ PgxIface = (*pgxpool.Pool)(nil)

// InitDB opens the connection pool and pings it. Statements slower than
// config.SlowQuery, and failed ones, are logged.
func InitDB(ctx context.Context, config utils.DatabaseConfig, log *zap.Logger) (*pgxpool.Pool, error) {
	connStr := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
		config.User, config.Password, config.Name, config.Host, config.Port)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}
	poolConfig.MinConns = 1
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute
	poolConfig.ConnConfig.ConnectTimeout = 5 * time.Second
	poolConfig.ConnConfig.Tracer = NewQueryTracer(config.SlowQuery, log)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database %s:%s: %w", config.Host, config.Port, err)
	}

	return pool, nil
}

type queryStartKey struct{}

type queryStart struct {
	sql string
	at  time.Time
}

// QueryTracer logs failed and slow statements.
type QueryTracer struct {
	slow time.Duration
	log  *zap.Logger
}

// NewQueryTracer returns a tracer; slow <= 0 only logs failures.
func NewQueryTracer(slow time.Duration, log *zap.Logger) *QueryTracer {
	return &QueryTracer{slow: slow, log: log.With(zap.String("component", "postgres"))}
}

func (t *QueryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, at: time.Now()})
}

func (t *QueryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	start, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := time.Since(start.at)

	fields := []zap.Field{
		zap.String("sql", utils.Excerpt(start.sql, 200)),
		zap.Duration("duration", elapsed),
	}
	if traceID, ok := utils.GetTraceID(ctx); ok {
		fields = append(fields, zap.String("trace_id", traceID))
	}

	switch {
	case data.Err != nil:
		t.log.Warn("Query failed", append(fields, zap.Error(data.Err))...)
	case t.slow > 0 && elapsed >= t.slow:
		t.log.Warn("Slow query", append(fields, zap.String("command", data.CommandTag.String()))...)
	}
}
