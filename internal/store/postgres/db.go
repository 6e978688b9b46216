package postgres

import (
	"context"
	"time"

	"github.com/XSAM/otelsql"
	"github.com/cenkalti/backoff/v5"
	"github.com/jmoiron/sqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	_ "github.com/jackc/pgx/v5/stdlib"

	"parking-system/internal/logging"
)

// Connect opens an instrumented pgx pool and waits up to timeout for the
// database to answer a ping.
func Connect(ctx context.Context, databaseURL string, timeout time.Duration) (*sqlx.DB, error) {
	db, err := otelsql.Open("pgx", databaseURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, err
	}

	if err := otelsql.RegisterDBStatsMetrics(db, otelsql.WithAttributes(
		semconv.DBSystemPostgreSQL,
	)); err != nil {
		db.Close()
		return nil, err
	}

	sqlxDB := sqlx.NewDb(db, "pgx")

	attempt := 0
	_, err = backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if err := sqlxDB.PingContext(ctx); err != nil {
			logging.Warn(ctx, "database not ready", "attempt", attempt, "error", err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(timeout),
	)
	if err != nil {
		sqlxDB.Close()
		return nil, err
	}

	sqlxDB.SetMaxOpenConns(5)
	sqlxDB.SetMaxIdleConns(2)

	return sqlxDB, nil
}
