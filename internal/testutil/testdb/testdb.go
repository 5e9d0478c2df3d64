//go:build integration

// Package testdb starts a throwaway Postgres container with the schema migrated.
package testdb

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ccnu/student-achievements/internal/app/migrations"
)

// DBHandle owns the container and a pool connected to it
type DBHandle struct {
	Pool *pgxpool.Pool
	stop func(context.Context) error
}

// Close releases the pool and terminates the container
func (h *DBHandle) Close() {
	if h.Pool != nil {
		h.Pool.Close()
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
}

// Start runs postgres:17-alpine and applies every migration
func Start(ctx context.Context) (*DBHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("achievements"),
		postgres.WithUsername("achievements"),
		postgres.WithPassword("achievements"),
		tc.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute)),
	)
	if err != nil {
		return nil, err
	}

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}

	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		_ = pg.Terminate(ctx)
		return nil, err
	}

	if err := migrations.Up(ctx, pool); err != nil {
		pool.Close()
		_ = pg.Terminate(ctx)
		return nil, err
	}

	return &DBHandle{Pool: pool, stop: pg.Terminate}, nil
}

// Reset empties every table between tests
func (h *DBHandle) Reset(ctx context.Context) error {
	_, err := h.Pool.Exec(ctx, `TRUNCATE achievement_images, papers, policy_reports,
		academic_exchanges, volunteer_services, awards, achievements, users RESTART IDENTITY CASCADE`)
	return err
}
