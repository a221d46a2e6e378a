// Package pgtest starts a throwaway PostgreSQL for integration tests and
// provides row fixtures for them.
package pgtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/yigit/activityhub/internal/app/migrations"
)

// Database is a migrated PostgreSQL running in a container
type Database struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
}

// Start launches postgres:16-alpine and applies the schema. A missing or
// unreachable Docker daemon is reported as an error.
func Start(ctx context.Context) (database *Database, err error) {
	// testcontainers panics when it cannot locate a Docker host
	defer func() {
		if r := recover(); r != nil {
			database = nil
			err = fmt.Errorf("docker unavailable: %v", r)
		}
	}()

	if err := dockerHealthy(ctx); err != nil {
		return nil, err
	}

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("activityhub"),
		postgres.WithUsername("activityhub"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start container: %w", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable", "application_name=test")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	cfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	cfg.MaxConns = 64

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := migrations.NewMigrator(pool).Up(ctx); err != nil {
		pool.Close()
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return &Database{Container: container, Pool: pool}, nil
}

func dockerHealthy(ctx context.Context) error {
	provider, err := testcontainers.NewDockerProvider()
	if err != nil {
		return fmt.Errorf("docker unavailable: %w", err)
	}
	defer provider.Close()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := provider.Health(ctx); err != nil {
		return fmt.Errorf("docker unavailable: %w", err)
	}
	return nil
}

// Close releases the pool and removes the container
func (d *Database) Close(ctx context.Context) {
	if d == nil {
		return
	}
	d.Pool.Close()
	if err := testcontainers.TerminateContainer(d.Container, testcontainers.StopContext(ctx)); err != nil {
		fmt.Printf("failed to terminate postgres container: %v\n", err)
	}
}

// Require skips the test when no database could be started
func Require(t *testing.T, d *Database) *pgxpool.Pool {
	t.Helper()
	if d == nil {
		t.Skip("docker is not available, skipping integration test")
	}
	t.Cleanup(func() {
		_, err := d.Pool.Exec(context.Background(),
			`TRUNCATE TABLE comments, participations, activities, categories, accounts, users RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
	})
	return d.Pool
}

// InsertUser creates a user row
func InsertUser(t *testing.T, pool *pgxpool.Pool, name string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING id`,
		name, fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertCategory creates a category row
func InsertCategory(t *testing.T, pool *pgxpool.Pool, name string, parentID *uuid.UUID) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO categories (name, parent_id) VALUES ($1, $2) RETURNING id`, name, parentID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// ActivityFixture describes an activity row. Zero values get sensible defaults.
type ActivityFixture struct {
	Title               string
	Description         string
	Location            string
	StartDate           time.Time
	MaxParticipants     int
	CurrentParticipants int
	Status              string
	CreatorID           uuid.UUID
	CategoryID          uuid.UUID
	CreatedAt           time.Time
}

// InsertActivity creates an activity row. CurrentParticipants is written as
// given, so callers seeding a non-zero counter must add matching participations.
func InsertActivity(t *testing.T, pool *pgxpool.Pool, f ActivityFixture) uuid.UUID {
	t.Helper()
	if f.Title == "" {
		f.Title = "Morning run"
	}
	if f.Description == "" {
		f.Description = "An easy run along the shore"
	}
	if f.Location == "" {
		f.Location = "Moda, Istanbul"
	}
	if f.StartDate.IsZero() {
		f.StartDate = time.Now().Add(48 * time.Hour)
	}
	if f.MaxParticipants == 0 {
		f.MaxParticipants = 10
	}
	if f.Status == "" {
		f.Status = "upcoming"
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}

	var id uuid.UUID
	err := pool.QueryRow(context.Background(), `
		INSERT INTO activities (title, description, start_date, end_date, location, max_participants,
			current_participants, status, creator_id, category_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		f.Title, f.Description, f.StartDate, f.StartDate.Add(2*time.Hour), f.Location, f.MaxParticipants,
		f.CurrentParticipants, f.Status, f.CreatorID, f.CategoryID, f.CreatedAt,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// InsertParticipation creates a participation row without touching the counter
func InsertParticipation(t *testing.T, pool *pgxpool.Pool, activityID, userID uuid.UUID, status string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO participations (activity_id, user_id, status) VALUES ($1, $2, $3)`,
		activityID, userID, status)
	require.NoError(t, err)
}

// Counter reads the stored participant counter of an activity
func Counter(t *testing.T, pool *pgxpool.Pool, activityID uuid.UUID) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(),
		`SELECT current_participants FROM activities WHERE id = $1`, activityID).Scan(&n))
	return n
}
