package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fedkart/internal/config"
	"fedkart/internal/database"
	"fedkart/internal/model"
	"fedkart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects through the
// application pool and applies the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	t.Cleanup(func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get container host: %v", err)
	}

	port, err := postgresContainer.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("failed to get container port: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "testuser",
		Password:        "testpass",
		Database:        "testdb",
		MaxConnections:  10,
		MinConnections:  2,
		MaxConnLifetime: 300,
		ConnectTimeout:  10,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPool(ctx, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Federation is the seeded club, athlete, event and discount data.
type Federation struct {
	Harbour uuid.UUID
	Valley  uuid.UUID

	Anna  uuid.UUID // Harbour member with a personal discount on SpringOpen
	Bruno uuid.UUID // Harbour member
	Carla uuid.UUID // no home club
	Dirk  uuid.UUID // Harbour member

	SpringOpen uuid.UUID // Harbour, 25.00
	Relay      uuid.UUID // Harbour, 20.00
	Sprint     uuid.UUID // Harbour, 30.00
	Hurdles    uuid.UUID // Harbour, 15.00
	LongJump   uuid.UUID // Harbour, 20.00
	ValleyCup  uuid.UUID // Valley, 40.00

	Discounts []model.Discount
}

// SeedClubs inserts clubs, athletes and events and returns the federation
// with its discount definitions, which are not stored yet.
func SeedClubs(t *testing.T, pool *pgxpool.Pool) Federation {
	t.Helper()

	ctx := context.Background()

	f := Federation{
		Harbour:    uuid.New(),
		Valley:     uuid.New(),
		Anna:       uuid.New(),
		Bruno:      uuid.New(),
		Carla:      uuid.New(),
		Dirk:       uuid.New(),
		SpringOpen: uuid.New(),
		Relay:      uuid.New(),
		Sprint:     uuid.New(),
		Hurdles:    uuid.New(),
		LongJump:   uuid.New(),
		ValleyCup:  uuid.New(),
	}

	exec := func(query string, args ...any) {
		if _, err := pool.Exec(ctx, query, args...); err != nil {
			t.Fatalf("failed to seed federation: %v", err)
		}
	}

	exec(`INSERT INTO clubs (id, name) VALUES ($1, 'Harbour AC'), ($2, 'Valley Runners')`, f.Harbour, f.Valley)
	exec(`INSERT INTO athletes (id, name, club_id) VALUES ($1, 'Anna', $2), ($3, 'Bruno', $2), ($4, 'Carla', NULL), ($5, 'Dirk', $2)`,
		f.Anna, f.Harbour, f.Bruno, f.Carla, f.Dirk)

	start := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
	events := []struct {
		id    uuid.UUID
		club  uuid.UUID
		title string
		price string
	}{
		{f.SpringOpen, f.Harbour, "Spring Open", "25.00"},
		{f.Relay, f.Harbour, "Relay", "20.00"},
		{f.Sprint, f.Harbour, "Sprint", "30.00"},
		{f.Hurdles, f.Harbour, "Hurdles", "15.00"},
		{f.LongJump, f.Harbour, "Long Jump", "20.00"},
		{f.ValleyCup, f.Valley, "Valley Cup", "40.00"},
	}
	for i, e := range events {
		exec(`INSERT INTO events (id, club_id, title, price, starts_at) VALUES ($1, $2, $3, $4, $5)`,
			e.id, e.club, e.title, decimal.RequireFromString(e.price), start.AddDate(0, 0, i))
	}

	validUntil := time.Now().AddDate(1, 0, 0).UTC().Truncate(time.Second)
	f.Discounts = []model.Discount{
		{ID: uuid.New(), Kind: model.DiscountPersonal, Percentage: 95, ClubID: f.Harbour, ValidUntil: validUntil, AthleteID: &f.Anna, EventIDs: []uuid.UUID{f.SpringOpen}},
		{ID: uuid.New(), Kind: model.DiscountClub, Percentage: 10, ClubID: f.Harbour, ValidUntil: validUntil, EventIDs: []uuid.UUID{f.SpringOpen, f.Relay, f.Sprint}},
		{ID: uuid.New(), Kind: model.DiscountCombo, Percentage: 50, ClubID: f.Harbour, ValidUntil: validUntil, EventIDs: []uuid.UUID{f.Relay, f.Sprint}},
		{ID: uuid.New(), Kind: model.DiscountCombo, Percentage: 50, ClubID: f.Harbour, ValidUntil: validUntil, EventIDs: []uuid.UUID{f.Hurdles, f.LongJump}},
		{ID: uuid.New(), Kind: model.DiscountClub, Percentage: 20, ClubID: f.Valley, ValidUntil: validUntil, EventIDs: []uuid.UUID{f.ValleyCup}},
	}

	return f
}

// SeedFederation inserts the federation including its discounts.
func SeedFederation(t *testing.T, pool *pgxpool.Pool) Federation {
	t.Helper()

	f := SeedClubs(t, pool)
	repo := repository.NewDiscountRepository(pool, zerolog.Nop())
	if err := repo.Upsert(context.Background(), f.Discounts); err != nil {
		t.Fatalf("failed to seed discounts: %v", err)
	}

	return f
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"registrations", "order_lines", "orders", "discounts", "events", "athletes", "clubs"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
