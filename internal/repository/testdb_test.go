package repository

import (
	"context"
	"testing"
	"time"

	"fedkart/internal/database"
	"fedkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the application schema
// and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// fixture holds the rows seeded for a repository test.
type fixture struct {
	club    uuid.UUID
	athlete uuid.UUID
	events  []model.Event
}

// seedFixture inserts one club, one member athlete and the given events,
// all organised by that club.
func seedFixture(t *testing.T, pool *pgxpool.Pool, prices ...string) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{club: uuid.New(), athlete: uuid.New()}

	_, err := pool.Exec(ctx, `INSERT INTO clubs (id, name) VALUES ($1, $2)`, f.club, "Harbour AC")
	require.NoError(t, err)

	_, err = pool.Exec(ctx, `INSERT INTO athletes (id, name, club_id) VALUES ($1, $2, $3)`, f.athlete, "Anna", f.club)
	require.NoError(t, err)

	start := time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC)
	for i, price := range prices {
		e := model.Event{
			ID:       uuid.New(),
			ClubID:   f.club,
			Title:    "Event " + string(rune('A'+i)),
			Price:    decimal.RequireFromString(price),
			StartsAt: start.AddDate(0, 0, i),
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO events (id, club_id, title, price, starts_at) VALUES ($1, $2, $3, $4, $5)`,
			e.ID, e.ClubID, e.Title, e.Price, e.StartsAt)
		require.NoError(t, err)
		f.events = append(f.events, e)
	}

	return f
}

// seedCartItem creates a price line and a pending registration of the
// fixture athlete for event inside order.
func seedCartItem(t *testing.T, pool *pgxpool.Pool, orderID uuid.UUID, athleteID uuid.UUID, event model.Event) model.Registration {
	t.Helper()
	ctx := context.Background()
	logger := zerolog.Nop()

	line := &model.OrderLine{
		ID:          uuid.New(),
		OrderID:     &orderID,
		Kind:        model.LinePrice,
		Description: event.Title,
		Amount:      event.Price,
		ClubID:      &event.ClubID,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, NewCartRepository(pool, logger).CreateOrderLine(ctx, line))

	reg := model.Registration{
		ID:        uuid.New(),
		LineID:    line.ID,
		OrderID:   orderID,
		AthleteID: athleteID,
		EventID:   event.ID,
		Status:    model.RegistrationPending,
	}

	repo := NewOrderRepository(pool, logger)
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateRegistration(ctx, tx, &reg))
	require.NoError(t, tx.Commit(ctx))

	return reg
}

// seedOrder commits a new cart order.
func seedOrder(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	repo := NewOrderRepository(pool, zerolog.Nop())
	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	now := time.Now()
	order := &model.Order{ID: uuid.New(), Status: model.OrderCart, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateOrder(ctx, tx, order))
	require.NoError(t, tx.Commit(ctx))

	return order.ID
}
