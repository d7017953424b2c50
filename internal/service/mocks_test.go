package service

import (
	"context"
	"time"

	"fedkart/internal/discount"
	"fedkart/internal/model"
	"fedkart/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	// Return a MockTx interface value, not a pointer
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	args := m.Called(ctx, tx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) LockOrder(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status model.OrderStatus) error {
	args := m.Called(ctx, tx, id, status)
	return args.Error(0)
}

func (m *MockOrderRepository) CreateRegistration(ctx context.Context, tx pgx.Tx, reg *model.Registration) error {
	args := m.Called(ctx, tx, reg)
	return args.Error(0)
}

func (m *MockOrderRepository) HasActiveRegistration(ctx context.Context, tx pgx.Tx, athleteID, eventID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tx, athleteID, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) GetRegistration(ctx context.Context, tx pgx.Tx, orderID, registrationID uuid.UUID) (*model.Registration, error) {
	args := m.Called(ctx, tx, orderID, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockOrderRepository) RemoveRegistration(ctx context.Context, tx pgx.Tx, reg *model.Registration) error {
	args := m.Called(ctx, tx, reg)
	return args.Error(0)
}

func (m *MockOrderRepository) FinalizeRegistrations(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GetCartLineIDs(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, tx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockOrderRepository) DeleteDiscountLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tx, orderID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) AttachLines(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, lineIDs []uuid.UUID) error {
	args := m.Called(ctx, tx, orderID, lineIDs)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.Registration, []model.OrderLine, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, nil, nil, args.Error(3)
	}
	return args.Get(0).(*model.Order), args.Get(1).([]model.Registration), args.Get(2).([]model.OrderLine), args.Error(3)
}

// MockCartRepository is a mock implementation of CartRepository. Only the
// price line insert is exercised by the service; the engine is mocked.
type MockCartRepository struct {
	mock.Mock
}

func (m *MockCartRepository) GetRegistrationsByLines(ctx context.Context, lineIDs []uuid.UUID) ([]model.Registration, error) {
	args := m.Called(ctx, lineIDs)
	return args.Get(0).([]model.Registration), args.Error(1)
}

func (m *MockCartRepository) GetOtherRegistrations(ctx context.Context, athleteIDs, exclude []uuid.UUID) ([]model.Registration, error) {
	args := m.Called(ctx, athleteIDs, exclude)
	return args.Get(0).([]model.Registration), args.Error(1)
}

func (m *MockCartRepository) GetActiveDiscounts(ctx context.Context, clubIDs []uuid.UUID, at time.Time) ([]model.Discount, error) {
	args := m.Called(ctx, clubIDs, at)
	return args.Get(0).([]model.Discount), args.Error(1)
}

func (m *MockCartRepository) GetEvents(ctx context.Context, ids []uuid.UUID) ([]model.Event, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]model.Event), args.Error(1)
}

func (m *MockCartRepository) SaveDiscount(ctx context.Context, registrationID uuid.UUID, discountID *uuid.UUID) error {
	args := m.Called(ctx, registrationID, discountID)
	return args.Error(0)
}

func (m *MockCartRepository) CreateOrderLine(ctx context.Context, line *model.OrderLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockCartRepository) WithTx(pgx.Tx) repository.CartRepository {
	return m
}

// MockResolver is a mock implementation of discount.Resolver.
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx context.Context, lineIDs []uuid.UUID) ([]model.OrderLine, error) {
	args := m.Called(ctx, lineIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderLine), args.Error(1)
}

func (m *MockResolver) WithTx(pgx.Tx) discount.Resolver {
	return m
}

// MockPublisher is a mock implementation of events.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, exchange, routingKey string, body any) error {
	args := m.Called(ctx, exchange, routingKey, body)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return nil
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
	committed  bool
	rolledBack bool
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	m.committed = true
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	m.rolledBack = true
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }
