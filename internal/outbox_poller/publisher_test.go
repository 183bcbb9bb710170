package outbox_poller

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ledgerbooks/backend/internal/domain/ledger"
	"github.com/ledgerbooks/backend/internal/domain/outbox"
	"github.com/ledgerbooks/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockOutboxRepo) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetByEventID(ctx context.Context, eventID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) WithTx(tx pgx.Tx) outbox.Repository {
	return m
}

type mockProducer struct {
	mock.Mock
}

func (m *mockProducer) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockProducer) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestMessage(t *testing.T) *outbox.Message {
	t.Helper()
	tx, err := ledger.NewTransaction("INV-2024-001", "Office supplies", time.Now(), 7, []*ledger.Entry{
		{AccountID: 1, DebitAmount: 5000},
		{AccountID: 2, CreditAmount: 5000},
	})
	require.NoError(t, err)
	tx.ID = 10

	message, err := outbox.NewMessage(shared.NewPostedEvent(tx, "corr-1"))
	require.NoError(t, err)
	message.ID = 1
	return message
}

func TestEventPublisher_PublishEvent(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	t.Run("publishes and marks processed", func(t *testing.T) {
		repo := new(mockOutboxRepo)
		producer := new(mockProducer)
		publisher := NewEventPublisher(repo, producer, logger)
		message := newTestMessage(t)

		producer.On("Publish", ctx, "10", mock.AnythingOfType("*shared.LedgerEvent")).Return(nil)
		repo.On("UpdateStatus", ctx, int64(1), shared.OutboxStatusProcessed).Return(nil)

		err := publisher.PublishEvent(ctx, message)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
		producer.AssertExpectations(t)
	})

	t.Run("broker failure leaves message pending", func(t *testing.T) {
		repo := new(mockOutboxRepo)
		producer := new(mockProducer)
		publisher := NewEventPublisher(repo, producer, logger)
		message := newTestMessage(t)

		producer.On("Publish", ctx, "10", mock.Anything).Return(errors.New("broker down"))

		err := publisher.PublishEvent(ctx, message)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("undecodable payload is parked", func(t *testing.T) {
		repo := new(mockOutboxRepo)
		producer := new(mockProducer)
		publisher := NewEventPublisher(repo, producer, logger)
		message := newTestMessage(t)
		message.Payload = []byte("{not json")

		repo.On("UpdateStatus", ctx, int64(1), shared.OutboxStatusFailedToPublish).Return(nil)

		err := publisher.PublishEvent(ctx, message)
		assert.Error(t, err)
		repo.AssertExpectations(t)
		producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}
