package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/ledgerbooks/backend/internal/domain/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestBalanceCache_GetSet(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	cache := NewBalanceCache(newTestLogger(), client, time.Minute)

	balance := account.Balance{Debits: 150000, Credits: 20000}
	payload, err := json.Marshal(balance)
	require.NoError(t, err)

	t.Run("miss", func(t *testing.T) {
		mock.ExpectGet("balance:account:42").RedisNil()

		_, found, err := cache.Get(ctx, 42)
		assert.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set then hit", func(t *testing.T) {
		mock.ExpectSet("balance:account:42", payload, time.Minute).SetVal("OK")
		mock.ExpectGet("balance:account:42").SetVal(string(payload))

		err := cache.Set(ctx, 42, balance)
		assert.NoError(t, err)

		got, found, err := cache.Get(ctx, 42)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, balance, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt value is a miss", func(t *testing.T) {
		mock.ExpectGet("balance:account:42").SetVal("{not json")
		mock.ExpectDel("balance:account:42").SetVal(1)

		_, found, err := cache.Get(ctx, 42)
		assert.NoError(t, err)
		assert.False(t, found)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBalanceCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	cache := NewBalanceCache(newTestLogger(), client, time.Minute)

	mock.ExpectDel("balance:account:1", "balance:account:2").SetVal(2)

	cache.Invalidate(ctx, 1, 2)
	assert.NoError(t, mock.ExpectationsWereMet())

	// No accounts, no round trip.
	cache.Invalidate(ctx)
	assert.NoError(t, mock.ExpectationsWereMet())
}
