// Package redis provides the Redis-backed cache for derived account balances.
// Balances are always recomputable from the entries table; the cache only
// short-circuits the aggregate query on hot accounts.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ledgerbooks/backend/internal/domain/account"
)

const balanceKeyPrefix = "balance:account:"

// BalanceCache caches aggregated account balances with a bounded TTL.
// Writers invalidate affected accounts after their database transaction
// commits, so a stale read can only survive until the TTL expires.
type BalanceCache struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// NewBalanceCache creates a balance cache on top of an established client
func NewBalanceCache(logger *slog.Logger, client *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{
		client: client,
		logger: logger,
		ttl:    ttl,
	}
}

func balanceKey(accountID int64) string {
	return balanceKeyPrefix + strconv.FormatInt(accountID, 10)
}

// Get returns the cached balance and whether it was present.
// Cache failures are returned to the caller, who treats them as misses.
func (c *BalanceCache) Get(ctx context.Context, accountID int64) (account.Balance, bool, error) {
	payload, err := c.client.Get(ctx, balanceKey(accountID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return account.Balance{}, false, nil
		}
		return account.Balance{}, false, fmt.Errorf("failed to read cached balance: %w", err)
	}

	var balance account.Balance
	if err := json.Unmarshal(payload, &balance); err != nil {
		// A corrupt value is as good as a miss; drop it so it gets recomputed.
		c.logger.Warn("Dropping undecodable cached balance", "account_id", accountID, "error", err)
		_ = c.client.Del(ctx, balanceKey(accountID)).Err()
		return account.Balance{}, false, nil
	}

	return balance, true, nil
}

// Set stores a freshly computed balance under the configured TTL
func (c *BalanceCache) Set(ctx context.Context, accountID int64, balance account.Balance) error {
	payload, err := json.Marshal(balance)
	if err != nil {
		return fmt.Errorf("failed to encode balance: %w", err)
	}

	if err := c.client.Set(ctx, balanceKey(accountID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache balance: %w", err)
	}

	return nil
}

// Invalidate drops the cached balances of the given accounts. Called after a
// posting or deletion commits; failures are logged and swallowed because the
// TTL bounds staleness either way.
func (c *BalanceCache) Invalidate(ctx context.Context, accountIDs ...int64) {
	if len(accountIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(accountIDs))
	for _, id := range accountIDs {
		keys = append(keys, balanceKey(id))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("Failed to invalidate cached balances", "accounts", accountIDs, "error", err)
	}
}
