package service

import (
	"context"
	"log/slog"

	"github.com/ledgerbooks/backend/internal/domain/account"
)

// AccountServiceImpl implements the AccountService interface
type AccountServiceImpl struct {
	accountRepo account.Repository
	cache       BalanceCache
	logger      *slog.Logger
}

// NewAccountService creates a new account service
func NewAccountService(logger *slog.Logger, accountRepo account.Repository, cache BalanceCache) AccountService {
	return &AccountServiceImpl{
		accountRepo: accountRepo,
		cache:       cache,
		logger:      logger,
	}
}

// CreateAccount creates a new account in the owner's chart of accounts
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, ownerID int64, name, accountType, description string) (*account.Account, error) {
	acc, err := account.NewAccount(ownerID, name, accountType, description)
	if err != nil {
		return nil, err
	}

	if err := s.accountRepo.Create(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("Created account",
		"account_id", acc.ID,
		"owner_id", ownerID,
		"type", string(acc.Type),
	)
	return acc, nil
}

// GetAccount retrieves an owned account. An existing account owned by someone
// else yields ErrUnauthorizedAccountAccess, not ErrAccountNotFound, so the
// caller can distinguish a typo from a permissions problem.
func (s *AccountServiceImpl) GetAccount(ctx context.Context, ownerID, accountID int64) (*account.Account, error) {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if acc.OwnerID != ownerID {
		return nil, account.ErrUnauthorizedAccountAccess{AccountID: accountID, UserID: ownerID}
	}

	return acc, nil
}

// ListAccounts returns the owner's accounts with their aggregated totals,
// optionally filtered by account type.
func (s *AccountServiceImpl) ListAccounts(ctx context.Context, ownerID int64, typeFilter string) ([]*account.AccountWithBalance, error) {
	var filter account.Type
	if typeFilter != "" {
		parsed, err := account.ParseType(typeFilter)
		if err != nil {
			return nil, err
		}
		filter = parsed
	}

	return s.accountRepo.ListByOwner(ctx, ownerID, filter)
}

// UpdateAccount renames an owned account. The account type is immutable.
func (s *AccountServiceImpl) UpdateAccount(ctx context.Context, ownerID, accountID int64, name, description string) (*account.Account, error) {
	acc, err := s.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return nil, err
	}

	if err := acc.Rename(name, description); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, acc); err != nil {
		return nil, err
	}

	s.logger.Info("Updated account", "account_id", acc.ID, "owner_id", ownerID)
	return acc, nil
}

// DeleteAccount removes an owned account with no posted entries.
// The storage layer rejects the delete with ErrAccountHasEntries while any
// transaction entry still references the account.
func (s *AccountServiceImpl) DeleteAccount(ctx context.Context, ownerID, accountID int64) error {
	if _, err := s.GetAccount(ctx, ownerID, accountID); err != nil {
		return err
	}

	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, accountID)
	s.logger.Info("Deleted account", "account_id", accountID, "owner_id", ownerID)
	return nil
}

// GetBalance returns the account with its derived balance. The balance is
// served from the cache when present; otherwise it is aggregated from the
// entries table and cached for the next reader.
func (s *AccountServiceImpl) GetBalance(ctx context.Context, ownerID, accountID int64) (*account.Account, account.Balance, error) {
	acc, err := s.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		return nil, account.Balance{}, err
	}

	balance, found, err := s.cache.Get(ctx, accountID)
	if err != nil {
		// Treat cache failures as misses; the entries table is authoritative.
		s.logger.Warn("Balance cache read failed, recomputing", "account_id", accountID, "error", err)
		found = false
	}
	if found {
		return acc, balance, nil
	}

	balance, err = s.accountRepo.SumEntries(ctx, accountID)
	if err != nil {
		return nil, account.Balance{}, err
	}

	if err := s.cache.Set(ctx, accountID, balance); err != nil {
		s.logger.Warn("Failed to cache balance", "account_id", accountID, "error", err)
	}

	return acc, balance, nil
}
