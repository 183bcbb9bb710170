package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgerbooks/backend/internal/domain/account"
	"github.com/ledgerbooks/backend/internal/domain/ledger"
	"github.com/ledgerbooks/backend/internal/domain/outbox"
	"github.com/ledgerbooks/backend/internal/domain/shared"
)

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	db          TxRunner
	ledgerRepo  ledger.Repository
	accountRepo account.Repository
	outboxRepo  outbox.Repository
	cache       BalanceCache
	logger      *slog.Logger
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	logger *slog.Logger,
	db TxRunner,
	ledgerRepo ledger.Repository,
	accountRepo account.Repository,
	outboxRepo outbox.Repository,
	cache BalanceCache,
) LedgerService {
	return &LedgerServiceImpl{
		db:          db,
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		cache:       cache,
		logger:      logger,
	}
}

// PostTransaction validates a transaction and persists it atomically with its
// outbox event. Checks run in a fixed order so the caller always learns about
// the most fundamental defect first: structure and entry signs (in the
// constructor), then account existence and ownership, then balance. Reference
// uniqueness surfaces last, from the storage constraint at insert time.
func (s *LedgerServiceImpl) PostTransaction(ctx context.Context, createdBy int64, referenceNumber, description string, transactionDate time.Time, entries []*ledger.Entry, correlationID string) (*ledger.Transaction, error) {
	logger := s.logger
	if correlationID != "" {
		logger = s.logger.With("correlation_id", correlationID)
	}

	transaction, err := ledger.NewTransaction(referenceNumber, description, transactionDate, createdBy, entries)
	if err != nil {
		return nil, err
	}

	accountIDs := transaction.AccountIDs()
	accounts, err := s.accountRepo.GetByIDs(ctx, accountIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range accountIDs {
		acc, ok := accounts[id]
		if !ok {
			return nil, ledger.ErrUnknownAccount{AccountID: id}
		}
		if acc.OwnerID != createdBy {
			return nil, account.ErrUnauthorizedAccountAccess{AccountID: id, UserID: createdBy}
		}
	}

	if err := transaction.CheckBalanced(); err != nil {
		return nil, err
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.ledgerRepo.WithTx(tx).CreateTransaction(ctx, transaction); err != nil {
			return err
		}

		event := shared.NewPostedEvent(transaction, correlationID)
		message, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		return nil, err
	}

	// The commit changed every referenced account's derived balance.
	s.cache.Invalidate(ctx, accountIDs...)

	logger.Info("Posted transaction",
		"transaction_id", transaction.ID,
		"reference_number", transaction.ReferenceNumber,
		"entries", len(transaction.Entries),
		"created_by", createdBy,
	)
	return transaction, nil
}

// GetTransaction loads one of the creator's transactions with its entries
func (s *LedgerServiceImpl) GetTransaction(ctx context.Context, createdBy, id int64) (*ledger.Transaction, error) {
	return s.ledgerRepo.GetByID(ctx, id, createdBy)
}

// ListTransactions returns a page of the creator's transactions plus the
// total count within the filter window.
func (s *LedgerServiceImpl) ListTransactions(ctx context.Context, createdBy int64, filter ledger.ListFilter, page, perPage int) ([]*ledger.Transaction, int64, error) {
	offset := (page - 1) * perPage

	transactions, err := s.ledgerRepo.List(ctx, createdBy, filter, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.ledgerRepo.Count(ctx, createdBy, filter)
	if err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

// DeleteTransaction removes a whole transaction and emits its tombstone event
// in the same database transaction. Entries are never deleted individually;
// the whole posting disappears or none of it does, keeping the books balanced.
func (s *LedgerServiceImpl) DeleteTransaction(ctx context.Context, createdBy, id int64, correlationID string) error {
	logger := s.logger
	if correlationID != "" {
		logger = s.logger.With("correlation_id", correlationID)
	}

	transaction, err := s.ledgerRepo.GetByID(ctx, id, createdBy)
	if err != nil {
		return err
	}

	err = s.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.ledgerRepo.WithTx(tx).DeleteByID(ctx, id, createdBy); err != nil {
			return err
		}

		event := shared.NewDeletedEvent(transaction, correlationID)
		message, err := outbox.NewMessage(event)
		if err != nil {
			return err
		}
		return s.outboxRepo.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, transaction.AccountIDs()...)

	logger.Info("Deleted transaction",
		"transaction_id", id,
		"reference_number", transaction.ReferenceNumber,
		"created_by", createdBy,
	)
	return nil
}
