package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ledgerbooks/backend/internal/domain/ledger"
	"github.com/ledgerbooks/backend/internal/platform/persistence"
)

// LedgerRepository implements the ledger.Repository interface for PostgreSQL
type LedgerRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewLedgerRepository creates a new PostgreSQL ledger repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewLedgerRepository(logger *slog.Logger, db *persistence.PostgresDB) ledger.Repository {
	return &LedgerRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction. Posting runs the header
// insert, the entry inserts and the outbox write on one transaction.
func (r *LedgerRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return &LedgerRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// CreateTransaction inserts the transaction header and all of its entries,
// assigning generated ids back onto the domain objects. Reference number
// uniqueness is enforced by the database constraint, never by a pre-check,
// so concurrent postings with the same reference cannot race past each other.
func (r *LedgerRepository) CreateTransaction(ctx context.Context, t *ledger.Transaction) error {
	headerQuery := `
		INSERT INTO transactions (reference_number, description, transaction_date, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, headerQuery,
		t.ReferenceNumber,
		t.Description,
		t.TransactionDate,
		t.CreatedBy,
		t.CreatedAt,
	).Scan(&t.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ledger.ErrDuplicateReference{ReferenceNumber: t.ReferenceNumber}
		}
		r.logger.Error("Failed to create transaction", "reference_number", t.ReferenceNumber, "error", err)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	entryQuery := `
		INSERT INTO transaction_entries (transaction_id, account_id, debit_amount, credit_amount, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	for _, entry := range t.Entries {
		entry.TransactionID = t.ID
		err := r.querier.QueryRow(ctx, entryQuery,
			entry.TransactionID,
			entry.AccountID,
			entry.DebitAmount,
			entry.CreditAmount,
			entry.Description,
		).Scan(&entry.ID)
		if err != nil {
			r.logger.Error("Failed to create transaction entry",
				"transaction_id", t.ID,
				"account_id", entry.AccountID,
				"error", err,
			)
			return fmt.Errorf("failed to create transaction entry: %w", err)
		}
	}

	return nil
}

// GetByID loads a transaction with its entries, scoped to its creator.
func (r *LedgerRepository) GetByID(ctx context.Context, id int64, createdBy int64) (*ledger.Transaction, error) {
	query := `
		SELECT id, reference_number, description, transaction_date, created_by, created_at
		FROM transactions
		WHERE id = $1 AND created_by = $2
	`

	var t ledger.Transaction
	err := r.querier.QueryRow(ctx, query, id, createdBy).Scan(
		&t.ID,
		&t.ReferenceNumber,
		&t.Description,
		&t.TransactionDate,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ledger.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	entries, err := r.loadEntries(ctx, []int64{t.ID})
	if err != nil {
		return nil, err
	}
	t.Entries = entries[t.ID]

	return &t, nil
}

// List returns the creator's transactions with their entries, newest first.
// Nil filter bounds leave that side of the date window open.
func (r *LedgerRepository) List(ctx context.Context, createdBy int64, filter ledger.ListFilter, limit, offset int) ([]*ledger.Transaction, error) {
	query := `
		SELECT id, reference_number, description, transaction_date, created_by, created_at
		FROM transactions
		WHERE created_by = $1
		  AND ($2::timestamptz IS NULL OR transaction_date >= $2)
		  AND ($3::timestamptz IS NULL OR transaction_date <= $3)
		ORDER BY transaction_date DESC, id DESC
		LIMIT $4 OFFSET $5
	`

	rows, err := r.querier.Query(ctx, query, createdBy, filter.StartDate, filter.EndDate, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions", "created_by", createdBy, "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*ledger.Transaction
	var ids []int64
	for rows.Next() {
		var t ledger.Transaction
		err := rows.Scan(
			&t.ID,
			&t.ReferenceNumber,
			&t.Description,
			&t.TransactionDate,
			&t.CreatedBy,
			&t.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan transaction", "error", err)
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, &t)
		ids = append(ids, t.ID)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transactions", "error", err)
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	if len(transactions) == 0 {
		return transactions, nil
	}

	entriesByTransaction, err := r.loadEntries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range transactions {
		t.Entries = entriesByTransaction[t.ID]
	}

	return transactions, nil
}

// Count returns the number of the creator's transactions within the filter window.
func (r *LedgerRepository) Count(ctx context.Context, createdBy int64, filter ledger.ListFilter) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE created_by = $1
		  AND ($2::timestamptz IS NULL OR transaction_date >= $2)
		  AND ($3::timestamptz IS NULL OR transaction_date <= $3)
	`

	var count int64
	err := r.querier.QueryRow(ctx, query, createdBy, filter.StartDate, filter.EndDate).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count transactions", "created_by", createdBy, "error", err)
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	return count, nil
}

// DeleteByID removes the transaction header; the ON DELETE CASCADE on
// transaction_entries removes its entries in the same statement, so a
// transaction is always deleted whole, never entry by entry.
func (r *LedgerRepository) DeleteByID(ctx context.Context, id int64, createdBy int64) error {
	query := `
		DELETE FROM transactions
		WHERE id = $1 AND created_by = $2
	`

	result, err := r.querier.Exec(ctx, query, id, createdBy)
	if err != nil {
		r.logger.Error("Failed to delete transaction", "id", id, "error", err)
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ledger.ErrTransactionNotFound{TransactionID: id}
	}

	return nil
}

// loadEntries fetches entries for a set of transactions in one query,
// grouped by transaction id in insertion order.
func (r *LedgerRepository) loadEntries(ctx context.Context, transactionIDs []int64) (map[int64][]*ledger.Entry, error) {
	query := `
		SELECT id, transaction_id, account_id, debit_amount, credit_amount, description
		FROM transaction_entries
		WHERE transaction_id = ANY($1)
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, query, transactionIDs)
	if err != nil {
		r.logger.Error("Failed to load transaction entries", "error", err)
		return nil, fmt.Errorf("failed to load transaction entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[int64][]*ledger.Entry, len(transactionIDs))
	for rows.Next() {
		var entry ledger.Entry
		err := rows.Scan(
			&entry.ID,
			&entry.TransactionID,
			&entry.AccountID,
			&entry.DebitAmount,
			&entry.CreditAmount,
			&entry.Description,
		)
		if err != nil {
			r.logger.Error("Failed to scan transaction entry", "error", err)
			return nil, fmt.Errorf("failed to scan transaction entry: %w", err)
		}
		entries[entry.TransactionID] = append(entries[entry.TransactionID], &entry)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over transaction entries", "error", err)
		return nil, fmt.Errorf("error iterating over transaction entries: %w", err)
	}

	return entries, nil
}
