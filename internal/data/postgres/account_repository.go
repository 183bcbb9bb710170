package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ledgerbooks/backend/internal/domain/account"
	"github.com/ledgerbooks/backend/internal/platform/persistence"
)

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a new PostgreSQL account repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) account.Repository {
	return &AccountRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls.
func (r *AccountRepository) WithTx(tx pgx.Tx) account.Repository {
	return &AccountRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new account. Name uniqueness per owner is enforced by the
// database constraint and mapped to ErrDuplicateAccountName.
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (owner_id, name, account_type, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.querier.QueryRow(ctx, query,
		acc.OwnerID,
		acc.Name,
		acc.Type,
		acc.Description,
		acc.CreatedAt,
		acc.UpdatedAt,
	).Scan(&acc.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return account.ErrDuplicateAccountName{Name: acc.Name}
		}
		r.logger.Error("Failed to create account", "owner_id", acc.OwnerID, "name", acc.Name, "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id int64) (*account.Account, error) {
	query := `
		SELECT id, owner_id, name, account_type, description, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`

	var acc account.Account
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&acc.ID,
		&acc.OwnerID,
		&acc.Name,
		&acc.Type,
		&acc.Description,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, account.ErrAccountNotFound{AccountID: id}
		}
		r.logger.Error("Failed to get account", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return &acc, nil
}

// GetByIDs resolves a set of account ids in one query. Ids that do not exist
// are simply absent from the result map; the caller decides whether that is
// an error.
func (r *AccountRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*account.Account, error) {
	query := `
		SELECT id, owner_id, name, account_type, description, created_at, updated_at
		FROM accounts
		WHERE id = ANY($1)
	`

	rows, err := r.querier.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error("Failed to get accounts by ids", "error", err)
		return nil, fmt.Errorf("failed to get accounts by ids: %w", err)
	}
	defer rows.Close()

	accounts := make(map[int64]*account.Account, len(ids))
	for rows.Next() {
		var acc account.Account
		err := rows.Scan(
			&acc.ID,
			&acc.OwnerID,
			&acc.Name,
			&acc.Type,
			&acc.Description,
			&acc.CreatedAt,
			&acc.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to scan account", "error", err)
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts[acc.ID] = &acc
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over accounts", "error", err)
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

// ListByOwner returns the owner's accounts together with their aggregated
// debit and credit totals. Accounts with no entries report zero totals.
func (r *AccountRepository) ListByOwner(ctx context.Context, ownerID int64, typeFilter account.Type) ([]*account.AccountWithBalance, error) {
	query := `
		SELECT a.id, a.owner_id, a.name, a.account_type, a.description, a.created_at, a.updated_at,
		       COALESCE(SUM(e.debit_amount), 0) AS total_debits,
		       COALESCE(SUM(e.credit_amount), 0) AS total_credits
		FROM accounts a
		LEFT JOIN transaction_entries e ON e.account_id = a.id
		WHERE a.owner_id = $1
		  AND ($2 = '' OR a.account_type = $2)
		GROUP BY a.id
		ORDER BY a.name ASC
	`

	rows, err := r.querier.Query(ctx, query, ownerID, string(typeFilter))
	if err != nil {
		r.logger.Error("Failed to list accounts", "owner_id", ownerID, "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.AccountWithBalance
	for rows.Next() {
		var awb account.AccountWithBalance
		err := rows.Scan(
			&awb.ID,
			&awb.OwnerID,
			&awb.Name,
			&awb.Type,
			&awb.Description,
			&awb.CreatedAt,
			&awb.UpdatedAt,
			&awb.Balance.Debits,
			&awb.Balance.Credits,
		)
		if err != nil {
			r.logger.Error("Failed to scan account with balance", "error", err)
			return nil, fmt.Errorf("failed to scan account with balance: %w", err)
		}
		accounts = append(accounts, &awb)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("Error iterating over accounts", "error", err)
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

// Update persists a renamed account. The account type is immutable and is
// deliberately not part of the statement.
func (r *AccountRepository) Update(ctx context.Context, acc *account.Account) error {
	query := `
		UPDATE accounts
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := r.querier.Exec(ctx, query,
		acc.Name,
		acc.Description,
		acc.UpdatedAt,
		acc.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return account.ErrDuplicateAccountName{Name: acc.Name}
		}
		r.logger.Error("Failed to update account", "id", acc.ID, "error", err)
		return fmt.Errorf("failed to update account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: acc.ID}
	}

	return nil
}

// Delete removes an account. The RESTRICT foreign key on transaction_entries
// rejects the delete while entries still reference the account; that
// violation maps to ErrAccountHasEntries.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	query := `
		DELETE FROM accounts
		WHERE id = $1
	`

	result, err := r.querier.Exec(ctx, query, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return account.ErrAccountHasEntries{AccountID: id}
		}
		r.logger.Error("Failed to delete account", "id", id, "error", err)
		return fmt.Errorf("failed to delete account: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound{AccountID: id}
	}

	return nil
}

// SumEntries aggregates the debit and credit totals over all entries
// referencing the account.
func (r *AccountRepository) SumEntries(ctx context.Context, id int64) (account.Balance, error) {
	query := `
		SELECT COALESCE(SUM(debit_amount), 0), COALESCE(SUM(credit_amount), 0)
		FROM transaction_entries
		WHERE account_id = $1
	`

	var balance account.Balance
	err := r.querier.QueryRow(ctx, query, id).Scan(&balance.Debits, &balance.Credits)
	if err != nil {
		r.logger.Error("Failed to sum entries", "account_id", id, "error", err)
		return account.Balance{}, fmt.Errorf("failed to sum entries: %w", err)
	}

	return balance, nil
}
