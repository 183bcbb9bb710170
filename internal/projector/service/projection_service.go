// Package service applies committed ledger events to the MongoDB account
// activity read model.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ledgerbooks/backend/internal/domain/report"
	"github.com/ledgerbooks/backend/internal/domain/shared"
)

// ActivityProjectionService maintains the per-account activity collection.
// Event application is idempotent: a posted event first clears any rows the
// transaction already projected, so redelivered events converge on the same
// state instead of duplicating rows.
type ActivityProjectionService struct {
	reportRepo report.Repository
	logger     *slog.Logger
}

func NewActivityProjectionService(logger *slog.Logger, reportRepo report.Repository) *ActivityProjectionService {
	return &ActivityProjectionService{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

// ApplyEvent routes one ledger event to the matching projection update
func (s *ActivityProjectionService) ApplyEvent(ctx context.Context, event *shared.LedgerEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	switch event.Kind {
	case shared.EventKindTransactionPosted:
		return s.applyPosted(ctx, logger, event)
	case shared.EventKindTransactionDeleted:
		return s.applyDeleted(ctx, logger, event)
	default:
		return fmt.Errorf("unknown ledger event kind: %s", event.Kind)
	}
}

func (s *ActivityProjectionService) applyPosted(ctx context.Context, logger *slog.Logger, event *shared.LedgerEvent) error {
	// Clear any rows from an earlier delivery of the same event.
	if _, err := s.reportRepo.DeleteByTransactionID(ctx, event.TransactionID); err != nil {
		return fmt.Errorf("failed to clear existing activity for transaction %d: %w", event.TransactionID, err)
	}

	activities := make([]*report.Activity, 0, len(event.Entries))
	for _, entry := range event.Entries {
		activities = append(activities, &report.Activity{
			EventID:         event.EventID.String(),
			TransactionID:   event.TransactionID,
			EntryID:         entry.EntryID,
			AccountID:       entry.AccountID,
			DebitAmount:     entry.DebitAmount,
			CreditAmount:    entry.CreditAmount,
			ReferenceNumber: event.ReferenceNumber,
			TransactionDate: event.TransactionDate,
			CreatedBy:       event.CreatedBy,
			RecordedAt:      time.Now().UTC(),
		})
	}

	if err := s.reportRepo.InsertMany(ctx, activities); err != nil {
		return fmt.Errorf("failed to project transaction %d: %w", event.TransactionID, err)
	}

	logger.Info("Projected posted transaction",
		"transaction_id", event.TransactionID,
		"entries", len(activities),
	)
	return nil
}

func (s *ActivityProjectionService) applyDeleted(ctx context.Context, logger *slog.Logger, event *shared.LedgerEvent) error {
	deleted, err := s.reportRepo.DeleteByTransactionID(ctx, event.TransactionID)
	if err != nil {
		return fmt.Errorf("failed to remove activity for deleted transaction %d: %w", event.TransactionID, err)
	}

	logger.Info("Removed activity for deleted transaction",
		"transaction_id", event.TransactionID,
		"rows_removed", deleted,
	)
	return nil
}
