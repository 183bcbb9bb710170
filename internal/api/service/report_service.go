package service

import (
	"context"
	"log/slog"

	"github.com/ledgerbooks/backend/internal/domain/account"
	"github.com/ledgerbooks/backend/internal/domain/report"
)

// ReportServiceImpl implements the ReportService interface
type ReportServiceImpl struct {
	accountRepo account.Repository
	reportRepo  report.Repository
	logger      *slog.Logger
}

// NewReportService creates a new report service
func NewReportService(logger *slog.Logger, accountRepo account.Repository, reportRepo report.Repository) ReportService {
	return &ReportServiceImpl{
		accountRepo: accountRepo,
		reportRepo:  reportRepo,
		logger:      logger,
	}
}

// GetAccountActivity returns a page of the account's activity read model.
// Ownership is checked against the system of record before the read model is
// queried; the projection lags the ledger by however far the event pipeline
// is behind.
func (s *ReportServiceImpl) GetAccountActivity(ctx context.Context, ownerID, accountID int64, page, perPage int) ([]*report.Activity, int64, error) {
	acc, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}
	if acc.OwnerID != ownerID {
		return nil, 0, account.ErrUnauthorizedAccountAccess{AccountID: accountID, UserID: ownerID}
	}

	offset := int64((page - 1) * perPage)

	activities, err := s.reportRepo.GetByAccountID(ctx, accountID, int64(perPage), offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.reportRepo.CountByAccountID(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}

	return activities, total, nil
}
