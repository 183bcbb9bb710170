package service

import (
	"context"

	"github.com/ledgerbooks/backend/internal/domain/shared"
)

// ProjectionService defines the interface for applying ledger events to the
// account activity read model.
type ProjectionService interface {
	ApplyEvent(ctx context.Context, event *shared.LedgerEvent) error
}
