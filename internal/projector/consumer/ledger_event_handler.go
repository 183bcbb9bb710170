// Package consumer decodes ledger events from Kafka and hands them to the
// projection service.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ledgerbooks/backend/internal/domain/shared"
	"github.com/ledgerbooks/backend/internal/platform/messaging/producers"
	"github.com/ledgerbooks/backend/internal/projector/service"
)

// LedgerEventHandler handles incoming ledger event messages from Kafka
type LedgerEventHandler struct {
	projectionService service.ProjectionService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewLedgerEventHandler creates a new handler
func NewLedgerEventHandler(
	logger *slog.Logger,
	projectionService service.ProjectionService,
	producer producers.DeadLetterPublisher,
) *LedgerEventHandler {
	return &LedgerEventHandler{
		projectionService: projectionService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes Kafka messages. Undecodable payloads are parked on
// the DLQ so they stop blocking the partition; processing failures are
// returned uncommitted for redelivery.
func (h *LedgerEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.LedgerEvent
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal ledger event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received ledger event",
		"event_id", event.EventID.String(),
		"kind", string(event.Kind),
		"transaction_id", event.TransactionID,
	)

	if err := h.projectionService.ApplyEvent(ctx, &event); err != nil {
		logger.Error("Failed to apply ledger event",
			"event_id", event.EventID.String(),
			"transaction_id", event.TransactionID,
			"error", err,
		)
		return fmt.Errorf("applying ledger event %s failed: %w", event.EventID.String(), err)
	}

	logger.Info("Successfully applied ledger event", "event_id", event.EventID.String())
	return nil // Success, commit offset
}
