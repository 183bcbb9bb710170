package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbooks/backend/internal/api/middleware"
	"github.com/ledgerbooks/backend/internal/api/service"
	"github.com/ledgerbooks/backend/internal/domain/account"
	"github.com/ledgerbooks/backend/internal/domain/ledger"
)

// TransactionHandler handles HTTP requests for posting and querying transactions
type TransactionHandler struct {
	ledgerService service.LedgerService
	logger        *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, ledgerService service.LedgerService) *TransactionHandler {
	return &TransactionHandler{
		ledgerService: ledgerService,
		logger:        logger,
	}
}

// Create posts a new balanced transaction
func (h *TransactionHandler) Create(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var transactionDate time.Time
	if req.TransactionDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.TransactionDate)
		if err != nil {
			RespondBadRequest(c, "transaction_date must be RFC 3339 formatted")
			return
		}
		transactionDate = parsed
	}

	entries, err := toEntries(req.Entries)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	transaction, err := h.ledgerService.PostTransaction(
		c.Request.Context(),
		u.ID,
		req.ReferenceNumber,
		req.Description,
		transactionDate,
		entries,
		middleware.GetCorrelationID(c),
	)
	if err != nil {
		h.respondLedgerError(c, err)
		return
	}

	RespondCreated(c, mapTransactionToResponse(transaction))
}

// List returns a page of the caller's transactions, optionally bounded by a
// start_date/end_date window (RFC 3339)
func (h *TransactionHandler) List(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	filter, err := parseListFilter(c)
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	transactions, total, err := h.ledgerService.ListTransactions(c.Request.Context(), u.ID, filter, pagination.Page, pagination.PerPage)
	if err != nil {
		h.respondLedgerError(c, err)
		return
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, t := range transactions {
		responses = append(responses, mapTransactionToResponse(t))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}

// GetByID retrieves one of the caller's transactions with its entries
func (h *TransactionHandler) GetByID(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	transaction, err := h.ledgerService.GetTransaction(c.Request.Context(), u.ID, id)
	if err != nil {
		h.respondLedgerError(c, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(transaction))
}

// Delete removes a whole transaction, entries included
func (h *TransactionHandler) Delete(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	if err := h.ledgerService.DeleteTransaction(c.Request.Context(), u.ID, id, middleware.GetCorrelationID(c)); err != nil {
		h.respondLedgerError(c, err)
		return
	}

	RespondNoContent(c)
}

// respondLedgerError maps ledger domain errors to HTTP responses
func (h *TransactionHandler) respondLedgerError(c *gin.Context, err error) {
	if errors.Is(err, ledger.ErrEmptyReference) {
		RespondValidationError(c, "EMPTY_REFERENCE", err.Error())
		return
	}
	var insufficient ledger.ErrInsufficientEntries
	if errors.As(err, &insufficient) {
		RespondValidationError(c, "INSUFFICIENT_ENTRIES", insufficient.Error())
		return
	}
	var ambiguous ledger.ErrAmbiguousEntrySign
	if errors.As(err, &ambiguous) {
		RespondValidationError(c, "AMBIGUOUS_ENTRY_SIGN", ambiguous.Error())
		return
	}
	var unknown ledger.ErrUnknownAccount
	if errors.As(err, &unknown) {
		RespondValidationError(c, "UNKNOWN_ACCOUNT", unknown.Error())
		return
	}
	var unbalanced ledger.ErrUnbalancedTransaction
	if errors.As(err, &unbalanced) {
		RespondValidationError(c, "UNBALANCED_TRANSACTION", unbalanced.Error())
		return
	}
	var unauthorized account.ErrUnauthorizedAccountAccess
	if errors.As(err, &unauthorized) {
		RespondForbidden(c, "UNAUTHORIZED_ACCOUNT_ACCESS", "Entry references an account owned by another user")
		return
	}
	var duplicate ledger.ErrDuplicateReference
	if errors.As(err, &duplicate) {
		RespondConflict(c, "DUPLICATE_REFERENCE", duplicate.Error())
		return
	}
	var notFound ledger.ErrTransactionNotFound
	if errors.As(err, &notFound) {
		RespondNotFound(c, "Transaction not found")
		return
	}

	h.logger.Error("Ledger operation failed", "error", err)
	RespondInternalError(c)
}

// parseListFilter reads the optional date window query parameters
func parseListFilter(c *gin.Context) (ledger.ListFilter, error) {
	var filter ledger.ListFilter

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("start_date must be RFC 3339 formatted")
		}
		filter.StartDate = &parsed
	}

	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.New("end_date must be RFC 3339 formatted")
		}
		filter.EndDate = &parsed
	}

	return filter, nil
}
