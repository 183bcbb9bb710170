package handler

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbooks/backend/internal/api/middleware"
	"github.com/ledgerbooks/backend/internal/api/service"
	"github.com/ledgerbooks/backend/internal/domain/account"
)

// AccountHandler handles HTTP requests for chart-of-accounts operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create handles creation of a new account in the caller's chart of accounts
func (h *AccountHandler) Create(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), u.ID, req.Name, req.AccountType, req.Description)
	if err != nil {
		h.respondAccountError(c, err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// List returns the caller's accounts with their derived totals,
// optionally filtered by account type
func (h *AccountHandler) List(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), u.ID, c.Query("type"))
	if err != nil {
		h.respondAccountError(c, err)
		return
	}

	responses := make([]AccountWithBalanceResponse, 0, len(accounts))
	for _, awb := range accounts {
		responses = append(responses, mapAccountWithBalanceToResponse(awb))
	}

	RespondOK(c, responses)
}

// GetByID retrieves one of the caller's accounts
func (h *AccountHandler) GetByID(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, err := h.accountService.GetAccount(c.Request.Context(), u.ID, id)
	if err != nil {
		h.respondAccountError(c, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Update renames one of the caller's accounts
func (h *AccountHandler) Update(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := h.accountService.UpdateAccount(c.Request.Context(), u.ID, id, req.Name, req.Description)
	if err != nil {
		h.respondAccountError(c, err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// Delete removes one of the caller's accounts if no entries reference it
func (h *AccountHandler) Delete(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), u.ID, id); err != nil {
		h.respondAccountError(c, err)
		return
	}

	RespondNoContent(c)
}

// GetBalance returns the derived balance of one of the caller's accounts
func (h *AccountHandler) GetBalance(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}

	acc, balance, err := h.accountService.GetBalance(c.Request.Context(), u.ID, id)
	if err != nil {
		h.respondAccountError(c, err)
		return
	}

	RespondOK(c, BalanceResponse{
		AccountID:   acc.ID,
		AccountType: string(acc.Type),
		Debits:      formatAmount(balance.Debits),
		Credits:     formatAmount(balance.Credits),
		Balance:     formatAmount(balance.Reported(acc.Type)),
	})
}

// respondAccountError maps account domain errors to HTTP responses
func (h *AccountHandler) respondAccountError(c *gin.Context, err error) {
	var invalidType account.ErrInvalidAccountType
	if errors.As(err, &invalidType) {
		RespondValidationError(c, "INVALID_ACCOUNT_TYPE", invalidType.Error())
		return
	}
	if errors.Is(err, account.ErrEmptyName) {
		RespondBadRequest(c, err.Error())
		return
	}
	var notFound account.ErrAccountNotFound
	if errors.As(err, &notFound) {
		RespondNotFound(c, "Account not found")
		return
	}
	var unauthorized account.ErrUnauthorizedAccountAccess
	if errors.As(err, &unauthorized) {
		RespondForbidden(c, "UNAUTHORIZED_ACCOUNT_ACCESS", "Account is owned by another user")
		return
	}
	var duplicate account.ErrDuplicateAccountName
	if errors.As(err, &duplicate) {
		RespondConflict(c, "DUPLICATE_ACCOUNT_NAME", duplicate.Error())
		return
	}
	var hasEntries account.ErrAccountHasEntries
	if errors.As(err, &hasEntries) {
		RespondConflict(c, "ACCOUNT_HAS_ENTRIES", "Account has posted entries and cannot be deleted")
		return
	}

	h.logger.Error("Account operation failed", "error", err)
	RespondInternalError(c)
}

// parseIDParam parses the :id path parameter as an int64
func parseIDParam(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
