package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbooks/backend/internal/api/middleware"
	"github.com/ledgerbooks/backend/internal/api/service"
	"github.com/ledgerbooks/backend/internal/domain/account"
)

// ReportHandler handles HTTP requests for the account activity read model
type ReportHandler struct {
	reportService service.ReportService
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(logger *slog.Logger, reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// GetAccountActivity returns a page of one account's projected activity,
// newest first. The data comes from the read model and may lag the ledger
// by the event pipeline's delay.
func (h *ReportHandler) GetAccountActivity(c *gin.Context) {
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

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	activities, total, err := h.reportService.GetAccountActivity(c.Request.Context(), u.ID, id, pagination.Page, pagination.PerPage)
	if err != nil {
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
		h.logger.Error("Failed to get account activity", "account_id", id, "error", err)
		RespondInternalError(c)
		return
	}

	responses := make([]ActivityResponse, 0, len(activities))
	for _, activity := range activities {
		responses = append(responses, mapActivityToResponse(activity))
	}

	RespondWithPaginatedData(c, http.StatusOK, responses, pagination.Page, pagination.PerPage, int(total))
}
