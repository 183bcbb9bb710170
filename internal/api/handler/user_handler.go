package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbooks/backend/internal/api/middleware"
	"github.com/ledgerbooks/backend/internal/api/service"
	"github.com/ledgerbooks/backend/internal/auth"
	"github.com/ledgerbooks/backend/internal/domain/user"
)

// UserHandler handles HTTP requests for registration and authentication
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(logger *slog.Logger, userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Register handles creation of a new user account
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, err := h.userService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			RespondBadRequest(c, err.Error())
			return
		}
		var dupUsername user.ErrDuplicateUsername
		if errors.As(err, &dupUsername) {
			RespondConflict(c, "DUPLICATE_USERNAME", "Username already registered")
			return
		}
		var dupEmail user.ErrDuplicateEmail
		if errors.As(err, &dupEmail) {
			RespondConflict(c, "DUPLICATE_EMAIL", "Email already registered")
			return
		}
		h.logger.Error("Failed to register user", "username", req.Username, "error", err)
		RespondInternalError(c)
		return
	}

	RespondCreated(c, mapUserToResponse(u))
}

// Login verifies credentials and returns a bearer token
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	u, token, err := h.userService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			RespondUnauthorized(c, "Invalid username or password")
			return
		}
		h.logger.Error("Failed to log in user", "username", req.Username, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, AuthResponse{
		Token: token,
		User:  mapUserToResponse(u),
	})
}

// Me returns the authenticated user's profile
func (h *UserHandler) Me(c *gin.Context) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	RespondOK(c, mapUserToResponse(u))
}

// GetByID returns a user profile. Users may only read their own record.
func (h *UserHandler) GetByID(c *gin.Context) {
	current, ok := middleware.CurrentUser(c)
	if !ok {
		RespondUnauthorized(c, "")
		return
	}

	id, err := parseIDParam(c)
	if err != nil {
		RespondBadRequest(c, "Invalid user ID")
		return
	}

	if id != current.ID {
		RespondForbidden(c, "", "Users may only access their own profile")
		return
	}

	u, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		var notFound user.ErrUserNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "User not found")
			return
		}
		h.logger.Error("Failed to get user", "user_id", id, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapUserToResponse(u))
}
