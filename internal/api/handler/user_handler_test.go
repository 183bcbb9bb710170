package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbooks/backend/internal/api/middleware"
	"github.com/ledgerbooks/backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, username, email, password string) (*user.User, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, username, password string) (*user.User, string, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*user.User), args.String(1), args.Error(2)
}

func (m *MockUserService) GetUser(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// asAuthenticated injects a user the way the auth middleware would
func asAuthenticated(u *user.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CurrentUserKey, u)
		c.Next()
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func decodeResponse(t *testing.T, body *bytes.Buffer) Response {
	t.Helper()
	var response Response
	require.NoError(t, json.Unmarshal(body.Bytes(), &response))
	return response
}

func TestUserHandler_Register(t *testing.T) {
	logger := testLogger()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewUserHandler(logger, mockService)

		created := &user.User{ID: 7, Username: "alice", Email: "alice@example.com", IsActive: true, CreatedAt: time.Now()}
		mockService.On("Register", mock.Anything, "alice", "alice@example.com", "hunter2secret").Return(created, nil)

		router := setupTestRouter()
		router.POST("/auth/register", handler.Register)

		body, _ := json.Marshal(RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "hunter2secret"})
		req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewUserHandler(logger, mockService)

		mockService.On("Register", mock.Anything, "alice", "alice@example.com", "hunter2secret").
			Return(nil, user.ErrDuplicateUsername{Username: "alice"})

		router := setupTestRouter()
		router.POST("/auth/register", handler.Register)

		body, _ := json.Marshal(RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "hunter2secret"})
		req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		response := decodeResponse(t, rr.Body)
		require.NotNil(t, response.Error)
		assert.Equal(t, "DUPLICATE_USERNAME", response.Error.Code)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewUserHandler(logger, mockService)

		router := setupTestRouter()
		router.POST("/auth/register", handler.Register)

		body, _ := json.Marshal(RegisterRequest{Username: "alice", Email: "not-an-email", Password: "hunter2secret"})
		req, _ := http.NewRequest(http.MethodPost, "/auth/register", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "Register")
	})
}

func TestUserHandler_Login(t *testing.T) {
	logger := testLogger()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewUserHandler(logger, mockService)

		u := &user.User{ID: 7, Username: "alice", Email: "alice@example.com", IsActive: true}
		mockService.On("Login", mock.Anything, "alice", "hunter2secret").Return(u, "signed-token", nil)

		router := setupTestRouter()
		router.POST("/auth/login", handler.Login)

		body, _ := json.Marshal(LoginRequest{Username: "alice", Password: "hunter2secret"})
		req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		response := decodeResponse(t, rr.Body)
		data, err := json.Marshal(response.Data)
		require.NoError(t, err)
		var authResponse AuthResponse
		require.NoError(t, json.Unmarshal(data, &authResponse))
		assert.Equal(t, "signed-token", authResponse.Token)
		assert.Equal(t, "alice", authResponse.User.Username)
	})

	t.Run("InvalidCredentials", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewUserHandler(logger, mockService)

		mockService.On("Login", mock.Anything, "alice", "wrong").Return(nil, "", user.ErrInvalidCredentials)

		router := setupTestRouter()
		router.POST("/auth/login", handler.Login)

		body, _ := json.Marshal(LoginRequest{Username: "alice", Password: "wrong"})
		req, _ := http.NewRequest(http.MethodPost, "/auth/login", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestUserHandler_GetByID(t *testing.T) {
	logger := testLogger()
	u := &user.User{ID: 7, Username: "alice", Email: "alice@example.com", IsActive: true}

	t.Run("OwnProfile", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewUserHandler(logger, mockService)

		mockService.On("GetUser", mock.Anything, int64(7)).Return(u, nil)

		router := setupTestRouter()
		router.GET("/users/:id", asAuthenticated(u), handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/users/7", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("ForeignProfile", func(t *testing.T) {
		mockService := new(MockUserService)
		handler := NewUserHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/users/:id", asAuthenticated(u), handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/users/8", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		mockService.AssertNotCalled(t, "GetUser")
	})
}

func TestUserHandler_Me(t *testing.T) {
	mockService := new(MockUserService)
	handler := NewUserHandler(testLogger(), mockService)

	u := &user.User{ID: 7, Username: "alice", Email: "alice@example.com", IsActive: true}

	router := setupTestRouter()
	router.GET("/users/me", asAuthenticated(u), handler.Me)

	req, _ := http.NewRequest(http.MethodGet, "/users/me", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	response := decodeResponse(t, rr.Body)
	data, err := json.Marshal(response.Data)
	require.NoError(t, err)
	var userResponse UserResponse
	require.NoError(t, json.Unmarshal(data, &userResponse))
	assert.Equal(t, int64(7), userResponse.ID)
}
