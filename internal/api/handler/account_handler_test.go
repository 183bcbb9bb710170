package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ledgerbooks/backend/internal/domain/account"
	"github.com/ledgerbooks/backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, ownerID int64, name, accountType, description string) (*account.Account, error) {
	args := m.Called(ctx, ownerID, name, accountType, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, ownerID, accountID int64) (*account.Account, error) {
	args := m.Called(ctx, ownerID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, ownerID int64, typeFilter string) ([]*account.AccountWithBalance, error) {
	args := m.Called(ctx, ownerID, typeFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.AccountWithBalance), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, ownerID, accountID int64, name, description string) (*account.Account, error) {
	args := m.Called(ctx, ownerID, accountID, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, ownerID, accountID int64) error {
	args := m.Called(ctx, ownerID, accountID)
	return args.Error(0)
}

func (m *MockAccountService) GetBalance(ctx context.Context, ownerID, accountID int64) (*account.Account, account.Balance, error) {
	args := m.Called(ctx, ownerID, accountID)
	if args.Get(0) == nil {
		return nil, account.Balance{}, args.Error(2)
	}
	return args.Get(0).(*account.Account), args.Get(1).(account.Balance), args.Error(2)
}

var testUser = &user.User{ID: 7, Username: "alice", IsActive: true}

func TestAccountHandler_Create(t *testing.T) {
	logger := testLogger()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := NewAccountHandler(logger, mockService)

		created := &account.Account{
			ID: 5, OwnerID: 7, Name: "Cash", Type: account.TypeAsset,
			CreatedAt: time.Now(), UpdatedAt: time.Now(),
		}
		mockService.On("CreateAccount", mock.Anything, int64(7), "Cash", "asset", "").Return(created, nil)

		router := setupTestRouter()
		router.POST("/accounts", asAuthenticated(testUser), handler.Create)

		body, _ := json.Marshal(CreateAccountRequest{Name: "Cash", AccountType: "asset"})
		req, _ := http.NewRequest(http.MethodPost, "/accounts", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidAccountType", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := NewAccountHandler(logger, mockService)

		mockService.On("CreateAccount", mock.Anything, int64(7), "Cash", "crypto", "").
			Return(nil, account.ErrInvalidAccountType{Type: "crypto"})

		router := setupTestRouter()
		router.POST("/accounts", asAuthenticated(testUser), handler.Create)

		body, _ := json.Marshal(CreateAccountRequest{Name: "Cash", AccountType: "crypto"})
		req, _ := http.NewRequest(http.MethodPost, "/accounts", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		response := decodeResponse(t, rr.Body)
		require.NotNil(t, response.Error)
		assert.Equal(t, "INVALID_ACCOUNT_TYPE", response.Error.Code)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := NewAccountHandler(logger, mockService)

		mockService.On("CreateAccount", mock.Anything, int64(7), "Cash", "asset", "").
			Return(nil, account.ErrDuplicateAccountName{Name: "Cash"})

		router := setupTestRouter()
		router.POST("/accounts", asAuthenticated(testUser), handler.Create)

		body, _ := json.Marshal(CreateAccountRequest{Name: "Cash", AccountType: "asset"})
		req, _ := http.NewRequest(http.MethodPost, "/accounts", bytes.NewBuffer(body))
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		response := decodeResponse(t, rr.Body)
		require.NotNil(t, response.Error)
		assert.Equal(t, "DUPLICATE_ACCOUNT_NAME", response.Error.Code)
	})
}

func TestAccountHandler_GetByID(t *testing.T) {
	logger := testLogger()

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := NewAccountHandler(logger, mockService)

		mockService.On("GetAccount", mock.Anything, int64(7), int64(99)).
			Return(nil, account.ErrAccountNotFound{AccountID: 99})

		router := setupTestRouter()
		router.GET("/accounts/:id", asAuthenticated(testUser), handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/99", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("ForeignAccount", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := NewAccountHandler(logger, mockService)

		mockService.On("GetAccount", mock.Anything, int64(7), int64(5)).
			Return(nil, account.ErrUnauthorizedAccountAccess{AccountID: 5, UserID: 7})

		router := setupTestRouter()
		router.GET("/accounts/:id", asAuthenticated(testUser), handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/5", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		response := decodeResponse(t, rr.Body)
		require.NotNil(t, response.Error)
		assert.Equal(t, "UNAUTHORIZED_ACCOUNT_ACCESS", response.Error.Code)
	})

	t.Run("NonNumericID", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := NewAccountHandler(logger, mockService)

		router := setupTestRouter()
		router.GET("/accounts/:id", asAuthenticated(testUser), handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/accounts/abc", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetAccount")
	})
}

func TestAccountHandler_Delete(t *testing.T) {
	logger := testLogger()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := NewAccountHandler(logger, mockService)

		mockService.On("DeleteAccount", mock.Anything, int64(7), int64(5)).Return(nil)

		router := setupTestRouter()
		router.DELETE("/accounts/:id", asAuthenticated(testUser), handler.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/accounts/5", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("HasEntries", func(t *testing.T) {
		mockService := new(MockAccountService)
		handler := NewAccountHandler(logger, mockService)

		mockService.On("DeleteAccount", mock.Anything, int64(7), int64(5)).
			Return(account.ErrAccountHasEntries{AccountID: 5})

		router := setupTestRouter()
		router.DELETE("/accounts/:id", asAuthenticated(testUser), handler.Delete)

		req, _ := http.NewRequest(http.MethodDelete, "/accounts/5", nil)
		rr := httptest.NewRecorder()

		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		response := decodeResponse(t, rr.Body)
		require.NotNil(t, response.Error)
		assert.Equal(t, "ACCOUNT_HAS_ENTRIES", response.Error.Code)
	})
}

func TestAccountHandler_GetBalance(t *testing.T) {
	mockService := new(MockAccountService)
	handler := NewAccountHandler(testLogger(), mockService)

	acc := &account.Account{ID: 5, OwnerID: 7, Name: "Sales", Type: account.TypeRevenue}
	balance := account.Balance{Debits: 1000, Credits: 25050}
	mockService.On("GetBalance", mock.Anything, int64(7), int64(5)).Return(acc, balance, nil)

	router := setupTestRouter()
	router.GET("/accounts/:id/balance", asAuthenticated(testUser), handler.GetBalance)

	req, _ := http.NewRequest(http.MethodGet, "/accounts/5/balance", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	response := decodeResponse(t, rr.Body)
	data, err := json.Marshal(response.Data)
	require.NoError(t, err)
	var balanceResponse BalanceResponse
	require.NoError(t, json.Unmarshal(data, &balanceResponse))

	// Revenue is credit-normal: reported balance is credits minus debits.
	assert.Equal(t, "10.00", balanceResponse.Debits)
	assert.Equal(t, "250.50", balanceResponse.Credits)
	assert.Equal(t, "240.50", balanceResponse.Balance)
}
