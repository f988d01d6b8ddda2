package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/internal/dto"
	"github.com/GlebRadaev/minerledger/internal/payment"
	"github.com/GlebRadaev/minerledger/internal/service/walletservice"
	"github.com/GlebRadaev/minerledger/pkg/auth"
	"github.com/GlebRadaev/minerledger/pkg/utils"
)

const userID = "u-1"

type decimalEq struct{ want decimal.Decimal }

func (m decimalEq) Matches(x any) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalEq) String() string { return fmt.Sprintf("equals %s", m.want) }

func amount(v int64) gomock.Matcher { return decimalEq{want: decimal.NewFromInt(v)} }

func NewMock(t *testing.T) (*WalletHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	return New(service), service
}

func newRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, userID))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.Error
}

func TestGetBalance(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Balance returned",
			prepareMock: func() {
				service.EXPECT().Balance(gomock.Any(), userID).Return(&walletservice.Balance{
					Balance:          decimal.RequireFromString("1250.50"),
					TotalEarnings:    decimal.NewFromInt(264),
					MonthlyEarnings:  decimal.NewFromInt(176),
					AffiliateBalance: decimal.NewFromInt(300),
				}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Unknown account",
			prepareMock: func() {
				service.EXPECT().Balance(gomock.Any(), userID).Return(nil, domain.ErrNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: domain.ErrNotFound.Error(),
		},
		{
			name: "Storage failure",
			prepareMock: func() {
				service.EXPECT().Balance(gomock.Any(), userID).Return(nil, errors.New("db down"))
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rr := httptest.NewRecorder()

			handler.GetBalance(rr, newRequest(http.MethodGet, "/api/user/balance", ""))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, rr))
				return
			}
			var resp dto.BalanceResponseDTO
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.Equal(t, "1250.5", resp.Balance.String())
			assert.Equal(t, "300", resp.AffiliateBalance.String())
		})
	}
}

func TestGetTransactions(t *testing.T) {
	handler, service := NewMock(t)
	now := time.Date(2024, time.June, 2, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedLen  int
	}{
		{
			name: "History returned",
			prepareMock: func() {
				service.EXPECT().Transactions(gomock.Any(), userID).Return([]domain.Transaction{
					{ID: "t2", Type: domain.TransactionMining, Amount: decimal.NewFromInt(88), Status: domain.StatusSuccess, CreatedAt: now},
					{ID: "t1", Type: domain.TransactionDeposit, Amount: decimal.NewFromInt(1000), Status: domain.StatusSuccess, CreatedAt: now.Add(-time.Hour),
						Payment: &domain.PaymentInfo{Method: "card", Reference: "gw-1"}},
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedLen:  2,
		},
		{
			name: "Empty history",
			prepareMock: func() {
				service.EXPECT().Transactions(gomock.Any(), userID).Return(nil, nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name: "Storage failure",
			prepareMock: func() {
				service.EXPECT().Transactions(gomock.Any(), userID).Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rr := httptest.NewRecorder()

			handler.GetTransactions(rr, newRequest(http.MethodGet, "/api/user/transactions", ""))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedLen == 0 {
				return
			}
			var resp []dto.TransactionResponseDTO
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			require.Len(t, resp, tt.expectedLen)
			assert.Equal(t, "t2", resp[0].ID)
			assert.Equal(t, "gw-1", resp[1].Reference)
		})
	}
}

func TestDeposit(t *testing.T) {
	handler, service := NewMock(t)
	tx := &domain.Transaction{ID: "d1", Type: domain.TransactionDeposit, Amount: decimal.NewFromInt(1000), Status: domain.StatusSuccess}

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Successful deposit",
			body: `{"amount":"1000","method":"bank"}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), userID, amount(1000), "bank").Return(tx, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Numeric amount and default method",
			body: `{"amount":1000}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), userID, amount(1000), "card").Return(tx, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Invalid request body",
			body:          `{"amount":`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name: "Non-positive amount",
			body: `{"amount":"-5"}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), userID, amount(-5), "card").Return(nil, walletservice.ErrInvalidAmount)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: walletservice.ErrInvalidAmount.Error(),
		},
		{
			name: "Gateway rate limited",
			body: `{"amount":"1000"}`,
			prepareMock: func() {
				service.EXPECT().Deposit(gomock.Any(), userID, amount(1000), "card").Return(nil, fmt.Errorf("charge deposit: %w", payment.ErrRateLimited))
			},
			expectedCode:  http.StatusTooManyRequests,
			expectedError: "Payment gateway busy, try again later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rr := httptest.NewRecorder()

			handler.Deposit(rr, newRequest(http.MethodPost, "/api/user/deposit", tt.body))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, rr))
			}
		})
	}
}

func TestWithdraw(t *testing.T) {
	handler, service := NewMock(t)
	const card = "4561261212345467"

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "Payout settled",
			body: `{"amount":"250","card":"4561261212345467"}`,
			prepareMock: func() {
				service.EXPECT().Withdraw(gomock.Any(), userID, amount(250), card).
					Return(&domain.Transaction{ID: "w1", Status: domain.StatusSuccess, Amount: decimal.NewFromInt(-250)}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Payout pending",
			body: `{"amount":"250","card":"4561261212345467"}`,
			prepareMock: func() {
				service.EXPECT().Withdraw(gomock.Any(), userID, amount(250), card).
					Return(&domain.Transaction{ID: "w1", Status: domain.StatusPending, Amount: decimal.NewFromInt(-250)}, nil)
			},
			expectedCode: http.StatusAccepted,
		},
		{
			name: "Insufficient balance",
			body: `{"amount":"250","card":"4561261212345467"}`,
			prepareMock: func() {
				service.EXPECT().Withdraw(gomock.Any(), userID, amount(250), card).Return(nil, domain.ErrInsufficientBalance)
			},
			expectedCode:  http.StatusPaymentRequired,
			expectedError: domain.ErrInsufficientBalance.Error(),
		},
		{
			name: "Invalid card",
			body: `{"amount":"250","card":"1234"}`,
			prepareMock: func() {
				service.EXPECT().Withdraw(gomock.Any(), userID, amount(250), "1234").Return(nil, walletservice.ErrInvalidCard)
			},
			expectedCode:  http.StatusUnprocessableEntity,
			expectedError: walletservice.ErrInvalidCard.Error(),
		},
		{
			name:          "Invalid request body",
			body:          `nope`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rr := httptest.NewRecorder()

			handler.Withdraw(rr, newRequest(http.MethodPost, "/api/user/withdraw", tt.body))

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, rr))
			}
		})
	}
}

func TestClaimDailyTask(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
	}{
		{
			name: "Reward paid",
			prepareMock: func() {
				service.EXPECT().ClaimDailyTask(gomock.Any(), userID).
					Return(&domain.Transaction{ID: "t1", Type: domain.TransactionTask, Amount: decimal.NewFromInt(5), Status: domain.StatusSuccess}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "Already claimed",
			prepareMock: func() {
				service.EXPECT().ClaimDailyTask(gomock.Any(), userID).Return(nil, walletservice.ErrTaskAlreadyClaimed)
			},
			expectedCode: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rr := httptest.NewRecorder()

			handler.ClaimDailyTask(rr, newRequest(http.MethodPost, "/api/user/tasks/daily", ""))

			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}
