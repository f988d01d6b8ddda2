package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/internal/dto"
	"github.com/GlebRadaev/minerledger/internal/payment"
	"github.com/GlebRadaev/minerledger/internal/service/walletservice"
	"github.com/GlebRadaev/minerledger/pkg/auth"
	"github.com/GlebRadaev/minerledger/pkg/utils"
)

const defaultDepositMethod = "card"

//go:generate mockgen -source=wallet.go -destination=mock_service.go -package=wallet Service
type Service interface {
	Balance(ctx context.Context, userID string) (*walletservice.Balance, error)
	Transactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	Deposit(ctx context.Context, userID string, amount decimal.Decimal, method string) (*domain.Transaction, error)
	Withdraw(ctx context.Context, userID string, amount decimal.Decimal, card string) (*domain.Transaction, error)
	ClaimDailyTask(ctx context.Context, userID string) (*domain.Transaction, error)
}

type WalletHandler struct {
	walletService Service
}

func New(walletService Service) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// GetBalance godoc
//
//	@Summary		Get current user balance
//	@Description	Spendable balance, lifetime and 30-day earnings, and the affiliate balance.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Account not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/balance [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.walletService.Balance(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		Balance:          balance.Balance,
		TotalEarnings:    balance.TotalEarnings,
		MonthlyEarnings:  balance.MonthlyEarnings,
		AffiliateBalance: balance.AffiliateBalance,
	})
}

// GetTransactions godoc
//
//	@Summary		Get transaction history
//	@Description	All ledger entries of the authenticated user, newest first.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.TransactionResponseDTO
//	@Success		204	{object}	utils.Response	"No transactions"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/transactions [get]
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.walletService.Transactions(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	if len(txs) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	response := make([]dto.TransactionResponseDTO, len(txs))
	for i := range txs {
		response[i] = dto.NewTransactionResponseDTO(&txs[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Deposit godoc
//
//	@Summary		Deposit funds
//	@Description	Charges the payment gateway. A successful deposit is credited at once and earns the referrer a commission.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.DepositRequestDTO	true	"Deposit request payload"
//	@Success		200		{object}	dto.TransactionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		429		{object}	utils.Response	"Payment gateway busy"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/deposit [post]
func (h *WalletHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		method = defaultDepositMethod
	}

	tx, err := h.walletService.Deposit(r.Context(), auth.UserID(r.Context()), req.Amount, method)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewTransactionResponseDTO(tx))
}

// Withdraw godoc
//
//	@Summary		Withdraw funds to a card
//	@Description	Reserves the amount and requests a payout. 202 means the payout is still pending.
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WithdrawRequestDTO	true	"Withdrawal request payload"
//	@Success		200		{object}	dto.TransactionResponseDTO
//	@Success		202		{object}	dto.TransactionResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		422		{object}	utils.Response	"Invalid card number"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/withdraw [post]
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tx, err := h.walletService.Withdraw(r.Context(), auth.UserID(r.Context()), req.Amount, req.Card)
	if err != nil {
		respondError(w, err)
		return
	}
	code := http.StatusOK
	if tx.Status == domain.StatusPending {
		code = http.StatusAccepted
	}
	utils.RespondWithJSON(w, code, dto.NewTransactionResponseDTO(tx))
}

// ClaimDailyTask godoc
//
//	@Summary		Claim the daily task reward
//	@Tags			Wallet
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.TransactionResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		409	{object}	utils.Response	"Already claimed today"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/tasks/daily [post]
func (h *WalletHandler) ClaimDailyTask(w http.ResponseWriter, r *http.Request) {
	tx, err := h.walletService.ClaimDailyTask(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.NewTransactionResponseDTO(tx))
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, walletservice.ErrInvalidAmount):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, walletservice.ErrInvalidCard):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, walletservice.ErrTaskAlreadyClaimed):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, payment.ErrRateLimited):
		utils.RespondWithError(w, http.StatusTooManyRequests, "Payment gateway busy, try again later")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
