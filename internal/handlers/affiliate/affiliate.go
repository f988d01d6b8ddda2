package affiliate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/internal/dto"
	"github.com/GlebRadaev/minerledger/internal/service/affiliateservice"
	"github.com/GlebRadaev/minerledger/pkg/auth"
	"github.com/GlebRadaev/minerledger/pkg/utils"
)

//go:generate mockgen -source=affiliate.go -destination=mock_service.go -package=affiliate Service
type Service interface {
	Stats(ctx context.Context, userID string) (*affiliateservice.Stats, error)
	WithdrawAffiliate(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Account, error)
}

type AffiliateHandler struct {
	affiliateService Service
}

func New(affiliateService Service) *AffiliateHandler {
	return &AffiliateHandler{
		affiliateService: affiliateService,
	}
}

// GetStats godoc
//
//	@Summary		Affiliate statistics
//	@Description	Affiliate code, commission balance and the commission events earned from referrals.
//	@Tags			Affiliate
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.AffiliateResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		404	{object}	utils.Response	"Account not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/affiliate [get]
func (h *AffiliateHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.affiliateService.Stats(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	referrals := make([]dto.ReferralEventDTO, len(stats.Stats.ActiveReferralsList))
	for i, e := range stats.Stats.ActiveReferralsList {
		referrals[i] = dto.ReferralEventDTO{
			DepositID:      e.DepositID,
			ReferredUserID: e.ReferredUserID,
			Username:       e.Username,
			Date:           e.Date,
			Commission:     e.Commission,
			DepositAmount:  e.DepositAmount,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.AffiliateResponseDTO{
		AffiliateCode:        stats.AffiliateCode,
		AffiliateBalance:     stats.AffiliateBalance,
		TotalCommissions:     stats.Stats.TotalCommissions,
		MonthlyCommissions:   stats.Stats.MonthlyCommissions,
		ActiveReferralsCount: stats.Stats.ActiveReferralsCount,
		Referrals:            referrals,
	})
}

// Withdraw godoc
//
//	@Summary		Move affiliate balance to the main balance
//	@Tags			Affiliate
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.AffiliateWithdrawRequestDTO	true	"Amount to move"
//	@Success		200		{object}	dto.AffiliateWithdrawResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid amount"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient affiliate balance"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/affiliate/withdraw [post]
func (h *AffiliateHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.AffiliateWithdrawRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	acc, err := h.affiliateService.WithdrawAffiliate(r.Context(), auth.UserID(r.Context()), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, affiliateservice.ErrInvalidAmount):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, affiliateservice.ErrInsufficientAffiliateBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.AffiliateWithdrawResponseDTO{
		Balance:          acc.Balance,
		AffiliateBalance: acc.AffiliateBalance,
	})
}
