package miners

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/internal/dto"
	"github.com/GlebRadaev/minerledger/internal/service/minerservice"
	"github.com/GlebRadaev/minerledger/pkg/auth"
	"github.com/GlebRadaev/minerledger/pkg/utils"
)

//go:generate mockgen -source=miners.go -destination=mock_service.go -package=miners Service
type Service interface {
	Tiers() []minerservice.Tier
	Purchase(ctx context.Context, userID, tierName string) (*domain.Miner, error)
	List(ctx context.Context, userID string) ([]domain.Miner, error)
}

type MinersHandler struct {
	minerService Service
}

func New(minerService Service) *MinersHandler {
	return &MinersHandler{
		minerService: minerService,
	}
}

// GetTiers godoc
//
//	@Summary		List miner tiers
//	@Tags			Miners
//	@Produce		json
//	@Success		200	{array}	dto.TierResponseDTO
//	@Router			/api/miners/tiers [get]
func (h *MinersHandler) GetTiers(w http.ResponseWriter, _ *http.Request) {
	tiers := h.minerService.Tiers()
	response := make([]dto.TierResponseDTO, len(tiers))
	for i, t := range tiers {
		response[i] = dto.TierResponseDTO{
			Name:        t.Name,
			Price:       t.Price,
			DailyReturn: t.DailyReturn,
			TermDays:    t.TermDays,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// PurchaseMiner godoc
//
//	@Summary		Buy a miner
//	@Description	Debits the tier price from the balance and starts a new mining position.
//	@Tags			Miners
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.PurchaseMinerRequestDTO	true	"Tier to buy"
//	@Success		201		{object}	dto.MinerResponseDTO
//	@Failure		400		{object}	utils.Response	"Unknown tier"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		402		{object}	utils.Response	"Insufficient balance"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/user/miners [post]
func (h *MinersHandler) PurchaseMiner(w http.ResponseWriter, r *http.Request) {
	var req dto.PurchaseMinerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	miner, err := h.minerService.Purchase(r.Context(), auth.UserID(r.Context()), req.Tier)
	if err != nil {
		switch {
		case errors.Is(err, minerservice.ErrUnknownTier):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toDTO(miner))
}

// GetMiners godoc
//
//	@Summary		List owned miners
//	@Tags			Miners
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.MinerResponseDTO
//	@Success		204	{object}	utils.Response	"No miners"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/user/miners [get]
func (h *MinersHandler) GetMiners(w http.ResponseWriter, r *http.Request) {
	miners, err := h.minerService.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch miners")
		return
	}
	if len(miners) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	response := make([]dto.MinerResponseDTO, len(miners))
	for i := range miners {
		response[i] = toDTO(&miners[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

func toDTO(m *domain.Miner) dto.MinerResponseDTO {
	return dto.MinerResponseDTO{
		ID:            m.ID,
		Name:          m.Name,
		DailyReturn:   m.DailyReturn,
		PurchasedAt:   m.PurchasedAt,
		ExpiresAt:     m.ExpiresAt,
		Active:        m.Active,
		TotalEarned:   m.TotalEarned,
		LastProcessed: m.LastProcessed.String(),
	}
}
