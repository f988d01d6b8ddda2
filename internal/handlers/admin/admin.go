package admin

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/GlebRadaev/minerledger/internal/settlement"
	"github.com/GlebRadaev/minerledger/pkg/utils"
)

//go:generate mockgen -source=admin.go -destination=mock_service.go -package=admin Service
type Service interface {
	Status() settlement.Status
	ProcessNow(ctx context.Context) (*settlement.Report, error)
}

type AdminHandler struct {
	engine Service
}

func New(engine Service) *AdminHandler {
	return &AdminHandler{
		engine: engine,
	}
}

// GetSettlementStatus godoc
//
//	@Summary		Settlement engine status
//	@Tags			Admin
//	@Security		AdminToken
//	@Produce		json
//	@Success		200	{object}	settlement.Status
//	@Failure		403	{object}	utils.Response	"Forbidden"
//	@Router			/api/admin/settlement [get]
func (h *AdminHandler) GetSettlementStatus(w http.ResponseWriter, _ *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, h.engine.Status())
}

// RunSettlement godoc
//
//	@Summary		Run a settlement pass now
//	@Description	Ignores the hour gate. Positions already paid today are skipped.
//	@Tags			Admin
//	@Security		AdminToken
//	@Produce		json
//	@Success		200	{object}	settlement.Report
//	@Failure		403	{object}	utils.Response	"Forbidden"
//	@Failure		500	{object}	utils.Response	"Settlement pass failed"
//	@Router			/api/admin/settlement/run [post]
func (h *AdminHandler) RunSettlement(w http.ResponseWriter, r *http.Request) {
	report, err := h.engine.ProcessNow(r.Context())
	if err != nil {
		zap.L().Error("manual settlement pass failed", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Settlement pass failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, report)
}
