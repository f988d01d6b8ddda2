package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type TierResponseDTO struct {
	Name        string          `json:"name" example:"Advanced"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"1000"`
	DailyReturn decimal.Decimal `json:"dailyReturn" swaggertype:"string" example:"88"`
	TermDays    int             `json:"termDays" example:"30"`
}

type PurchaseMinerRequestDTO struct {
	Tier string `json:"tier" example:"Advanced"`
}

type MinerResponseDTO struct {
	ID            string          `json:"id"`
	Name          string          `json:"name" example:"Advanced"`
	DailyReturn   decimal.Decimal `json:"dailyReturn" swaggertype:"string" example:"88"`
	PurchasedAt   time.Time       `json:"purchasedAt"`
	ExpiresAt     time.Time       `json:"expiresAt"`
	Active        bool            `json:"active"`
	TotalEarned   decimal.Decimal `json:"totalEarned" swaggertype:"string" example:"176"`
	LastProcessed string          `json:"lastProcessed,omitempty" example:"2024-06-02"`
}
