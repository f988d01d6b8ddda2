package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReferralEventDTO struct {
	DepositID      string          `json:"depositId"`
	ReferredUserID string          `json:"referredUserId"`
	Username       string          `json:"username" example:"miner42"`
	Date           time.Time       `json:"date"`
	Commission     decimal.Decimal `json:"commission" swaggertype:"string" example:"300"`
	DepositAmount  decimal.Decimal `json:"depositAmount" swaggertype:"string" example:"1000"`
}

type AffiliateResponseDTO struct {
	AffiliateCode        string             `json:"affiliateCode" example:"4B7E21D9"`
	AffiliateBalance     decimal.Decimal    `json:"affiliateBalance" swaggertype:"string" example:"300"`
	TotalCommissions     decimal.Decimal    `json:"totalCommissions" swaggertype:"string" example:"300"`
	MonthlyCommissions   decimal.Decimal    `json:"monthlyCommissions" swaggertype:"string" example:"300"`
	ActiveReferralsCount int                `json:"activeReferralsCount" example:"1"`
	Referrals            []ReferralEventDTO `json:"referrals"`
}

type AffiliateWithdrawRequestDTO struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"100"`
}

type AffiliateWithdrawResponseDTO struct {
	Balance          decimal.Decimal `json:"balance" swaggertype:"string" example:"1100"`
	AffiliateBalance decimal.Decimal `json:"affiliateBalance" swaggertype:"string" example:"200"`
}
