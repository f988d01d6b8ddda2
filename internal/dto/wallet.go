package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/minerledger/internal/domain"
)

type BalanceResponseDTO struct {
	Balance          decimal.Decimal `json:"balance" swaggertype:"string" example:"1250.00"`
	TotalEarnings    decimal.Decimal `json:"totalEarnings" swaggertype:"string" example:"264"`
	MonthlyEarnings  decimal.Decimal `json:"monthlyEarnings" swaggertype:"string" example:"176"`
	AffiliateBalance decimal.Decimal `json:"affiliateBalance" swaggertype:"string" example:"300"`
}

type DepositRequestDTO struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"1000"`
	Method string          `json:"method" example:"card"`
}

type WithdrawRequestDTO struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"250"`
	Card   string          `json:"card" example:"4561261212345467"`
}

type TransactionResponseDTO struct {
	ID          string          `json:"id"`
	Type        string          `json:"type" example:"mining"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"88"`
	Status      string          `json:"status" example:"success"`
	Timestamp   time.Time       `json:"timestamp" example:"2024-06-02T10:00:00Z"`
	Description string          `json:"description,omitempty"`
	Method      string          `json:"method,omitempty" example:"card"`
	Reference   string          `json:"reference,omitempty"`
	Card        string          `json:"card,omitempty" example:"************5467"`
}

func NewTransactionResponseDTO(tx *domain.Transaction) TransactionResponseDTO {
	res := TransactionResponseDTO{
		ID:          tx.ID,
		Type:        string(tx.Type),
		Amount:      tx.Amount,
		Status:      string(tx.Status),
		Timestamp:   tx.CreatedAt,
		Description: tx.Description,
	}
	if tx.Payment != nil {
		res.Method = tx.Payment.Method
		res.Reference = tx.Payment.Reference
		res.Card = tx.Payment.Card
	}
	return res
}
