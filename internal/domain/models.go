package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionDeposit             TransactionType = "deposit"
	TransactionWithdrawal          TransactionType = "withdrawal"
	TransactionPurchase            TransactionType = "purchase"
	TransactionTask                TransactionType = "task"
	TransactionMining              TransactionType = "mining"
	TransactionAffiliateCommission TransactionType = "affiliate_commission"
	TransactionAffiliateWithdrawal TransactionType = "affiliate_withdrawal"
)

type TransactionStatus string

const (
	StatusSuccess TransactionStatus = "success"
	StatusPending TransactionStatus = "pending"
	StatusFailed  TransactionStatus = "failed"
)

// Account is the per-user ledger document. Every field is read and written as
// one unit by the store.
type Account struct {
	ID               string          `json:"id" bson:"_id"`
	Login            string          `json:"login" bson:"login"`
	PasswordHash     string          `json:"-" bson:"passwordHash"`
	Balance          decimal.Decimal `json:"balance" bson:"balance"`
	TotalEarnings    decimal.Decimal `json:"totalEarnings" bson:"totalEarnings"`
	MonthlyEarnings  decimal.Decimal `json:"monthlyEarnings" bson:"monthlyEarnings"`
	AffiliateBalance decimal.Decimal `json:"affiliateBalance" bson:"affiliateBalance"`
	AffiliateCode    string          `json:"affiliateCode" bson:"affiliateCode"`
	ReferredBy       string          `json:"referredBy,omitempty" bson:"referredBy,omitempty"`
	Miners           []Miner         `json:"miners" bson:"miners"`
	Transactions     []Transaction   `json:"transactions" bson:"transactions"`
	AffiliateStats   AffiliateStats  `json:"affiliateStats" bson:"affiliateStats"`
	LastTaskDate     Date            `json:"lastTaskDate" bson:"lastTaskDate"`
	CreatedAt        time.Time       `json:"createdAt" bson:"createdAt"`
	Version          int64           `json:"-" bson:"version"`
}

type Miner struct {
	ID            string          `json:"id" bson:"id"`
	Name          string          `json:"name" bson:"name"`
	DailyReturn   decimal.Decimal `json:"dailyReturn" bson:"dailyReturn"`
	PurchasedAt   time.Time       `json:"purchasedAt" bson:"purchasedAt"`
	ExpiresAt     time.Time       `json:"expiresAt" bson:"expiresAt"`
	Active        bool            `json:"active" bson:"active"`
	TotalEarned   decimal.Decimal `json:"totalEarned" bson:"totalEarned"`
	LastProcessed Date            `json:"lastProcessed" bson:"lastProcessed"`
}

type Transaction struct {
	ID          string            `json:"id" bson:"id"`
	Type        TransactionType   `json:"type" bson:"type"`
	Amount      decimal.Decimal   `json:"amount" bson:"amount"`
	Status      TransactionStatus `json:"status" bson:"status"`
	CreatedAt   time.Time         `json:"timestamp" bson:"timestamp"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	Payment     *PaymentInfo      `json:"payment,omitempty" bson:"payment,omitempty"`
}

type PaymentInfo struct {
	Method    string `json:"method" bson:"method"`
	Reference string `json:"reference,omitempty" bson:"reference,omitempty"`
	Card      string `json:"card,omitempty" bson:"card,omitempty"`
}

type AffiliateStats struct {
	TotalCommissions     decimal.Decimal   `json:"totalCommissions" bson:"totalCommissions"`
	MonthlyCommissions   decimal.Decimal   `json:"monthlyCommissions" bson:"monthlyCommissions"`
	ActiveReferralsCount int               `json:"activeReferralsCount" bson:"activeReferralsCount"`
	ActiveReferralsList  []CommissionEvent `json:"activeReferralsList" bson:"activeReferralsList"`
}

type CommissionEvent struct {
	DepositID      string          `json:"depositId" bson:"depositId"`
	ReferredUserID string          `json:"referredUserId" bson:"referredUserId"`
	Username       string          `json:"username" bson:"username"`
	Date           time.Time       `json:"date" bson:"date"`
	Commission     decimal.Decimal `json:"commission" bson:"commission"`
	DepositAmount  decimal.Decimal `json:"depositAmount" bson:"depositAmount"`
}

// UpdateFn mutates a freshly loaded account inside a store's atomic
// read-modify-write. Returning ErrNoChanges skips the write.
type UpdateFn func(acc *Account) error

// CommissionOutcome describes what an attribution attempt did.
type CommissionOutcome string

const (
	CommissionCredited         CommissionOutcome = "credited"
	CommissionNoReferrer       CommissionOutcome = "no_referrer"
	CommissionReferrerNotFound CommissionOutcome = "referrer_not_found"
	CommissionDuplicate        CommissionOutcome = "duplicate"
	CommissionNothingDue       CommissionOutcome = "nothing_due"
)
