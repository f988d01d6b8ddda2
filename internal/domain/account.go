package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EarningsWindow is the span monthly earnings are summed over.
const EarningsWindow = 30 * 24 * time.Hour

// IsEarning reports whether the transaction counts toward lifetime and
// monthly earnings.
func (t Transaction) IsEarning() bool {
	return t.Status == StatusSuccess && (t.Type == TransactionMining || t.Type == TransactionTask)
}

// Credit adds an earning to the balance and both earnings aggregates and logs
// it as a successful transaction.
func (a *Account) Credit(tx Transaction, now time.Time) {
	tx.Status = StatusSuccess
	a.Balance = a.Balance.Add(tx.Amount)
	if tx.IsEarning() {
		a.TotalEarnings = a.TotalEarnings.Add(tx.Amount)
	}
	a.Transactions = append(a.Transactions, tx)
	a.RecomputeMonthlyEarnings(now)
}

func (a *Account) Debit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	return nil
}

// RecomputeMonthlyEarnings rebuilds MonthlyEarnings from the transaction log.
func (a *Account) RecomputeMonthlyEarnings(now time.Time) {
	since := now.Add(-EarningsWindow)
	sum := decimal.Zero
	for _, tx := range a.Transactions {
		if tx.IsEarning() && tx.CreatedAt.After(since) {
			sum = sum.Add(tx.Amount)
		}
	}
	a.MonthlyEarnings = sum
}

// LoggedEarnings sums every earning transaction ever appended.
func (a *Account) LoggedEarnings() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range a.Transactions {
		if tx.IsEarning() {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

func (a *Account) Transaction(id string) *Transaction {
	for i := range a.Transactions {
		if a.Transactions[i].ID == id {
			return &a.Transactions[i]
		}
	}
	return nil
}

func (s *AffiliateStats) HasDeposit(depositID string) bool {
	for _, ev := range s.ActiveReferralsList {
		if ev.DepositID == depositID {
			return true
		}
	}
	return false
}

func (s *AffiliateStats) HasReferral(userID string) bool {
	for _, ev := range s.ActiveReferralsList {
		if ev.ReferredUserID == userID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy that shares no slices with a.
func (a *Account) Clone() *Account {
	c := *a
	if a.Miners != nil {
		c.Miners = append([]Miner(nil), a.Miners...)
	}
	if a.Transactions != nil {
		c.Transactions = make([]Transaction, len(a.Transactions))
		for i, tx := range a.Transactions {
			if tx.Payment != nil {
				p := *tx.Payment
				tx.Payment = &p
			}
			c.Transactions[i] = tx
		}
	}
	if a.AffiliateStats.ActiveReferralsList != nil {
		c.AffiliateStats.ActiveReferralsList = append([]CommissionEvent(nil), a.AffiliateStats.ActiveReferralsList...)
	}
	return &c
}
