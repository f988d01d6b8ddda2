package domain

import "time"

type SettleResult int

const (
	SettleSkipped SettleResult = iota
	SettleCredited
	SettleExpired
	SettleMalformed
)

func (r SettleResult) String() string {
	switch r {
	case SettleCredited:
		return "credited"
	case SettleExpired:
		return "expired"
	case SettleMalformed:
		return "malformed"
	}
	return "skipped"
}

// ExpiryDate is the calendar date, in loc, on which the miner stops paying.
func (m *Miner) ExpiryDate(loc *time.Location) Date {
	return DateOf(m.ExpiresAt.In(loc))
}

// Settle applies one day of the miner's lifecycle for today. Expiry is checked
// before the reward, so the terminal day pays nothing.
func (m *Miner) Settle(today Date, loc *time.Location) SettleResult {
	if !m.Active {
		return SettleSkipped
	}
	if m.ExpiresAt.IsZero() || !m.DailyReturn.IsPositive() {
		return SettleMalformed
	}
	if !today.Before(m.ExpiryDate(loc)) {
		m.Active = false
		return SettleExpired
	}
	if !m.LastProcessed.Before(today) {
		return SettleSkipped
	}
	m.TotalEarned = m.TotalEarned.Add(m.DailyReturn)
	m.LastProcessed = today
	return SettleCredited
}
