package domain

import "github.com/shopspring/decimal"

// MoneyPlaces is the precision of amounts entering the ledger from outside.
const MoneyPlaces = 2

// MaxAmount caps a single deposit or withdrawal.
var MaxAmount = decimal.New(1, 12)

// ValidAmount reports whether d is a positive whole number of cents no larger
// than MaxAmount.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Truncate(MoneyPlaces)) && !d.GreaterThan(MaxAmount)
}
