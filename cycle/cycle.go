// Package cycle implements the billing-cycle date rules for credit cards.
//
// A card purchase belongs to a billing period determined by the card's
// closing day: a purchase dated after the closing day has missed the current
// statement and rolls into the next one. The functions here are pure; the
// store-aware checks (paid bills, forward redirection) live on the engine.
package cycle

import (
	"time"

	"github.com/thiagodosanjos/cofrin/types"
)

// Resolve returns the billing period a purchase belongs to. Purchases dated
// on the closing day still make the current cycle; one day later belongs to
// the next cycle, wrapping December into January of the following year.
func Resolve(purchaseDate time.Time, closingDay int) types.Period {
	p := types.PeriodOf(purchaseDate)
	if purchaseDate.Day() > closingDay {
		return p.Next()
	}
	return p
}

// Closed reports whether the billing period p is already closed as of today:
// either p is strictly before today's calendar month, or it is the current
// month and today's day-of-month is past the closing day.
func Closed(p types.Period, closingDay int, today time.Time) bool {
	current := types.PeriodOf(today)
	if p.Before(current) {
		return true
	}
	return p == current && today.Day() > closingDay
}
