package dosing

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBillingPeriodDays is the window used when callers pass zero.
const DefaultBillingPeriodDays = 30

// CostedEvent is a past service visit with the chemical cost recorded at the time.
type CostedEvent struct {
	Timestamp         time.Time
	TotalChemicalCost float64
}

// Profit summarizes one billing period for a pool.
type Profit struct {
	TotalChemCost float64 `json:"totalChemCost"`
	Profit        float64 `json:"profit"`
	IsInTheRed    bool    `json:"isInTheRed"`
}

// ProfitAnalysis sums the recorded chemical cost of events at or after
// now minus billingPeriodDays and compares it with the monthly fee.
// A non-positive period falls back to DefaultBillingPeriodDays.
func ProfitAnalysis(monthlyFee float64, events []CostedEvent, billingPeriodDays int, now time.Time) Profit {
	if billingPeriodDays <= 0 {
		billingPeriodDays = DefaultBillingPeriodDays
	}
	cutoff := now.AddDate(0, 0, -billingPeriodDays)

	total := decimal.Zero
	for _, ev := range events {
		if ev.Timestamp.Before(cutoff) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(ev.TotalChemicalCost))
	}

	profit := decimal.NewFromFloat(monthlyFee).Sub(total)
	return Profit{
		TotalChemCost: total.InexactFloat64(),
		Profit:        profit.InexactFloat64(),
		IsInTheRed:    profit.IsNegative(),
	}
}
