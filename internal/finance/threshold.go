// internal/finance/threshold.go
package finance

import "github.com/shopspring/decimal"

// admissionRatio caps a single request at 40% of the park's total income.
var admissionRatio = decimal.NewFromFloat(0.4)

// Threshold is the largest amount a single request may be approved for
// against the given income snapshot.
func Threshold(snap IncomeSnapshot) decimal.Decimal {
	return snap.Total.Mul(admissionRatio).Round(2)
}

// Admissible reports whether the requested amount clears the admission
// threshold. With zero income everything positive is inadmissible.
func Admissible(amount decimal.Decimal, snap IncomeSnapshot) bool {
	return amount.LessThanOrEqual(Threshold(snap))
}
