package reconciliation

import (
	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecomputeAdvance returns the advance remaining after the in-progress
// adjustments are applied: max(0, totalAdvance − Σ adjustedAmount). It is
// defined for ADVANCE and PAYMENT drafts and must be re-derived after every
// change to any allocation's adjusted amount.
//
// Unlike the general PAYMENT balance branches, this is floor-clamped rather
// than made absolute. Balances are magnitudes of a difference; the remaining
// advance is a physical pool of funds and can't go below empty.
func RecomputeAdvance(totalAdvance decimal.Decimal, allocations []domain.InvoiceAllocation) decimal.Decimal {
	sumAdjusted := decimal.Zero
	for _, a := range allocations {
		sumAdjusted = sumAdjusted.Add(a.AdjustedAmount)
	}
	remaining := totalAdvance.Sub(sumAdjusted)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}
