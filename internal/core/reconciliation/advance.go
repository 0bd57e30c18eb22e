// Package reconciliation implements the in-memory invoice/payment
// reconciliation engine: per-invoice balance math, carry-forward of
// unapplied advance funds, and the command-driven draft session that ties
// a (seller, buyer, payment type) tuple to a working set of allocations.
//
// The package is pure computation over domain types. It performs no I/O;
// callers supply consistent, already-fetched catalog and history snapshots.
package reconciliation

import (
	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TotalAdvance sums the outstanding advance for a seller/buyer pair: the
// advanceReceived of every approved ADVANCE payment whose seller and buyer
// match exactly. Matching is string equality on resolved display names.
// Returns zero when nothing matches.
//
// This is recomputed from the history snapshot on every derivation pass,
// never cached, so it can't drift when the snapshot changes.
func TotalAdvance(seller, buyer string, priorPayments []domain.PriorPayment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range priorPayments {
		if p.PaymentType != domain.PaymentTypeAdvance {
			continue
		}
		if p.Status != domain.PaymentStatusApproved {
			continue
		}
		if p.Seller != seller || p.Buyer != buyer {
			continue
		}
		total = total.Add(p.AdvanceReceived)
	}
	return total
}
