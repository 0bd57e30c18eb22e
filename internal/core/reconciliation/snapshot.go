package reconciliation

import (
	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Totals are the running sums across the working set, ready for rendering.
type Totals struct {
	Received decimal.Decimal `json:"received"`
	Gross    decimal.Decimal `json:"gross"`
	Balance  decimal.Decimal `json:"balance"`
	Adjusted decimal.Decimal `json:"adjusted"`
}

// Snapshot is the full readable projection of a session: dimensions,
// allocations in selection order, derived aggregates, and any stale invoice
// references surfaced for optional warning display.
type Snapshot struct {
	Seller          string                     `json:"seller"`
	Buyer           string                     `json:"buyer"`
	PaymentType     domain.PaymentType         `json:"paymentType"`
	PaymentNumber   string                     `json:"paymentNumber,omitempty"`
	State           State                      `json:"state"`
	Allocations     []domain.InvoiceAllocation `json:"allocations"`
	AdvanceReceived decimal.Decimal            `json:"advanceReceived"`
	AdvanceAmount   decimal.Decimal            `json:"advanceAmount"`
	IncomeTaxAmount decimal.Decimal            `json:"incomeTaxAmount"`
	IncomeTaxRate   decimal.Decimal            `json:"incomeTaxRate"`
	RemainingTax    decimal.Decimal            `json:"remainingTax"`
	Totals          Totals                     `json:"totals"`
	StaleRefs       []string                   `json:"staleRefs,omitempty"`
}

// Snapshot projects the session's current state. The returned allocations
// are a copy; mutating them does not affect the session.
func (s *Session) Snapshot() Snapshot {
	allocs := make([]domain.InvoiceAllocation, len(s.allocations))
	copy(allocs, s.allocations)

	totals := Totals{
		Received: decimal.Zero,
		Gross:    decimal.Zero,
		Balance:  decimal.Zero,
		Adjusted: decimal.Zero,
	}
	var staleRefs []string
	for _, a := range allocs {
		totals.Received = totals.Received.Add(a.ReceivedAmount)
		totals.Gross = totals.Gross.Add(a.TotalAmount)
		totals.Balance = totals.Balance.Add(a.Balance)
		totals.Adjusted = totals.Adjusted.Add(a.AdjustedAmount)
		if a.Stale {
			staleRefs = append(staleRefs, allocationKey(a))
		}
	}

	return Snapshot{
		Seller:          s.seller,
		Buyer:           s.buyer,
		PaymentType:     s.paymentType,
		PaymentNumber:   s.paymentNumber,
		State:           s.state,
		Allocations:     allocs,
		AdvanceReceived: s.advanceRemaining,
		AdvanceAmount:   s.advanceAmount,
		IncomeTaxAmount: s.incomeTaxAmount,
		IncomeTaxRate:   s.incomeTaxRate,
		RemainingTax:    s.remainingTax,
		Totals:          totals,
		StaleRefs:       staleRefs,
	}
}

// SelectedInvoiceIDs returns the selection keys in selection order.
func (s *Session) SelectedInvoiceIDs() []string {
	ids := make([]string, 0, len(s.allocations))
	for _, a := range s.allocations {
		ids = append(ids, allocationKey(a))
	}
	return ids
}
