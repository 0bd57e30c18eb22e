package reconciliation

import (
	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// baselineFor resolves the inherited balance baseline for an invoice number
// under the session's current lookup flow:
//
//   - with an explicit payment number set, the baseline comes from that
//     payment's allocation for the invoice;
//   - otherwise, for PAYMENT drafts, from the most recent approved
//     PAYMENT/INCOME_TAX payment for the pair.
//
// ADVANCE drafts never inherit baselines.
func (s *Session) baselineFor(invoiceNumber string) (decimal.Decimal, bool) {
	if invoiceNumber == "" {
		return decimal.Zero, false
	}
	switch s.paymentType {
	case domain.PaymentTypePayment, domain.PaymentTypeIncomeTax:
	default:
		return decimal.Zero, false
	}

	if s.paymentNumber != "" {
		for _, p := range s.history {
			if p.PaymentNumber != s.paymentNumber {
				continue
			}
			for _, a := range p.Allocations {
				if a.InvoiceNumber == invoiceNumber {
					return a.Balance, true
				}
			}
		}
		return decimal.Zero, false
	}

	if s.paymentType != domain.PaymentTypePayment {
		return decimal.Zero, false
	}
	latest, ok := s.latestSettlementPayment()
	if !ok {
		return decimal.Zero, false
	}
	for _, a := range latest.Allocations {
		if a.InvoiceNumber == invoiceNumber && a.Seller == s.seller && a.Buyer == s.buyer {
			return a.Balance, true
		}
	}
	return decimal.Zero, false
}

// latestSettlementPayment returns the most recent approved PAYMENT or
// INCOME_TAX payment for the session's seller/buyer pair.
func (s *Session) latestSettlementPayment() (domain.PriorPayment, bool) {
	var (
		latest domain.PriorPayment
		found  bool
	)
	for _, p := range s.history {
		if p.Status != domain.PaymentStatusApproved {
			continue
		}
		if p.PaymentType != domain.PaymentTypePayment && p.PaymentType != domain.PaymentTypeIncomeTax {
			continue
		}
		if p.Seller != s.seller || p.Buyer != s.buyer {
			continue
		}
		if !found || p.CreationDate.After(latest.CreationDate) {
			latest = p
			found = true
		}
	}
	return latest, found
}

// autoSeed populates the working set from history for PAYMENT drafts with
// no explicit payment number chosen: every allocation of the most recent
// approved settlement payment whose balance is still non-zero reappears as
// a selection, carrying only its balance baseline. Settled invoices (zero
// balance) are excluded; a user may still add one manually, in which case
// it is treated as fresh.
func (s *Session) autoSeed() {
	if s.paymentType != domain.PaymentTypePayment || s.paymentNumber != "" {
		return
	}
	latest, ok := s.latestSettlementPayment()
	if !ok {
		return
	}

	for _, prior := range latest.Allocations {
		if prior.Balance.IsZero() {
			continue
		}
		if prior.Seller != s.seller || prior.Buyer != s.buyer {
			continue
		}

		alloc := domain.InvoiceAllocation{
			InvoiceNumber:   prior.InvoiceNumber,
			Seller:          prior.Seller,
			Buyer:           prior.Buyer,
			TotalAmount:     prior.TotalAmount,
			ReceivedAmount:  decimal.Zero,
			AdjustedAmount:  decimal.Zero,
			OriginalBalance: prior.Balance,
			HasHistory:      true,
			InvoiceAdjusted: prior.Balance.Abs(),
		}
		// Re-link to the catalog by invoice number; a miss keeps the
		// logical number link and marks the row stale.
		if inv, ok := s.lookupInvoiceByNumber(prior.InvoiceNumber); ok {
			alloc.InvoiceID = inv.InvoiceID
			alloc.TotalAmount = inv.GrossValue
		} else {
			alloc.InvoiceID = prior.InvoiceID
			alloc.Stale = true
		}

		key := allocationKey(alloc)
		if _, dup := s.selected[key]; dup {
			continue
		}
		s.selected[key] = struct{}{}
		s.allocations = append(s.allocations, alloc)
	}

	if len(s.allocations) > 0 && s.state == StateBuilding {
		s.state = StatePopulated
	}
}

func (s *Session) lookupInvoiceByNumber(invoiceNumber string) (domain.Invoice, bool) {
	if invoiceNumber == "" {
		return domain.Invoice{}, false
	}
	for _, inv := range s.catalog {
		if inv.InvoiceNumber == invoiceNumber && inv.Seller == s.seller && inv.Buyer == s.buyer {
			return inv, true
		}
	}
	return domain.Invoice{}, false
}
