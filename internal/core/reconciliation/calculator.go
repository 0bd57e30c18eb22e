package reconciliation

import (
	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceInput carries everything ComputeBalance needs to settle one
// allocation under the active payment type.
type BalanceInput struct {
	PaymentType     domain.PaymentType
	GrossValue      decimal.Decimal // GST-inclusive settlement target
	Received        decimal.Decimal
	ReceivedEntered bool // false while the received field is still blank
	Adjusted        decimal.Decimal
	TotalAdvance    decimal.Decimal // accumulated approved advance for the pair
	OriginalBalance decimal.Decimal // baseline inherited from history, when HasHistory
	HasHistory      bool
}

// ComputeBalance computes the remaining unsettled amount on one invoice
// allocation. The payment type selects exactly one branch:
//
//   - INCOME_TAX: |adjusted − gross|. The received amount plays no part;
//     income-tax payments settle purely through the declared adjustment.
//   - PAYMENT with an inherited baseline: the baseline is shown verbatim
//     until a received amount is entered, then max(0, baseline − received).
//     This is the only floor-clamped branch — a partial payment can't push
//     an invoice past settled.
//   - PAYMENT, fresh invoice, advance outstanding: |advance + adjusted − gross|.
//   - PAYMENT, fresh invoice, no advance: |gross − received|.
//   - ADVANCE: no per-invoice balance; advances only feed TotalAdvance for
//     future sessions.
//
// Every non-clamped result is reported as an absolute value: balances are
// magnitudes of a signed difference, never negative.
func ComputeBalance(in BalanceInput) decimal.Decimal {
	switch in.PaymentType {
	case domain.PaymentTypeIncomeTax:
		return in.Adjusted.Sub(in.GrossValue).Abs()

	case domain.PaymentTypePayment:
		if in.HasHistory {
			if !in.ReceivedEntered {
				return in.OriginalBalance
			}
			bal := in.OriginalBalance.Sub(in.Received)
			if bal.IsNegative() {
				return decimal.Zero
			}
			return bal
		}
		if in.TotalAdvance.IsPositive() {
			return in.TotalAdvance.Add(in.Adjusted).Sub(in.GrossValue).Abs()
		}
		return in.GrossValue.Sub(in.Received).Abs()

	case domain.PaymentTypeAdvance:
		return decimal.Zero
	}
	return decimal.Zero
}
