package reconciliation

import (
	"fmt"

	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Command is one draft mutation. Commands are the only way a session
// changes after construction; applying one is a full state transition,
// with every derived field recomputed before Apply returns.
type Command interface {
	isCommand()
}

// SetDimensions sets (or changes) seller, buyer and payment type. Any
// change discards the working set: no allocation survives a dimension
// change.
type SetDimensions struct {
	Seller      string
	Buyer       string
	PaymentType domain.PaymentType
}

// SetPaymentNumber selects a specific history payment for baseline lookup
// (PAYMENT and INCOME_TAX flows). Changing it rebuilds the working set.
type SetPaymentNumber struct {
	PaymentNumber string
}

// SelectInvoice adds an invoice to the working set.
type SelectInvoice struct {
	InvoiceID string
}

// DeselectInvoice removes an invoice and its allocation from the working set.
type DeselectInvoice struct {
	InvoiceID string
}

// SetReceivedAmount records the user-entered received amount for one
// allocation.
type SetReceivedAmount struct {
	InvoiceID string
	Amount    decimal.Decimal
}

// SetAdjustedAmount records the user-entered adjusted amount for one
// allocation.
type SetAdjustedAmount struct {
	InvoiceID string
	Amount    decimal.Decimal
}

// SetAdvanceReceived records the advance figure for an ADVANCE draft.
type SetAdvanceReceived struct {
	Amount decimal.Decimal
}

// SetIncomeTaxAmount records the declared income-tax liability for the draft.
type SetIncomeTaxAmount struct {
	Amount decimal.Decimal
}

// SetIncomeTaxRate records the income-tax rate figure for the draft.
type SetIncomeTaxRate struct {
	Rate decimal.Decimal
}

func (SetDimensions) isCommand()     {}
func (SetPaymentNumber) isCommand()  {}
func (SelectInvoice) isCommand()     {}
func (DeselectInvoice) isCommand()   {}
func (SetReceivedAmount) isCommand() {}
func (SetAdjustedAmount) isCommand() {}
func (SetAdvanceReceived) isCommand() {}
func (SetIncomeTaxAmount) isCommand() {}
func (SetIncomeTaxRate) isCommand()  {}

// Apply routes a command to the session. The same sequence of commands over
// the same snapshots always produces the same session, whether driven by
// live edits or by replaying history.
func (s *Session) Apply(cmd Command) error {
	switch c := cmd.(type) {
	case SetDimensions:
		return s.setDimensions(c.Seller, c.Buyer, c.PaymentType)
	case SetPaymentNumber:
		return s.setPaymentNumber(c.PaymentNumber)
	case SelectInvoice:
		return s.selectInvoice(c.InvoiceID)
	case DeselectInvoice:
		return s.deselectInvoice(c.InvoiceID)
	case SetReceivedAmount:
		return s.setReceivedAmount(c.InvoiceID, c.Amount)
	case SetAdjustedAmount:
		return s.setAdjustedAmount(c.InvoiceID, c.Amount)
	case SetAdvanceReceived:
		return s.setAdvanceReceived(c.Amount)
	case SetIncomeTaxAmount:
		return s.setIncomeTaxAmount(c.Amount)
	case SetIncomeTaxRate:
		return s.setIncomeTaxRate(c.Rate)
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
}
