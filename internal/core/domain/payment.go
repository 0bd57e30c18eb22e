package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType distinguishes how a payment settles against invoices.
type PaymentType string

const (
	// PaymentTypeAdvance represents funds received ahead of invoice-specific allocation.
	PaymentTypeAdvance PaymentType = "ADVANCE"
	// PaymentTypePayment represents a regular payment applied against invoices.
	PaymentTypePayment PaymentType = "PAYMENT"
	// PaymentTypeIncomeTax settles a declared tax liability against invoices
	// through an adjustment figure rather than a literal received amount.
	PaymentTypeIncomeTax PaymentType = "INCOME_TAX"
)

// IsValid reports whether t is one of the known payment types.
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeAdvance, PaymentTypePayment, PaymentTypeIncomeTax:
		return true
	}
	return false
}

// PaymentStatus indicates the approval state of a payment.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusApproved PaymentStatus = "APPROVED"
)

// PriorPayment is a previously drafted payment from history, with its
// per-invoice allocations. The engine only ever reads these.
type PriorPayment struct {
	PaymentID       string              `json:"paymentID"`     // Primary Key (UUID)
	PaymentNumber   string              `json:"paymentNumber"` // Business identifier
	PaymentType     PaymentType         `json:"paymentType"`
	Status          PaymentStatus       `json:"status"`
	Seller          string              `json:"seller"`
	Buyer           string              `json:"buyer"`
	AdvanceReceived decimal.Decimal     `json:"advanceReceived"` // Raw advance amount; meaningful for ADVANCE type
	IncomeTaxAmount decimal.Decimal     `json:"incomeTaxAmount"`
	IncomeTaxRate   decimal.Decimal     `json:"incomeTaxRate"`
	Allocations     []InvoiceAllocation `json:"allocations"`
	CreationDate    time.Time           `json:"creationDate"`
	AuditFields
}

// InvoiceAllocation applies one payment's funds or adjustment against one
// invoice. It is the unit of work the reconciliation session mutates; in a
// PriorPayment it is the persisted, finalized form of that work.
//
// ReceivedEntered and AdjustedEntered distinguish a blank field from an
// explicit zero. A blank field is a valid state and is not the same as zero:
// the calculator shows an inherited balance verbatim until the user actually
// types a received amount, and the received→adjusted defaulting stops the
// moment the user edits the adjusted field themselves.
type InvoiceAllocation struct {
	InvoiceID       string          `json:"invoiceID"` // Empty when linked only by invoice number
	InvoiceNumber   string          `json:"invoiceNumber"`
	Seller          string          `json:"seller"`
	Buyer           string          `json:"buyer"`
	TotalAmount     decimal.Decimal `json:"totalAmount"` // GST-inclusive settlement target
	ReceivedAmount  decimal.Decimal `json:"receivedAmount"`
	ReceivedEntered bool            `json:"receivedEntered"`
	AdjustedAmount  decimal.Decimal `json:"adjustedAmount"`
	AdjustedEntered bool            `json:"adjustedEntered"`
	Balance         decimal.Decimal `json:"balance"`         // Derived, never user-entered
	OriginalBalance decimal.Decimal `json:"originalBalance"` // Baseline inherited from a prior payment's allocation
	HasHistory      bool            `json:"hasHistory"`      // True when OriginalBalance was inherited
	InvoiceAdjusted decimal.Decimal `json:"invoiceAdjusted"` // Display baseline, absolute value of the inherited balance
	Stale           bool            `json:"stale"`           // Invoice reference unresolved in the current catalog snapshot
}
