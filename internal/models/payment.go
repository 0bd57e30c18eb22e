package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentType mirrors the domain payment kinds at the persistence layer.
type PaymentType string

const (
	Advance            PaymentType = "ADVANCE"
	PaymentTypePayment PaymentType = "PAYMENT"
	IncomeTax          PaymentType = "INCOME_TAX"
)

// PaymentStatus tracks the approval lifecycle of a payment.
type PaymentStatus string

const (
	Pending  PaymentStatus = "PENDING"
	Approved PaymentStatus = "APPROVED"
)

// Payment represents a persisted payment together with its header amounts.
// Allocation rows live in payment_allocations and are loaded alongside.
type Payment struct {
	PaymentID       string          `db:"payment_id"`
	PaymentNumber   string          `db:"payment_number"`
	PaymentType     PaymentType     `db:"payment_type"`
	Status          PaymentStatus   `db:"status"`
	Seller          string          `db:"seller"`
	Buyer           string          `db:"buyer"`
	AdvanceReceived decimal.Decimal `db:"advance_received"`
	IncomeTaxAmount decimal.Decimal `db:"income_tax_amount"`
	IncomeTaxRate   decimal.Decimal `db:"income_tax_rate"`
	CreationDate    time.Time       `db:"creation_date"`
	AuditFields
}

// PaymentAllocation is a single invoice line attached to a payment.
// InvoiceID is empty when the line only carries an invoice number reference.
type PaymentAllocation struct {
	AllocationID    string          `db:"allocation_id"`
	PaymentID       string          `db:"payment_id"`
	InvoiceID       string          `db:"invoice_id"`
	InvoiceNumber   string          `db:"invoice_number"`
	Seller          string          `db:"seller"`
	Buyer           string          `db:"buyer"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	ReceivedAmount  decimal.Decimal `db:"received_amount"`
	ReceivedEntered bool            `db:"received_entered"`
	AdjustedAmount  decimal.Decimal `db:"adjusted_amount"`
	AdjustedEntered bool            `db:"adjusted_entered"`
	Balance         decimal.Decimal `db:"balance"`
	AuditFields
}
