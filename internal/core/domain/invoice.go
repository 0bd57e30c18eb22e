package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is an approved trade invoice from the catalog. The reconciliation
// engine treats it as read-only input; invoices are created and approved
// upstream of any payment draft.
type Invoice struct {
	InvoiceID     string          `json:"invoiceID"`     // Primary Key (UUID)
	InvoiceNumber string          `json:"invoiceNumber"` // Business identifier, unique per seller/buyer pair
	InvoiceDate   time.Time       `json:"invoiceDate"`
	DueDate       time.Time       `json:"dueDate"`
	Seller        string          `json:"seller"` // Resolved display name, not an internal id
	Buyer         string          `json:"buyer"`  // Resolved display name, not an internal id
	TotalAmount   decimal.Decimal `json:"totalAmount"` // Gross invoice value
	GrossValue    decimal.Decimal `json:"grossValue"`  // GST-inclusive value used for balance math
	AuditFields
}
