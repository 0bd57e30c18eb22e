package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents an approved invoice available for reconciliation.
type Invoice struct {
	InvoiceID     string          `db:"invoice_id"`
	InvoiceNumber string          `db:"invoice_number"`
	InvoiceDate   time.Time       `db:"invoice_date"`
	DueDate       time.Time       `db:"due_date"`
	Seller        string          `db:"seller"`
	Buyer         string          `db:"buyer"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	GrossValue    decimal.Decimal `db:"gross_value"`
	AuditFields
}
