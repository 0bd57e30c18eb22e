package dto

import (
	"time"

	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest defines the payload for registering an approved invoice.
type CreateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoiceNumber" binding:"required"`
	InvoiceDate   time.Time       `json:"invoiceDate" binding:"required"`
	DueDate       time.Time       `json:"dueDate" binding:"required"`
	Seller        string          `json:"seller" binding:"required"`
	Buyer         string          `json:"buyer" binding:"required"`
	TotalAmount   decimal.Decimal `json:"totalAmount" binding:"required,gte=0"`
	GrossValue    decimal.Decimal `json:"grossValue" binding:"required,gte=0"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID     string          `json:"invoiceID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	InvoiceDate   time.Time       `json:"invoiceDate"`
	DueDate       time.Time       `json:"dueDate"`
	Seller        string          `json:"seller"`
	Buyer         string          `json:"buyer"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	GrossValue    decimal.Decimal `json:"grossValue"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListInvoicesResponse wraps the catalog slice for a seller/buyer pair.
type ListInvoicesResponse struct {
	Invoices []InvoiceResponse `json:"invoices"`
}

// ToInvoiceResponse converts a domain.Invoice to InvoiceResponse DTO.
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		Seller:        inv.Seller,
		Buyer:         inv.Buyer,
		TotalAmount:   inv.TotalAmount,
		GrossValue:    inv.GrossValue,
		CreatedAt:     inv.CreatedAt,
	}
}

// ToListInvoicesResponse converts a slice of domain.Invoice to the list DTO.
func ToListInvoicesResponse(invoices []domain.Invoice) ListInvoicesResponse {
	out := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		out[i] = ToInvoiceResponse(&invoices[i])
	}
	return ListInvoicesResponse{Invoices: out}
}
