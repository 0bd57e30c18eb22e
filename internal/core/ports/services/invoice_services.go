package services

import (
	"context"

	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/tradepay/payment_recon_app/internal/dto"
)

// InvoiceReaderSvc defines read operations for the invoice catalog
type InvoiceReaderSvc interface {
	// GetInvoiceByID retrieves a specific invoice by its ID.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListApprovedInvoices retrieves the catalog slice for a seller/buyer pair.
	ListApprovedInvoices(ctx context.Context, seller, buyer string) ([]domain.Invoice, error)
}

// InvoiceWriterSvc defines write operations for the invoice catalog
type InvoiceWriterSvc interface {
	// CreateInvoice registers a new approved invoice.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)
}

// InvoiceSvcFacade combines all invoice-related service interfaces
type InvoiceSvcFacade interface {
	InvoiceReaderSvc
	InvoiceWriterSvc
}
