package repositories

import (
	"context"

	"github.com/tradepay/payment_recon_app/internal/core/domain"
)

// InvoiceReader defines read operations for invoice catalog data
type InvoiceReader interface {
	// FindInvoiceByID retrieves a specific invoice by its unique identifier.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListApprovedInvoices retrieves the approved invoices for a seller/buyer pair,
	// ordered by invoice date. This is the catalog snapshot the engine consumes.
	ListApprovedInvoices(ctx context.Context, seller, buyer string) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice catalog data
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
}

// InvoiceRepositoryFacade combines all invoice-related repository interfaces
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
