package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tradepay/payment_recon_app/internal/core/domain"
	portsrepo "github.com/tradepay/payment_recon_app/internal/core/ports/repositories"
	portssvc "github.com/tradepay/payment_recon_app/internal/core/ports/services"
	"github.com/tradepay/payment_recon_app/internal/dto"
	"github.com/tradepay/payment_recon_app/internal/middleware"
)

type invoiceService struct {
	invoiceRepo portsrepo.InvoiceRepositoryFacade
}

// NewInvoiceService creates the invoice catalog service.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade) portssvc.InvoiceSvcFacade {
	return &invoiceService{invoiceRepo: invoiceRepo}
}

// Ensure invoiceService implements portssvc.InvoiceSvcFacade
var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now()
	invoice := domain.Invoice{
		InvoiceID:     uuid.NewString(),
		InvoiceNumber: req.InvoiceNumber,
		InvoiceDate:   req.InvoiceDate,
		DueDate:       req.DueDate,
		Seller:        req.Seller,
		Buyer:         req.Buyer,
		TotalAmount:   req.TotalAmount,
		GrossValue:    req.GrossValue,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice); err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()), slog.String("invoice_number", req.InvoiceNumber))
		return nil, err
	}

	logger.Info("Invoice created", slog.String("invoice_id", invoice.InvoiceID), slog.String("invoice_number", invoice.InvoiceNumber))
	return &invoice, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	return s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
}

func (s *invoiceService) ListApprovedInvoices(ctx context.Context, seller, buyer string) ([]domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	invoices, err := s.invoiceRepo.ListApprovedInvoices(ctx, seller, buyer)
	if err != nil {
		logger.Error("Failed to list invoices", slog.String("error", err.Error()), slog.String("seller", seller), slog.String("buyer", buyer))
		return nil, err
	}
	return invoices, nil
}
