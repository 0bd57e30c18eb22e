package services

import (
	"context"

	"github.com/tradepay/payment_recon_app/internal/core/domain"
)

// PaymentReaderSvc defines read operations for payment history
type PaymentReaderSvc interface {
	// GetPaymentByID retrieves a payment and its allocations.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.PriorPayment, error)

	// ListPaymentsForPair retrieves the payment history for a seller/buyer pair.
	ListPaymentsForPair(ctx context.Context, seller, buyer string) ([]domain.PriorPayment, error)
}

// PaymentWriterSvc defines write operations for payments
type PaymentWriterSvc interface {
	// ApprovePayment moves a pending payment to approved. Only approved
	// advances feed the advance accumulator of future drafts.
	ApprovePayment(ctx context.Context, paymentID string, approverUserID string) (*domain.PriorPayment, error)
}

// PaymentSvcFacade combines all payment-related service interfaces
type PaymentSvcFacade interface {
	PaymentReaderSvc
	PaymentWriterSvc
}
