package repositories

import (
	"context"
	"time"

	"github.com/tradepay/payment_recon_app/internal/core/domain"
)

// PaymentReader defines read operations for payment history data
type PaymentReader interface {
	// FindPaymentByID retrieves a payment with its allocations.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.PriorPayment, error)

	// FindPaymentByNumber retrieves a payment with its allocations by its
	// business payment number.
	FindPaymentByNumber(ctx context.Context, paymentNumber string) (*domain.PriorPayment, error)

	// ListPaymentsForPair retrieves all payments for a seller/buyer pair with
	// their allocations, newest first. This is the history snapshot the
	// engine consumes.
	ListPaymentsForPair(ctx context.Context, seller, buyer string) ([]domain.PriorPayment, error)
}

// PaymentWriter defines write operations for payment data
type PaymentWriter interface {
	// SavePayment persists a payment and its allocations atomically.
	SavePayment(ctx context.Context, payment domain.PriorPayment) error

	// UpdatePaymentStatus moves a payment between approval states.
	UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, updatedByUserID string, updatedAt time.Time) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}

// PaymentRepositoryWithTx extends PaymentRepositoryFacade with transaction capabilities
type PaymentRepositoryWithTx interface {
	PaymentRepositoryFacade
	TransactionManager
}
