package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tradepay/payment_recon_app/internal/apperrors"
	"github.com/tradepay/payment_recon_app/internal/core/domain"
	portsrepo "github.com/tradepay/payment_recon_app/internal/core/ports/repositories"
	portssvc "github.com/tradepay/payment_recon_app/internal/core/ports/services"
	"github.com/tradepay/payment_recon_app/internal/middleware"
)

// ErrAlreadyApproved is returned when approving a payment twice.
var ErrAlreadyApproved = errors.New("payment is already approved")

type paymentService struct {
	paymentRepo portsrepo.PaymentRepositoryWithTx
}

// NewPaymentService creates the payment history service.
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryWithTx) portssvc.PaymentSvcFacade {
	return &paymentService{paymentRepo: paymentRepo}
}

// Ensure paymentService implements portssvc.PaymentSvcFacade
var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.PriorPayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ListPaymentsForPair(ctx context.Context, seller, buyer string) ([]domain.PriorPayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	payments, err := s.paymentRepo.ListPaymentsForPair(ctx, seller, buyer)
	if err != nil {
		logger.Error("Failed to list payments", slog.String("error", err.Error()), slog.String("seller", seller), slog.String("buyer", buyer))
		return nil, err
	}
	return payments, nil
}

func (s *paymentService) ApprovePayment(ctx context.Context, paymentID string, approverUserID string) (*domain.PriorPayment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == domain.PaymentStatusApproved {
		return nil, ErrAlreadyApproved
	}

	now := time.Now()
	if err := s.paymentRepo.UpdatePaymentStatus(ctx, paymentID, domain.PaymentStatusApproved, approverUserID, now); err != nil {
		logger.Error("Failed to approve payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, err
	}

	payment.Status = domain.PaymentStatusApproved
	payment.LastUpdatedAt = now
	payment.LastUpdatedBy = approverUserID

	logger.Info("Payment approved", slog.String("payment_id", paymentID), slog.String("approved_by", approverUserID))
	return payment, nil
}
