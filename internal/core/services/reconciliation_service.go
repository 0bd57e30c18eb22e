package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tradepay/payment_recon_app/internal/apperrors"
	"github.com/tradepay/payment_recon_app/internal/core/domain"
	portsrepo "github.com/tradepay/payment_recon_app/internal/core/ports/repositories"
	portssvc "github.com/tradepay/payment_recon_app/internal/core/ports/services"
	"github.com/tradepay/payment_recon_app/internal/core/reconciliation"
	"github.com/tradepay/payment_recon_app/internal/dto"
	"github.com/tradepay/payment_recon_app/internal/middleware"
)

var (
	// ErrSessionNotFound is returned for unknown or already-submitted sessions.
	ErrSessionNotFound = errors.New("reconciliation session not found")
	// ErrNothingToSubmit is returned when submitting a draft with no dimensions.
	ErrNothingToSubmit = errors.New("session has no dimensions set")
)

// sessionEntry pairs a draft with its own mutex. Commands against one
// session are serialized; different sessions proceed independently.
type sessionEntry struct {
	mu        sync.Mutex
	session   *reconciliation.Session
	creatorID string
	createdAt time.Time
}

type reconciliationService struct {
	invoiceRepo portsrepo.InvoiceReader
	paymentRepo portsrepo.PaymentRepositoryWithTx

	mu       sync.RWMutex
	sessions map[string]*sessionEntry
}

// NewReconciliationService creates the draft-session service. Drafts live
// in memory until submitted; only submission touches the database.
func NewReconciliationService(invoiceRepo portsrepo.InvoiceReader, paymentRepo portsrepo.PaymentRepositoryWithTx) portssvc.ReconciliationSvcFacade {
	return &reconciliationService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		sessions:    make(map[string]*sessionEntry),
	}
}

// Ensure reconciliationService implements portssvc.ReconciliationSvcFacade
var _ portssvc.ReconciliationSvcFacade = (*reconciliationService)(nil)

// loadSnapshots fetches the catalog and history for a pair. Both slices are
// fetched before the session sees either, so the draft always works over a
// mutually consistent view.
func (s *reconciliationService) loadSnapshots(ctx context.Context, seller, buyer string) ([]domain.Invoice, []domain.PriorPayment, error) {
	if seller == "" || buyer == "" {
		return nil, nil, nil
	}
	catalog, err := s.invoiceRepo.ListApprovedInvoices(ctx, seller, buyer)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load invoice catalog: %w", err)
	}
	history, err := s.paymentRepo.ListPaymentsForPair(ctx, seller, buyer)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load payment history: %w", err)
	}
	return catalog, history, nil
}

func (s *reconciliationService) CreateSession(ctx context.Context, req dto.CreateSessionRequest, creatorUserID string) (*dto.SessionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	catalog, history, err := s.loadSnapshots(ctx, req.Seller, req.Buyer)
	if err != nil {
		return nil, err
	}

	session := reconciliation.NewSession(catalog, history)
	if err := session.Apply(reconciliation.SetDimensions{
		Seller:      req.Seller,
		Buyer:       req.Buyer,
		PaymentType: domain.PaymentType(req.PaymentType),
	}); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	if req.PaymentNumber != "" {
		if err := session.Apply(reconciliation.SetPaymentNumber{PaymentNumber: req.PaymentNumber}); err != nil {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
	}

	sessionID := uuid.NewString()
	entry := &sessionEntry{
		session:   session,
		creatorID: creatorUserID,
		createdAt: time.Now(),
	}
	s.mu.Lock()
	s.sessions[sessionID] = entry
	s.mu.Unlock()

	logger.Info("Reconciliation session created",
		slog.String("session_id", sessionID),
		slog.String("payment_type", req.PaymentType),
		slog.String("created_by", creatorUserID))

	return &dto.SessionResponse{SessionID: sessionID, Snapshot: session.Snapshot()}, nil
}

func (s *reconciliationService) lookup(sessionID string) (*sessionEntry, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return entry, nil
}

// withSession runs fn while holding the session's own lock and returns the
// resulting projection.
func (s *reconciliationService) withSession(sessionID string, fn func(*reconciliation.Session) error) (*dto.SessionResponse, error) {
	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	if err := fn(entry.session); err != nil {
		return nil, err
	}
	return &dto.SessionResponse{SessionID: sessionID, Snapshot: entry.session.Snapshot()}, nil
}

func (s *reconciliationService) GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error) {
	return s.withSession(sessionID, func(*reconciliation.Session) error { return nil })
}

func (s *reconciliationService) SetDimensions(ctx context.Context, sessionID string, req dto.UpdateDimensionsRequest) (*dto.SessionResponse, error) {
	catalog, history, err := s.loadSnapshots(ctx, req.Seller, req.Buyer)
	if err != nil {
		return nil, err
	}
	return s.withSession(sessionID, func(session *reconciliation.Session) error {
		// A dimension change discards the whole working set, so the draft
		// is rebuilt over the freshly fetched pair snapshots.
		fresh := reconciliation.NewSession(catalog, history)
		if err := fresh.Apply(reconciliation.SetDimensions{
			Seller:      req.Seller,
			Buyer:       req.Buyer,
			PaymentType: domain.PaymentType(req.PaymentType),
		}); err != nil {
			return apperrors.NewBadRequestError(err.Error())
		}
		*session = *fresh
		return nil
	})
}

func (s *reconciliationService) SetPaymentNumber(ctx context.Context, sessionID string, req dto.SetPaymentNumberRequest) (*dto.SessionResponse, error) {
	return s.applyCommand(sessionID, reconciliation.SetPaymentNumber{PaymentNumber: req.PaymentNumber})
}

func (s *reconciliationService) SelectInvoice(ctx context.Context, sessionID string, invoiceID string) (*dto.SessionResponse, error) {
	return s.applyCommand(sessionID, reconciliation.SelectInvoice{InvoiceID: invoiceID})
}

func (s *reconciliationService) DeselectInvoice(ctx context.Context, sessionID string, invoiceID string) (*dto.SessionResponse, error) {
	return s.applyCommand(sessionID, reconciliation.DeselectInvoice{InvoiceID: invoiceID})
}

func (s *reconciliationService) UpdateAllocation(ctx context.Context, sessionID string, invoiceID string, req dto.UpdateAllocationRequest) (*dto.SessionResponse, error) {
	return s.withSession(sessionID, func(session *reconciliation.Session) error {
		if req.ReceivedAmount != nil {
			if err := session.Apply(reconciliation.SetReceivedAmount{InvoiceID: invoiceID, Amount: *req.ReceivedAmount}); err != nil {
				return toCommandError(err)
			}
		}
		if req.AdjustedAmount != nil {
			if err := session.Apply(reconciliation.SetAdjustedAmount{InvoiceID: invoiceID, Amount: *req.AdjustedAmount}); err != nil {
				return toCommandError(err)
			}
		}
		return nil
	})
}

func (s *reconciliationService) UpdateAdvance(ctx context.Context, sessionID string, req dto.UpdateAdvanceRequest) (*dto.SessionResponse, error) {
	return s.applyCommand(sessionID, reconciliation.SetAdvanceReceived{Amount: req.AdvanceReceived})
}

func (s *reconciliationService) UpdateIncomeTax(ctx context.Context, sessionID string, req dto.UpdateIncomeTaxRequest) (*dto.SessionResponse, error) {
	return s.withSession(sessionID, func(session *reconciliation.Session) error {
		if req.IncomeTaxAmount != nil {
			if err := session.Apply(reconciliation.SetIncomeTaxAmount{Amount: *req.IncomeTaxAmount}); err != nil {
				return toCommandError(err)
			}
		}
		if req.IncomeTaxRate != nil {
			if err := session.Apply(reconciliation.SetIncomeTaxRate{Rate: *req.IncomeTaxRate}); err != nil {
				return toCommandError(err)
			}
		}
		return nil
	})
}

func (s *reconciliationService) applyCommand(sessionID string, cmd reconciliation.Command) (*dto.SessionResponse, error) {
	return s.withSession(sessionID, func(session *reconciliation.Session) error {
		if err := session.Apply(cmd); err != nil {
			return toCommandError(err)
		}
		return nil
	})
}

// toCommandError maps engine errors onto transport-facing error codes.
func toCommandError(err error) error {
	switch {
	case errors.Is(err, reconciliation.ErrInvoiceNotSelected):
		return apperrors.NewAppError(404, err.Error(), err)
	case errors.Is(err, reconciliation.ErrInvalidPaymentType),
		errors.Is(err, reconciliation.ErrDimensionsNotSet),
		errors.Is(err, reconciliation.ErrInvoiceAlreadySelected),
		errors.Is(err, reconciliation.ErrNegativeAmount):
		return apperrors.NewBadRequestError(err.Error())
	default:
		return err
	}
}

// SubmitSession finalizes the draft into a pending payment. The session is
// removed only after the payment is durably persisted, so a failed submit
// leaves the draft editable.
func (s *reconciliationService) SubmitSession(ctx context.Context, sessionID string, submitterUserID string) (*dto.SubmitSessionResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()

	snap := entry.session.Snapshot()
	if snap.State == reconciliation.StateEmpty {
		return nil, ErrNothingToSubmit
	}

	now := time.Now()
	payment := domain.PriorPayment{
		PaymentID:       uuid.NewString(),
		PaymentNumber:   snap.PaymentNumber,
		PaymentType:     snap.PaymentType,
		Status:          domain.PaymentStatusPending,
		Seller:          snap.Seller,
		Buyer:           snap.Buyer,
		AdvanceReceived: snap.AdvanceAmount,
		IncomeTaxAmount: snap.IncomeTaxAmount,
		IncomeTaxRate:   snap.IncomeTaxRate,
		Allocations:     snap.Allocations,
		CreationDate:    now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     submitterUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: submitterUserID,
		},
	}
	if payment.PaymentNumber == "" {
		payment.PaymentNumber = newPaymentNumber()
	}
	if payment.PaymentType != domain.PaymentTypeAdvance {
		payment.AdvanceReceived = decimal.Zero
	}

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		logger.Error("Failed to persist submitted payment", slog.String("error", err.Error()), slog.String("session_id", sessionID))
		return nil, err
	}

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	logger.Info("Reconciliation session submitted",
		slog.String("session_id", sessionID),
		slog.String("payment_id", payment.PaymentID),
		slog.String("payment_number", payment.PaymentNumber))

	return &dto.SubmitSessionResponse{PaymentID: payment.PaymentID, PaymentNumber: payment.PaymentNumber}, nil
}

// newPaymentNumber generates a business identifier for payments submitted
// without an explicit number.
func newPaymentNumber() string {
	return "PAY-" + strings.ToUpper(uuid.NewString()[:8])
}
