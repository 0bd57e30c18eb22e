package services

import (
	"context"

	"github.com/tradepay/payment_recon_app/internal/dto"
)

// ReconciliationSvcFacade manages in-flight payment drafts. Each session is
// a single-writer aggregate: the implementation serializes commands per
// session id so the carry-forward figure always reflects all allocations
// atomically.
type ReconciliationSvcFacade interface {
	// CreateSession opens a new draft, loading catalog and history
	// snapshots for the given pair.
	CreateSession(ctx context.Context, req dto.CreateSessionRequest, creatorUserID string) (*dto.SessionResponse, error)

	// GetSession returns the draft's current projection.
	GetSession(ctx context.Context, sessionID string) (*dto.SessionResponse, error)

	// SetDimensions changes seller/buyer/type, reloading snapshots and
	// discarding the working set.
	SetDimensions(ctx context.Context, sessionID string, req dto.UpdateDimensionsRequest) (*dto.SessionResponse, error)

	// SetPaymentNumber selects a history payment for baseline lookup.
	SetPaymentNumber(ctx context.Context, sessionID string, req dto.SetPaymentNumberRequest) (*dto.SessionResponse, error)

	// SelectInvoice adds an invoice to the draft's working set.
	SelectInvoice(ctx context.Context, sessionID string, invoiceID string) (*dto.SessionResponse, error)

	// DeselectInvoice removes an invoice from the working set.
	DeselectInvoice(ctx context.Context, sessionID string, invoiceID string) (*dto.SessionResponse, error)

	// UpdateAllocation edits the received/adjusted amounts of one allocation.
	UpdateAllocation(ctx context.Context, sessionID string, invoiceID string, req dto.UpdateAllocationRequest) (*dto.SessionResponse, error)

	// UpdateAdvance edits the advance figure of an ADVANCE draft.
	UpdateAdvance(ctx context.Context, sessionID string, req dto.UpdateAdvanceRequest) (*dto.SessionResponse, error)

	// UpdateIncomeTax edits the draft-level income-tax figures.
	UpdateIncomeTax(ctx context.Context, sessionID string, req dto.UpdateIncomeTaxRequest) (*dto.SessionResponse, error)

	// SubmitSession finalizes the draft into a pending payment, persists it
	// with its allocations, and discards the session.
	SubmitSession(ctx context.Context, sessionID string, submitterUserID string) (*dto.SubmitSessionResponse, error)
}
