package reconciliation

import (
	"errors"
	"fmt"

	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPaymentType     = errors.New("invalid payment type")
	ErrDimensionsNotSet       = errors.New("seller and buyer must be set before selecting invoices")
	ErrInvoiceAlreadySelected = errors.New("invoice is already selected in this session")
	ErrInvoiceNotSelected     = errors.New("invoice is not selected in this session")
	ErrNegativeAmount         = errors.New("amount must not be negative")
)

// State is the lifecycle phase of a reconciliation session.
type State string

const (
	StateEmpty     State = "EMPTY"     // no dimensions set
	StateBuilding  State = "BUILDING"  // seller and buyer set, nothing selected
	StatePopulated State = "POPULATED" // at least one invoice selected or auto-seeded
	StateDirty     State = "DIRTY"     // a field has been edited
)

// Session is the aggregate holding one in-progress payment draft. Every
// command is an atomic transition: all derived fields (per-allocation
// balances, remaining advance, remaining tax) are fully recomputed before
// the command returns, so a caller can never observe a half-updated draft.
//
// A Session is not safe for concurrent mutation; callers that share one
// across goroutines must serialize commands per session.
type Session struct {
	seller        string
	buyer         string
	paymentType   domain.PaymentType
	paymentNumber string

	incomeTaxAmount decimal.Decimal
	incomeTaxRate   decimal.Decimal
	advanceAmount   decimal.Decimal

	state State

	// Consistent, already-fetched snapshots. The session never does I/O.
	catalog []domain.Invoice
	history []domain.PriorPayment

	selected    map[string]struct{} // keys of selected allocations, see allocationKey
	allocations []domain.InvoiceAllocation

	totalAdvance     decimal.Decimal
	advanceRemaining decimal.Decimal
	remainingTax     decimal.Decimal
}

// NewSession creates an empty draft over the given catalog and history
// snapshots. Dimensions are set through the SetDimensions command.
func NewSession(catalog []domain.Invoice, history []domain.PriorPayment) *Session {
	return &Session{
		state:            StateEmpty,
		catalog:          catalog,
		history:          history,
		selected:         make(map[string]struct{}),
		incomeTaxAmount:  decimal.Zero,
		incomeTaxRate:    decimal.Zero,
		advanceAmount:    decimal.Zero,
		totalAdvance:     decimal.Zero,
		advanceRemaining: decimal.Zero,
		remainingTax:     decimal.Zero,
	}
}

// State returns the session's lifecycle phase.
func (s *Session) State() State {
	return s.state
}

// Seller returns the session's seller dimension.
func (s *Session) Seller() string { return s.seller }

// Buyer returns the session's buyer dimension.
func (s *Session) Buyer() string { return s.buyer }

// PaymentType returns the session's payment type dimension.
func (s *Session) PaymentType() domain.PaymentType { return s.paymentType }

// PaymentNumber returns the selected history payment number, if any.
func (s *Session) PaymentNumber() string { return s.paymentNumber }

// allocationKey is the selection identity of an allocation: the invoice id
// when the catalog resolved one, otherwise the logical invoice-number link.
func allocationKey(a domain.InvoiceAllocation) string {
	if a.InvoiceID != "" {
		return a.InvoiceID
	}
	return a.InvoiceNumber
}

func (s *Session) setDimensions(seller, buyer string, paymentType domain.PaymentType) error {
	if !paymentType.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentType, paymentType)
	}

	// Any dimension change invalidates the working set outright. Stale
	// allocations under a new pair are a correctness bug, so there is no
	// attempt to carry anything over even when only the type changed.
	s.seller = seller
	s.buyer = buyer
	s.paymentType = paymentType
	s.paymentNumber = ""
	s.selected = make(map[string]struct{})
	s.allocations = nil
	s.advanceAmount = decimal.Zero
	s.state = StateEmpty

	if s.seller != "" && s.buyer != "" {
		s.state = StateBuilding
		s.autoSeed()
	}
	s.recompute()
	return nil
}

func (s *Session) setPaymentNumber(paymentNumber string) error {
	if s.state == StateEmpty {
		return ErrDimensionsNotSet
	}
	// The payment number is a key input of the draft: changing it rebuilds
	// the working set so baselines are re-inherited from the right record.
	s.paymentNumber = paymentNumber
	s.selected = make(map[string]struct{})
	s.allocations = nil
	s.state = StateBuilding
	s.autoSeed()
	s.recompute()
	return nil
}

func (s *Session) selectInvoice(invoiceID string) error {
	if s.state == StateEmpty {
		return ErrDimensionsNotSet
	}

	alloc := s.newAllocation(invoiceID)
	key := allocationKey(alloc)
	if _, dup := s.selected[key]; dup {
		return fmt.Errorf("%w: %s", ErrInvoiceAlreadySelected, invoiceID)
	}

	s.selected[key] = struct{}{}
	s.allocations = append(s.allocations, alloc)
	if s.state == StateBuilding {
		s.state = StatePopulated
	}
	s.recompute()
	return nil
}

// newAllocation builds the working allocation for a selected invoice id.
// An id the catalog can't resolve is not fatal: whatever history knew about
// it is retained and the line is flagged stale; with no history either it
// becomes a zero-value line.
func (s *Session) newAllocation(invoiceID string) domain.InvoiceAllocation {
	var alloc domain.InvoiceAllocation

	if inv, ok := s.lookupInvoice(invoiceID); ok {
		alloc = domain.InvoiceAllocation{
			InvoiceID:     inv.InvoiceID,
			InvoiceNumber: inv.InvoiceNumber,
			Seller:        inv.Seller,
			Buyer:         inv.Buyer,
			TotalAmount:   inv.GrossValue,
		}
	} else if prior, ok := s.lookupHistoryAllocation(invoiceID); ok {
		alloc = domain.InvoiceAllocation{
			InvoiceID:     prior.InvoiceID,
			InvoiceNumber: prior.InvoiceNumber,
			Seller:        prior.Seller,
			Buyer:         prior.Buyer,
			TotalAmount:   prior.TotalAmount,
			Stale:         true,
		}
	} else {
		alloc = domain.InvoiceAllocation{InvoiceID: invoiceID, Stale: true}
	}

	alloc.ReceivedAmount = decimal.Zero
	alloc.AdjustedAmount = decimal.Zero
	alloc.Balance = decimal.Zero
	alloc.OriginalBalance = decimal.Zero
	alloc.InvoiceAdjusted = decimal.Zero

	// Inherit the balance baseline from history, when one exists. Only the
	// baseline is inherited; received and adjusted always start blank. An
	// invoice whose latest balance is exactly zero is settled and is
	// deliberately treated as fresh on a manual re-add.
	if baseline, ok := s.baselineFor(alloc.InvoiceNumber); ok && !baseline.IsZero() {
		alloc.OriginalBalance = baseline
		alloc.HasHistory = true
		alloc.InvoiceAdjusted = baseline.Abs()
	}

	return alloc
}

func (s *Session) deselectInvoice(invoiceID string) error {
	idx := s.findAllocation(invoiceID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrInvoiceNotSelected, invoiceID)
	}
	delete(s.selected, allocationKey(s.allocations[idx]))
	s.allocations = append(s.allocations[:idx], s.allocations[idx+1:]...)
	// Remaining allocations keep their balances; only the carry-forward
	// figure is re-derived.
	s.recompute()
	return nil
}

func (s *Session) setReceivedAmount(invoiceID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: receivedAmount %s", ErrNegativeAmount, amount)
	}
	idx := s.findAllocation(invoiceID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrInvoiceNotSelected, invoiceID)
	}
	alloc := &s.allocations[idx]
	alloc.ReceivedAmount = amount
	alloc.ReceivedEntered = true
	// Entering a received amount mirrors into the adjustment until the user
	// edits the adjusted field themselves. First write wins per field, not
	// per allocation: a later received edit still mirrors while adjusted is
	// untouched. This coupling is a business rule, not a convenience.
	if s.paymentType == domain.PaymentTypePayment && !alloc.AdjustedEntered {
		alloc.AdjustedAmount = amount
	}
	s.state = StateDirty
	s.recompute()
	return nil
}

func (s *Session) setAdjustedAmount(invoiceID string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: adjustedAmount %s", ErrNegativeAmount, amount)
	}
	idx := s.findAllocation(invoiceID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrInvoiceNotSelected, invoiceID)
	}
	alloc := &s.allocations[idx]
	alloc.AdjustedAmount = amount
	alloc.AdjustedEntered = true
	s.state = StateDirty
	s.recompute()
	return nil
}

// setAdvanceReceived records the draft's own advance figure. It is an input
// for ADVANCE drafts and does not feed any in-draft derivation; it only
// matters to future drafts once this one is approved.
func (s *Session) setAdvanceReceived(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: advanceReceived %s", ErrNegativeAmount, amount)
	}
	s.advanceAmount = amount
	if s.state == StatePopulated {
		s.state = StateDirty
	}
	s.recompute()
	return nil
}

func (s *Session) setIncomeTaxAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: incomeTaxAmount %s", ErrNegativeAmount, amount)
	}
	s.incomeTaxAmount = amount
	if s.state == StatePopulated {
		s.state = StateDirty
	}
	s.recompute()
	return nil
}

func (s *Session) setIncomeTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("%w: incomeTaxRate %s", ErrNegativeAmount, rate)
	}
	s.incomeTaxRate = rate
	if s.state == StatePopulated {
		s.state = StateDirty
	}
	s.recompute()
	return nil
}

// recompute re-derives every projected value from scratch. It runs at the
// end of every command so derived fields can never drift from their inputs.
func (s *Session) recompute() {
	s.totalAdvance = TotalAdvance(s.seller, s.buyer, s.history)

	for i := range s.allocations {
		a := &s.allocations[i]
		a.Balance = ComputeBalance(BalanceInput{
			PaymentType:     s.paymentType,
			GrossValue:      a.TotalAmount,
			Received:        a.ReceivedAmount,
			ReceivedEntered: a.ReceivedEntered,
			Adjusted:        a.AdjustedAmount,
			TotalAdvance:    s.totalAdvance,
			OriginalBalance: a.OriginalBalance,
			HasHistory:      a.HasHistory,
		})
	}

	switch s.paymentType {
	case domain.PaymentTypeAdvance, domain.PaymentTypePayment:
		s.advanceRemaining = RecomputeAdvance(s.totalAdvance, s.allocations)
	default:
		// Only meaningful for advance-bearing drafts; cleared otherwise.
		s.advanceRemaining = decimal.Zero
	}

	if s.paymentType == domain.PaymentTypeIncomeTax {
		s.remainingTax = s.computeRemainingTax()
	} else {
		s.remainingTax = decimal.Zero
	}
}

// computeRemainingTax supports both remaining-tax shapes: when any related
// invoice allocation is present the liability settles against the sum of
// received amounts, otherwise it is a plain comparison of the declared
// amount against the rate figure.
func (s *Session) computeRemainingTax() decimal.Decimal {
	if len(s.allocations) > 0 {
		sumReceived := decimal.Zero
		for _, a := range s.allocations {
			sumReceived = sumReceived.Add(a.ReceivedAmount)
		}
		return s.incomeTaxAmount.Sub(sumReceived).Abs()
	}
	return s.incomeTaxAmount.Sub(s.incomeTaxRate).Abs()
}

func (s *Session) lookupInvoice(invoiceID string) (domain.Invoice, bool) {
	for _, inv := range s.catalog {
		if inv.InvoiceID == invoiceID {
			return inv, true
		}
	}
	return domain.Invoice{}, false
}

// lookupHistoryAllocation finds the most recent prior allocation referencing
// the given invoice id, searching newest payments first.
func (s *Session) lookupHistoryAllocation(invoiceID string) (domain.InvoiceAllocation, bool) {
	var (
		found  domain.InvoiceAllocation
		ok     bool
		latest int64
	)
	for _, p := range s.history {
		for _, a := range p.Allocations {
			if a.InvoiceID != invoiceID || invoiceID == "" {
				continue
			}
			if !ok || p.CreationDate.Unix() > latest {
				found = a
				ok = true
				latest = p.CreationDate.Unix()
			}
		}
	}
	return found, ok
}

// findAllocation locates a selected allocation by invoice id, falling back
// to the invoice-number link for rows the catalog never resolved.
func (s *Session) findAllocation(invoiceID string) int {
	for i, a := range s.allocations {
		if a.InvoiceID == invoiceID {
			return i
		}
	}
	for i, a := range s.allocations {
		if a.InvoiceID == "" && a.InvoiceNumber == invoiceID {
			return i
		}
	}
	return -1
}
