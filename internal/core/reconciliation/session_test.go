package reconciliation_test

import (
	"testing"
	"time"

	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/tradepay/payment_recon_app/internal/core/reconciliation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	seller = "Acme Traders"
	buyer  = "Globex"
)

func invoice(id, number string, gross int64) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     id,
		InvoiceNumber: number,
		Seller:        seller,
		Buyer:         buyer,
		TotalAmount:   dec(gross),
		GrossValue:    dec(gross),
	}
}

func testCatalog() []domain.Invoice {
	return []domain.Invoice{
		invoice("inv-1", "INV-001", 5000),
		invoice("inv-2", "INV-002", 1500),
		invoice("inv-3", "INV-003", 1000),
	}
}

func newPaymentSession(t *testing.T, catalog []domain.Invoice, history []domain.PriorPayment) *reconciliation.Session {
	t.Helper()
	sess := reconciliation.NewSession(catalog, history)
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller:      seller,
		Buyer:       buyer,
		PaymentType: domain.PaymentTypePayment,
	}))
	return sess
}

func TestSession_StateMachine(t *testing.T) {
	sess := reconciliation.NewSession(testCatalog(), nil)
	assert.Equal(t, reconciliation.StateEmpty, sess.State())

	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypePayment,
	}))
	assert.Equal(t, reconciliation.StateBuilding, sess.State())

	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-1"}))
	assert.Equal(t, reconciliation.StatePopulated, sess.State())

	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-1", Amount: dec(100)}))
	assert.Equal(t, reconciliation.StateDirty, sess.State())
}

func TestSession_SelectBeforeDimensionsFails(t *testing.T) {
	sess := reconciliation.NewSession(testCatalog(), nil)
	err := sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-1"})
	assert.ErrorIs(t, err, reconciliation.ErrDimensionsNotSet)
}

func TestSession_DimensionChangeResetsEverything(t *testing.T) {
	sess := newPaymentSession(t, testCatalog(), nil)
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-1"}))
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-2"}))
	require.Len(t, sess.SelectedInvoiceIDs(), 2)

	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: "Initech", PaymentType: domain.PaymentTypePayment,
	}))

	snap := sess.Snapshot()
	assert.Empty(t, sess.SelectedInvoiceIDs())
	assert.Empty(t, snap.Allocations)
	assert.Equal(t, "Initech", snap.Buyer)
}

func TestSession_PaymentNoAdvanceNoHistory(t *testing.T) {
	sess := newPaymentSession(t, testCatalog(), nil)
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-1"}))
	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-1", Amount: dec(2000)}))

	snap := sess.Snapshot()
	require.Len(t, snap.Allocations, 1)
	assert.True(t, dec(3000).Equal(snap.Allocations[0].Balance), "got %s", snap.Allocations[0].Balance)
}

func TestSession_ReceivedDefaultsAdjusted_FirstWriteWins(t *testing.T) {
	sess := newPaymentSession(t, testCatalog(), nil)
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-2"}))

	// Entering received mirrors into adjusted while adjusted is untouched.
	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-2", Amount: dec(400)}))
	alloc := sess.Snapshot().Allocations[0]
	assert.True(t, dec(400).Equal(alloc.AdjustedAmount), "got %s", alloc.AdjustedAmount)
	assert.False(t, alloc.AdjustedEntered)

	// A second received edit still mirrors: first write wins per field,
	// not per allocation.
	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-2", Amount: dec(450)}))
	alloc = sess.Snapshot().Allocations[0]
	assert.True(t, dec(450).Equal(alloc.AdjustedAmount), "got %s", alloc.AdjustedAmount)

	// Once the user edits adjusted directly, received edits stop mirroring.
	require.NoError(t, sess.Apply(reconciliation.SetAdjustedAmount{InvoiceID: "inv-2", Amount: dec(100)}))
	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-2", Amount: dec(900)}))
	alloc = sess.Snapshot().Allocations[0]
	assert.True(t, dec(100).Equal(alloc.AdjustedAmount), "got %s", alloc.AdjustedAmount)
	assert.True(t, alloc.AdjustedEntered)
}

func TestSession_CarryForwardTracksAdjustments(t *testing.T) {
	history := []domain.PriorPayment{
		advancePayment(seller, buyer, 1000, domain.PaymentStatusApproved),
	}
	sess := newPaymentSession(t, testCatalog(), history)
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-2"}))

	assert.True(t, dec(1000).Equal(sess.Snapshot().AdvanceReceived))

	require.NoError(t, sess.Apply(reconciliation.SetAdjustedAmount{InvoiceID: "inv-2", Amount: dec(200)}))
	snap := sess.Snapshot()
	assert.True(t, dec(800).Equal(snap.AdvanceReceived), "got %s", snap.AdvanceReceived)
	// Fresh invoice with advance outstanding: |1000 + 200 - 1500| = 300.
	assert.True(t, dec(300).Equal(snap.Allocations[0].Balance), "got %s", snap.Allocations[0].Balance)

	// Adjustments beyond the pool clamp the carry-forward at zero.
	require.NoError(t, sess.Apply(reconciliation.SetAdjustedAmount{InvoiceID: "inv-2", Amount: dec(1400)}))
	assert.True(t, sess.Snapshot().AdvanceReceived.IsZero())
}

func TestSession_AdvanceClearedForIncomeTax(t *testing.T) {
	history := []domain.PriorPayment{
		advancePayment(seller, buyer, 1000, domain.PaymentStatusApproved),
	}
	sess := reconciliation.NewSession(testCatalog(), history)
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypeIncomeTax,
	}))
	assert.True(t, sess.Snapshot().AdvanceReceived.IsZero())
}

func TestSession_RemainingTaxAlternates(t *testing.T) {
	sess := reconciliation.NewSession(testCatalog(), nil)
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypeIncomeTax,
	}))
	require.NoError(t, sess.Apply(reconciliation.SetIncomeTaxAmount{Amount: dec(500)}))
	require.NoError(t, sess.Apply(reconciliation.SetIncomeTaxRate{Rate: dec(120)}))

	// No related invoices: plain amount-vs-rate comparison.
	assert.True(t, dec(380).Equal(sess.Snapshot().RemainingTax), "got %s", sess.Snapshot().RemainingTax)

	// With allocations present, the invoice-sum formula takes precedence.
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-3"}))
	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-3", Amount: dec(200)}))
	snap := sess.Snapshot()
	assert.True(t, dec(300).Equal(snap.RemainingTax), "got %s", snap.RemainingTax)
}

func TestSession_IncomeTaxBalance(t *testing.T) {
	sess := reconciliation.NewSession(testCatalog(), nil)
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypeIncomeTax,
	}))
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-3"}))
	require.NoError(t, sess.Apply(reconciliation.SetAdjustedAmount{InvoiceID: "inv-3", Amount: dec(400)}))

	snap := sess.Snapshot()
	assert.True(t, dec(600).Equal(snap.Allocations[0].Balance), "got %s", snap.Allocations[0].Balance)
}

func TestSession_DeselectLeavesOthersAlone(t *testing.T) {
	sess := newPaymentSession(t, testCatalog(), nil)
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-1"}))
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-2"}))
	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-1", Amount: dec(2000)}))

	require.NoError(t, sess.Apply(reconciliation.DeselectInvoice{InvoiceID: "inv-2"}))

	snap := sess.Snapshot()
	require.Len(t, snap.Allocations, 1)
	assert.Equal(t, "inv-1", snap.Allocations[0].InvoiceID)
	assert.True(t, dec(3000).Equal(snap.Allocations[0].Balance))

	err := sess.Apply(reconciliation.DeselectInvoice{InvoiceID: "inv-2"})
	assert.ErrorIs(t, err, reconciliation.ErrInvoiceNotSelected)
}

func TestSession_DuplicateSelectRejected(t *testing.T) {
	sess := newPaymentSession(t, testCatalog(), nil)
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-1"}))
	err := sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-1"})
	assert.ErrorIs(t, err, reconciliation.ErrInvoiceAlreadySelected)
}

func TestSession_NegativeAmountsRejected(t *testing.T) {
	sess := newPaymentSession(t, testCatalog(), nil)
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-1"}))

	assert.ErrorIs(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-1", Amount: dec(-1)}), reconciliation.ErrNegativeAmount)
	assert.ErrorIs(t, sess.Apply(reconciliation.SetAdjustedAmount{InvoiceID: "inv-1", Amount: dec(-1)}), reconciliation.ErrNegativeAmount)
	assert.ErrorIs(t, sess.Apply(reconciliation.SetIncomeTaxAmount{Amount: dec(-1)}), reconciliation.ErrNegativeAmount)
}

func TestSession_UnresolvableInvoiceBecomesStaleZeroLine(t *testing.T) {
	sess := newPaymentSession(t, testCatalog(), nil)
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "ghost-99"}))

	snap := sess.Snapshot()
	require.Len(t, snap.Allocations, 1)
	alloc := snap.Allocations[0]
	assert.True(t, alloc.Stale)
	assert.True(t, alloc.TotalAmount.IsZero())
	assert.True(t, alloc.Balance.IsZero())
	assert.Contains(t, snap.StaleRefs, "ghost-99")
}

func TestSession_SnapshotNonNegativity(t *testing.T) {
	// Drive a session through a messy edit sequence; every reported figure
	// must still be non-negative.
	history := []domain.PriorPayment{
		advancePayment(seller, buyer, 300, domain.PaymentStatusApproved),
	}
	sess := newPaymentSession(t, testCatalog(), history)
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-1"}))
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-2"}))
	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-1", Amount: dec(9000)}))
	require.NoError(t, sess.Apply(reconciliation.SetAdjustedAmount{InvoiceID: "inv-2", Amount: dec(5000)}))

	snap := sess.Snapshot()
	assert.False(t, snap.AdvanceReceived.IsNegative())
	assert.False(t, snap.RemainingTax.IsNegative())
	for _, a := range snap.Allocations {
		assert.False(t, a.Balance.IsNegative(), "balance for %s is negative", a.InvoiceNumber)
	}
}

func TestSession_SnapshotTotals(t *testing.T) {
	sess := newPaymentSession(t, testCatalog(), nil)
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-1"}))
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-2"}))
	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-1", Amount: dec(2000)}))
	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-2", Amount: dec(500)}))

	snap := sess.Snapshot()
	assert.True(t, dec(2500).Equal(snap.Totals.Received))
	assert.True(t, dec(6500).Equal(snap.Totals.Gross))
	assert.True(t, dec(4000).Equal(snap.Totals.Balance)) // 3000 + 1000
	assert.True(t, dec(2500).Equal(snap.Totals.Adjusted))
}

func TestSession_ReplayProducesIdenticalSession(t *testing.T) {
	history := []domain.PriorPayment{
		advancePayment(seller, buyer, 1000, domain.PaymentStatusApproved),
	}
	commands := []reconciliation.Command{
		reconciliation.SetDimensions{Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypePayment},
		reconciliation.SelectInvoice{InvoiceID: "inv-1"},
		reconciliation.SelectInvoice{InvoiceID: "inv-2"},
		reconciliation.SetReceivedAmount{InvoiceID: "inv-1", Amount: dec(2000)},
		reconciliation.SetAdjustedAmount{InvoiceID: "inv-2", Amount: dec(300)},
		reconciliation.DeselectInvoice{InvoiceID: "inv-1"},
	}

	run := func() reconciliation.Snapshot {
		sess := reconciliation.NewSession(testCatalog(), history)
		for _, cmd := range commands {
			require.NoError(t, sess.Apply(cmd))
		}
		return sess.Snapshot()
	}

	assert.Equal(t, run(), run())
}

func TestSession_AdvanceAmountEntry(t *testing.T) {
	sess := reconciliation.NewSession(testCatalog(), nil)
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypeAdvance,
	}))

	require.NoError(t, sess.Apply(reconciliation.SetAdvanceReceived{Amount: dec(750)}))
	assert.True(t, dec(750).Equal(sess.Snapshot().AdvanceAmount))

	assert.ErrorIs(t, sess.Apply(reconciliation.SetAdvanceReceived{Amount: dec(-1)}), reconciliation.ErrNegativeAmount)

	// A dimension change discards the entered amount with the rest of the draft.
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: "Initech", PaymentType: domain.PaymentTypeAdvance,
	}))
	assert.True(t, sess.Snapshot().AdvanceAmount.IsZero())
}

func TestSession_InvalidPaymentTypeRejected(t *testing.T) {
	sess := reconciliation.NewSession(testCatalog(), nil)
	err := sess.Apply(reconciliation.SetDimensions{Seller: seller, Buyer: buyer, PaymentType: "BOGUS"})
	assert.ErrorIs(t, err, reconciliation.ErrInvalidPaymentType)
}

func settlementPayment(number string, created time.Time, allocs ...domain.InvoiceAllocation) domain.PriorPayment {
	return domain.PriorPayment{
		PaymentNumber: number,
		PaymentType:   domain.PaymentTypePayment,
		Status:        domain.PaymentStatusApproved,
		Seller:        seller,
		Buyer:         buyer,
		Allocations:   allocs,
		CreationDate:  created,
	}
}

func priorAllocation(invoiceNumber string, balance int64) domain.InvoiceAllocation {
	return domain.InvoiceAllocation{
		InvoiceNumber: invoiceNumber,
		Seller:        seller,
		Buyer:         buyer,
		TotalAmount:   dec(balance),
		Balance:       dec(balance),
	}
}
