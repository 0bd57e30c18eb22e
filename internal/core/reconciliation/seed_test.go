package reconciliation_test

import (
	"testing"
	"time"

	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/tradepay/payment_recon_app/internal/core/reconciliation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoSeed_PopulatesFromLatestApprovedPayment(t *testing.T) {
	now := time.Now()
	history := []domain.PriorPayment{
		settlementPayment("PAY-001", now.Add(-48*time.Hour),
			priorAllocation("INV-001", 5000),
			priorAllocation("INV-002", 1500),
		),
		settlementPayment("PAY-002", now.Add(-24*time.Hour),
			priorAllocation("INV-001", 750),
			priorAllocation("INV-002", 0), // settled, must not reappear
		),
	}

	sess := reconciliation.NewSession(testCatalog(), history)
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypePayment,
	}))

	snap := sess.Snapshot()
	assert.Equal(t, reconciliation.StatePopulated, snap.State)
	require.Len(t, snap.Allocations, 1)

	alloc := snap.Allocations[0]
	assert.Equal(t, "INV-001", alloc.InvoiceNumber)
	assert.Equal(t, "inv-1", alloc.InvoiceID, "seeded row re-links to the catalog by number")
	assert.True(t, alloc.HasHistory)
	assert.True(t, dec(750).Equal(alloc.OriginalBalance))
	assert.True(t, dec(750).Equal(alloc.InvoiceAdjusted))
	// Only the baseline is inherited; the editable fields start blank.
	assert.False(t, alloc.ReceivedEntered)
	assert.False(t, alloc.AdjustedEntered)
	assert.True(t, alloc.ReceivedAmount.IsZero())
	assert.True(t, alloc.AdjustedAmount.IsZero())
	// Shown verbatim until a received amount is entered.
	assert.True(t, dec(750).Equal(alloc.Balance), "got %s", alloc.Balance)
}

func TestAutoSeed_InheritedBalanceSubtraction(t *testing.T) {
	history := []domain.PriorPayment{
		settlementPayment("PAY-001", time.Now(), priorAllocation("INV-001", 750)),
	}
	sess := reconciliation.NewSession(testCatalog(), history)
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypePayment,
	}))

	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-1", Amount: dec(300)}))
	snap := sess.Snapshot()
	require.Len(t, snap.Allocations, 1)
	assert.True(t, dec(450).Equal(snap.Allocations[0].Balance), "got %s", snap.Allocations[0].Balance)
}

func TestAutoSeed_OnlyForPaymentType(t *testing.T) {
	history := []domain.PriorPayment{
		settlementPayment("PAY-001", time.Now(), priorAllocation("INV-001", 750)),
	}

	for _, pt := range []domain.PaymentType{domain.PaymentTypeAdvance, domain.PaymentTypeIncomeTax} {
		sess := reconciliation.NewSession(testCatalog(), history)
		require.NoError(t, sess.Apply(reconciliation.SetDimensions{
			Seller: seller, Buyer: buyer, PaymentType: pt,
		}))
		assert.Empty(t, sess.Snapshot().Allocations, "no auto-seed for %s drafts", pt)
	}
}

func TestAutoSeed_PendingPaymentsIgnored(t *testing.T) {
	pending := settlementPayment("PAY-001", time.Now(), priorAllocation("INV-001", 750))
	pending.Status = domain.PaymentStatusPending

	sess := reconciliation.NewSession(testCatalog(), []domain.PriorPayment{pending})
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypePayment,
	}))
	assert.Empty(t, sess.Snapshot().Allocations)
}

func TestAutoSeed_UnmatchedCatalogRowKeepsNumberLinkAndStaleFlag(t *testing.T) {
	history := []domain.PriorPayment{
		settlementPayment("PAY-001", time.Now(), priorAllocation("INV-404", 900)),
	}
	sess := reconciliation.NewSession(testCatalog(), history)
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypePayment,
	}))

	snap := sess.Snapshot()
	require.Len(t, snap.Allocations, 1)
	assert.True(t, snap.Allocations[0].Stale)
	assert.Equal(t, "INV-404", snap.Allocations[0].InvoiceNumber)
	assert.Contains(t, snap.StaleRefs, "INV-404")
}

func TestManualAddOfSettledInvoiceIsFresh(t *testing.T) {
	history := []domain.PriorPayment{
		settlementPayment("PAY-001", time.Now(),
			priorAllocation("INV-001", 0), // settled
		),
	}
	sess := reconciliation.NewSession(testCatalog(), history)
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypePayment,
	}))
	require.Empty(t, sess.Snapshot().Allocations, "settled invoice must not auto-seed")

	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-1"}))
	require.NoError(t, sess.Apply(reconciliation.SetReceivedAmount{InvoiceID: "inv-1", Amount: dec(2000)}))

	alloc := sess.Snapshot().Allocations[0]
	assert.False(t, alloc.HasHistory, "manually re-added settled invoice is treated as fresh")
	assert.True(t, dec(3000).Equal(alloc.Balance), "fresh no-advance formula applies, got %s", alloc.Balance)
}

func TestExplicitPaymentNumberSeedsBaseline(t *testing.T) {
	now := time.Now()
	history := []domain.PriorPayment{
		settlementPayment("PAY-001", now.Add(-48*time.Hour), priorAllocation("INV-003", 600)),
		settlementPayment("PAY-002", now, priorAllocation("INV-003", 150)),
	}

	sess := reconciliation.NewSession(testCatalog(), history)
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypeIncomeTax,
	}))
	require.NoError(t, sess.Apply(reconciliation.SetPaymentNumber{PaymentNumber: "PAY-001"}))
	require.NoError(t, sess.Apply(reconciliation.SelectInvoice{InvoiceID: "inv-3"}))

	alloc := sess.Snapshot().Allocations[0]
	assert.True(t, alloc.HasHistory)
	assert.True(t, dec(600).Equal(alloc.OriginalBalance), "baseline comes from the named payment, got %s", alloc.OriginalBalance)
}

func TestSetPaymentNumberRebuildsWorkingSet(t *testing.T) {
	history := []domain.PriorPayment{
		settlementPayment("PAY-001", time.Now(), priorAllocation("INV-001", 750)),
	}
	sess := reconciliation.NewSession(testCatalog(), history)
	require.NoError(t, sess.Apply(reconciliation.SetDimensions{
		Seller: seller, Buyer: buyer, PaymentType: domain.PaymentTypePayment,
	}))
	require.NotEmpty(t, sess.Snapshot().Allocations, "auto-seed fills the set first")

	require.NoError(t, sess.Apply(reconciliation.SetPaymentNumber{PaymentNumber: "PAY-001"}))
	snap := sess.Snapshot()
	assert.Equal(t, "PAY-001", snap.PaymentNumber)
	assert.Empty(t, snap.Allocations, "explicit lookup starts a rebuilt working set")
}
