package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/tradepay/payment_recon_app/internal/core/domain"
	portssvc "github.com/tradepay/payment_recon_app/internal/core/ports/services"
	"github.com/tradepay/payment_recon_app/internal/core/reconciliation"
	"github.com/tradepay/payment_recon_app/internal/core/services"
	"github.com/tradepay/payment_recon_app/internal/dto"
)

// --- Mock InvoiceReader ---
type MockInvoiceReader struct {
	mock.Mock
}

func (m *MockInvoiceReader) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	var inv *domain.Invoice
	if args.Get(0) != nil {
		inv = args.Get(0).(*domain.Invoice)
	}
	return inv, args.Error(1)
}

func (m *MockInvoiceReader) ListApprovedInvoices(ctx context.Context, seller, buyer string) ([]domain.Invoice, error) {
	args := m.Called(ctx, seller, buyer)
	var invoices []domain.Invoice
	if args.Get(0) != nil {
		invoices = args.Get(0).([]domain.Invoice)
	}
	return invoices, args.Error(1)
}

// --- Test Suite ---
type ReconciliationServiceTestSuite struct {
	suite.Suite
	mockInvoiceRepo *MockInvoiceReader
	mockPaymentRepo *MockPaymentRepository
	service         portssvc.ReconciliationSvcFacade
}

func (suite *ReconciliationServiceTestSuite) SetupTest() {
	suite.mockInvoiceRepo = new(MockInvoiceReader)
	suite.mockPaymentRepo = new(MockPaymentRepository)
	suite.service = services.NewReconciliationService(suite.mockInvoiceRepo, suite.mockPaymentRepo)
}

const (
	testSeller = "Acme Traders"
	testBuyer  = "Globex"
)

func (suite *ReconciliationServiceTestSuite) pairSnapshots(catalog []domain.Invoice, history []domain.PriorPayment) {
	suite.mockInvoiceRepo.On("ListApprovedInvoices", mock.Anything, testSeller, testBuyer).Return(catalog, nil)
	suite.mockPaymentRepo.On("ListPaymentsForPair", mock.Anything, testSeller, testBuyer).Return(history, nil)
}

func (suite *ReconciliationServiceTestSuite) createSession(req dto.CreateSessionRequest) *dto.SessionResponse {
	resp, err := suite.service.CreateSession(context.Background(), req, uuid.NewString())
	suite.Require().NoError(err)
	suite.Require().NotEmpty(resp.SessionID)
	return resp
}

func (suite *ReconciliationServiceTestSuite) TestCreateSession_LoadsSnapshots() {
	catalog := []domain.Invoice{{
		InvoiceID:     "inv-1",
		InvoiceNumber: "INV-001",
		Seller:        testSeller,
		Buyer:         testBuyer,
		GrossValue:    decimal.NewFromInt(2000),
	}}
	suite.pairSnapshots(catalog, nil)

	resp := suite.createSession(dto.CreateSessionRequest{
		Seller:      testSeller,
		Buyer:       testBuyer,
		PaymentType: "PAYMENT",
	})

	suite.Equal(testSeller, resp.Snapshot.Seller)
	suite.Equal(reconciliation.StateBuilding, resp.Snapshot.State)
	suite.Empty(resp.Snapshot.Allocations)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
	suite.mockPaymentRepo.AssertExpectations(suite.T())
}

func (suite *ReconciliationServiceTestSuite) TestCreateSession_WithoutPair_SkipsLoading() {
	resp := suite.createSession(dto.CreateSessionRequest{PaymentType: "ADVANCE"})

	suite.Equal(reconciliation.StateEmpty, resp.Snapshot.State)
	suite.mockInvoiceRepo.AssertNotCalled(suite.T(), "ListApprovedInvoices")
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "ListPaymentsForPair")
}

func (suite *ReconciliationServiceTestSuite) TestGetSession_Unknown() {
	resp, err := suite.service.GetSession(context.Background(), uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(resp)
	suite.ErrorIs(err, services.ErrSessionNotFound)
}

func (suite *ReconciliationServiceTestSuite) TestAllocationFlow_BalanceAgainstAdvance() {
	catalog := []domain.Invoice{{
		InvoiceID:     "inv-1",
		InvoiceNumber: "INV-001",
		Seller:        testSeller,
		Buyer:         testBuyer,
		GrossValue:    decimal.NewFromInt(2000),
	}}
	history := []domain.PriorPayment{{
		PaymentID:       uuid.NewString(),
		PaymentType:     domain.PaymentTypeAdvance,
		Status:          domain.PaymentStatusApproved,
		Seller:          testSeller,
		Buyer:           testBuyer,
		AdvanceReceived: decimal.NewFromInt(500),
		CreationDate:    time.Now().Add(-24 * time.Hour),
	}}
	suite.pairSnapshots(catalog, history)

	resp := suite.createSession(dto.CreateSessionRequest{
		Seller:      testSeller,
		Buyer:       testBuyer,
		PaymentType: "PAYMENT",
	})
	sessionID := resp.SessionID

	resp, err := suite.service.SelectInvoice(context.Background(), sessionID, "inv-1")
	suite.Require().NoError(err)
	suite.Len(resp.Snapshot.Allocations, 1)

	received := decimal.NewFromInt(300)
	resp, err = suite.service.UpdateAllocation(context.Background(), sessionID, "inv-1", dto.UpdateAllocationRequest{
		ReceivedAmount: &received,
	})
	suite.Require().NoError(err)

	alloc := resp.Snapshot.Allocations[0]
	// The received entry mirrors into the untouched adjusted field, and the
	// balance settles against the open advance: |500 + 300 - 2000| = 1200.
	suite.True(alloc.AdjustedAmount.Equal(received), "adjusted should mirror received, got %s", alloc.AdjustedAmount)
	suite.True(alloc.Balance.Equal(decimal.NewFromInt(1200)), "balance mismatch, got %s", alloc.Balance)
	suite.True(resp.Snapshot.AdvanceReceived.Equal(decimal.NewFromInt(200)), "remaining advance mismatch, got %s", resp.Snapshot.AdvanceReceived)
}

func (suite *ReconciliationServiceTestSuite) TestSubmitSession_PersistsAndDiscards() {
	suite.pairSnapshots(nil, nil)

	resp := suite.createSession(dto.CreateSessionRequest{
		Seller:      testSeller,
		Buyer:       testBuyer,
		PaymentType: "ADVANCE",
	})
	sessionID := resp.SessionID
	submitterID := uuid.NewString()

	advance := decimal.NewFromInt(750)
	_, err := suite.service.UpdateAdvance(context.Background(), sessionID, dto.UpdateAdvanceRequest{AdvanceReceived: advance})
	suite.Require().NoError(err)

	suite.mockPaymentRepo.On("SavePayment", mock.Anything, mock.MatchedBy(func(p domain.PriorPayment) bool {
		return p.Status == domain.PaymentStatusPending &&
			p.PaymentType == domain.PaymentTypeAdvance &&
			p.Seller == testSeller &&
			p.Buyer == testBuyer &&
			p.AdvanceReceived.Equal(advance) &&
			p.PaymentNumber != ""
	})).Return(nil).Once()

	submitResp, err := suite.service.SubmitSession(context.Background(), sessionID, submitterID)

	suite.Require().NoError(err)
	suite.NotEmpty(submitResp.PaymentID)
	suite.NotEmpty(submitResp.PaymentNumber)
	suite.mockPaymentRepo.AssertExpectations(suite.T())

	// The draft is gone once persisted.
	_, err = suite.service.GetSession(context.Background(), sessionID)
	suite.ErrorIs(err, services.ErrSessionNotFound)
}

func (suite *ReconciliationServiceTestSuite) TestSubmitSession_NoDimensions() {
	resp := suite.createSession(dto.CreateSessionRequest{PaymentType: "PAYMENT"})

	submitResp, err := suite.service.SubmitSession(context.Background(), resp.SessionID, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(submitResp)
	suite.ErrorIs(err, services.ErrNothingToSubmit)
	suite.mockPaymentRepo.AssertNotCalled(suite.T(), "SavePayment")
}

func (suite *ReconciliationServiceTestSuite) TestSetDimensions_ReloadsPair() {
	suite.pairSnapshots(nil, nil)

	resp := suite.createSession(dto.CreateSessionRequest{PaymentType: "PAYMENT"})

	resp, err := suite.service.SetDimensions(context.Background(), resp.SessionID, dto.UpdateDimensionsRequest{
		Seller:      testSeller,
		Buyer:       testBuyer,
		PaymentType: "INCOME_TAX",
	})

	suite.Require().NoError(err)
	suite.Equal(domain.PaymentTypeIncomeTax, resp.Snapshot.PaymentType)
	suite.Equal(reconciliation.StateBuilding, resp.Snapshot.State)
	suite.mockInvoiceRepo.AssertExpectations(suite.T())
}

func TestReconciliationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationServiceTestSuite))
}
