package dto

import (
	"github.com/tradepay/payment_recon_app/internal/core/reconciliation"
	"github.com/shopspring/decimal"
)

// CreateSessionRequest opens a new reconciliation draft. Dimensions may be
// supplied up front or set later through UpdateDimensionsRequest.
type CreateSessionRequest struct {
	Seller        string `json:"seller"`
	Buyer         string `json:"buyer"`
	PaymentType   string `json:"paymentType" binding:"required,oneof=ADVANCE PAYMENT INCOME_TAX"`
	PaymentNumber string `json:"paymentNumber"`
}

// UpdateDimensionsRequest changes the draft's seller/buyer/type tuple.
// Any change discards the current working set.
type UpdateDimensionsRequest struct {
	Seller      string `json:"seller" binding:"required"`
	Buyer       string `json:"buyer" binding:"required"`
	PaymentType string `json:"paymentType" binding:"required,oneof=ADVANCE PAYMENT INCOME_TAX"`
}

// SetPaymentNumberRequest selects a history payment for baseline lookup.
type SetPaymentNumberRequest struct {
	PaymentNumber string `json:"paymentNumber" binding:"required"`
}

// UpdateAllocationRequest edits one allocation's user-entered fields.
// Nil means "leave the field blank/unchanged" — an explicit zero is a
// different statement than an absent value.
type UpdateAllocationRequest struct {
	ReceivedAmount *decimal.Decimal `json:"receivedAmount" binding:"omitempty,gte=0"`
	AdjustedAmount *decimal.Decimal `json:"adjustedAmount" binding:"omitempty,gte=0"`
}

// UpdateAdvanceRequest edits the advance figure of an ADVANCE draft.
type UpdateAdvanceRequest struct {
	AdvanceReceived decimal.Decimal `json:"advanceReceived" binding:"gte=0"`
}

// UpdateIncomeTaxRequest edits the draft-level income-tax figures.
type UpdateIncomeTaxRequest struct {
	IncomeTaxAmount *decimal.Decimal `json:"incomeTaxAmount" binding:"omitempty,gte=0"`
	IncomeTaxRate   *decimal.Decimal `json:"incomeTaxRate" binding:"omitempty,gte=0"`
}

// SessionResponse is the full draft projection returned after every command.
type SessionResponse struct {
	SessionID string                  `json:"sessionID"`
	Snapshot  reconciliation.Snapshot `json:"snapshot"`
}

// SubmitSessionResponse is returned when a draft is finalized into a payment.
type SubmitSessionResponse struct {
	PaymentID     string `json:"paymentID"`
	PaymentNumber string `json:"paymentNumber"`
}
