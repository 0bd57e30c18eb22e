package dto

import (
	"time"

	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationResponse defines the data returned for one invoice allocation.
type AllocationResponse struct {
	InvoiceID       string          `json:"invoiceID,omitempty"`
	InvoiceNumber   string          `json:"invoiceNumber"`
	Seller          string          `json:"seller"`
	Buyer           string          `json:"buyer"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	ReceivedAmount  decimal.Decimal `json:"receivedAmount"`
	AdjustedAmount  decimal.Decimal `json:"adjustedAmount"`
	Balance         decimal.Decimal `json:"balance"`
	OriginalBalance decimal.Decimal `json:"originalBalance"`
	Stale           bool            `json:"stale,omitempty"`
}

// PaymentResponse defines the data returned for a payment and its allocations.
type PaymentResponse struct {
	PaymentID       string               `json:"paymentID"`
	PaymentNumber   string               `json:"paymentNumber"`
	PaymentType     domain.PaymentType   `json:"paymentType"`
	Status          domain.PaymentStatus `json:"status"`
	Seller          string               `json:"seller"`
	Buyer           string               `json:"buyer"`
	AdvanceReceived decimal.Decimal      `json:"advanceReceived"`
	IncomeTaxAmount decimal.Decimal      `json:"incomeTaxAmount"`
	IncomeTaxRate   decimal.Decimal      `json:"incomeTaxRate"`
	Allocations     []AllocationResponse `json:"allocations"`
	CreationDate    time.Time            `json:"creationDate"`
}

// ListPaymentsResponse wraps the payment history slice for a pair.
type ListPaymentsResponse struct {
	Payments []PaymentResponse `json:"payments"`
}

// ToAllocationResponse converts a domain.InvoiceAllocation to its DTO.
func ToAllocationResponse(a *domain.InvoiceAllocation) AllocationResponse {
	return AllocationResponse{
		InvoiceID:       a.InvoiceID,
		InvoiceNumber:   a.InvoiceNumber,
		Seller:          a.Seller,
		Buyer:           a.Buyer,
		TotalAmount:     a.TotalAmount,
		ReceivedAmount:  a.ReceivedAmount,
		AdjustedAmount:  a.AdjustedAmount,
		Balance:         a.Balance,
		OriginalBalance: a.OriginalBalance,
		Stale:           a.Stale,
	}
}

// ToPaymentResponse converts a domain.PriorPayment to PaymentResponse DTO.
func ToPaymentResponse(p *domain.PriorPayment) PaymentResponse {
	allocs := make([]AllocationResponse, len(p.Allocations))
	for i := range p.Allocations {
		allocs[i] = ToAllocationResponse(&p.Allocations[i])
	}
	return PaymentResponse{
		PaymentID:       p.PaymentID,
		PaymentNumber:   p.PaymentNumber,
		PaymentType:     p.PaymentType,
		Status:          p.Status,
		Seller:          p.Seller,
		Buyer:           p.Buyer,
		AdvanceReceived: p.AdvanceReceived,
		IncomeTaxAmount: p.IncomeTaxAmount,
		IncomeTaxRate:   p.IncomeTaxRate,
		Allocations:     allocs,
		CreationDate:    p.CreationDate,
	}
}

// ToListPaymentsResponse converts a slice of domain.PriorPayment to the list DTO.
func ToListPaymentsResponse(payments []domain.PriorPayment) ListPaymentsResponse {
	out := make([]PaymentResponse, len(payments))
	for i := range payments {
		out[i] = ToPaymentResponse(&payments[i])
	}
	return ListPaymentsResponse{Payments: out}
}
