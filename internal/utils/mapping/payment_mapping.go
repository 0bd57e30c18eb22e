package mapping

import (
	"github.com/tradepay/payment_recon_app/internal/core/domain"
	"github.com/tradepay/payment_recon_app/internal/models"
)

// ToModelPayment converts a domain PriorPayment header to a model Payment.
// Allocation lines are mapped separately via ToModelPaymentAllocation.
func ToModelPayment(d domain.PriorPayment) models.Payment {
	return models.Payment{
		PaymentID:       d.PaymentID,
		PaymentNumber:   d.PaymentNumber,
		PaymentType:     models.PaymentType(d.PaymentType),
		Status:          models.PaymentStatus(d.Status),
		Seller:          d.Seller,
		Buyer:           d.Buyer,
		AdvanceReceived: d.AdvanceReceived,
		IncomeTaxAmount: d.IncomeTaxAmount,
		IncomeTaxRate:   d.IncomeTaxRate,
		CreationDate:    d.CreationDate,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment and its allocation rows to a domain PriorPayment
func ToDomainPayment(m models.Payment, allocations []models.PaymentAllocation) domain.PriorPayment {
	return domain.PriorPayment{
		PaymentID:       m.PaymentID,
		PaymentNumber:   m.PaymentNumber,
		PaymentType:     domain.PaymentType(m.PaymentType),
		Status:          domain.PaymentStatus(m.Status),
		Seller:          m.Seller,
		Buyer:           m.Buyer,
		AdvanceReceived: m.AdvanceReceived,
		IncomeTaxAmount: m.IncomeTaxAmount,
		IncomeTaxRate:   m.IncomeTaxRate,
		Allocations:     ToDomainAllocationSlice(allocations),
		CreationDate:    m.CreationDate,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPaymentAllocation converts a domain InvoiceAllocation into a row for the given payment
func ToModelPaymentAllocation(paymentID string, d domain.InvoiceAllocation) models.PaymentAllocation {
	return models.PaymentAllocation{
		PaymentID:       paymentID,
		InvoiceID:       d.InvoiceID,
		InvoiceNumber:   d.InvoiceNumber,
		Seller:          d.Seller,
		Buyer:           d.Buyer,
		TotalAmount:     d.TotalAmount,
		ReceivedAmount:  d.ReceivedAmount,
		ReceivedEntered: d.ReceivedEntered,
		AdjustedAmount:  d.AdjustedAmount,
		AdjustedEntered: d.AdjustedEntered,
		Balance:         d.Balance,
	}
}

// ToDomainAllocation converts a model PaymentAllocation to a domain InvoiceAllocation
func ToDomainAllocation(m models.PaymentAllocation) domain.InvoiceAllocation {
	return domain.InvoiceAllocation{
		InvoiceID:       m.InvoiceID,
		InvoiceNumber:   m.InvoiceNumber,
		Seller:          m.Seller,
		Buyer:           m.Buyer,
		TotalAmount:     m.TotalAmount,
		ReceivedAmount:  m.ReceivedAmount,
		ReceivedEntered: m.ReceivedEntered,
		AdjustedAmount:  m.AdjustedAmount,
		AdjustedEntered: m.AdjustedEntered,
		Balance:         m.Balance,
	}
}

// ToDomainAllocationSlice converts a slice of allocation rows to domain allocations
func ToDomainAllocationSlice(ms []models.PaymentAllocation) []domain.InvoiceAllocation {
	ds := make([]domain.InvoiceAllocation, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAllocation(m)
	}
	return ds
}
