package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tradepay/payment_recon_app/internal/apperrors"
	"github.com/tradepay/payment_recon_app/internal/core/domain"
	portsrepo "github.com/tradepay/payment_recon_app/internal/core/ports/repositories"
	"github.com/tradepay/payment_recon_app/internal/models"
	"github.com/tradepay/payment_recon_app/internal/utils/mapping"
)

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(db *pgxpool.Pool) portsrepo.PaymentRepositoryWithTx {
	return &PgxPaymentRepository{BaseRepository{Pool: db}}
}

// Ensure PgxPaymentRepository implements portsrepo.PaymentRepositoryWithTx
var _ portsrepo.PaymentRepositoryWithTx = (*PgxPaymentRepository)(nil)

const paymentColumns = `payment_id, payment_number, payment_type, status, seller, buyer, advance_received, income_tax_amount, income_tax_rate, creation_date, created_at, created_by, last_updated_at, last_updated_by`

const allocationColumns = `allocation_id, payment_id, invoice_id, invoice_number, seller, buyer, total_amount, received_amount, received_entered, adjusted_amount, adjusted_entered, balance, created_at, created_by, last_updated_at, last_updated_by`

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID,
		&m.PaymentNumber,
		&m.PaymentType,
		&m.Status,
		&m.Seller,
		&m.Buyer,
		&m.AdvanceReceived,
		&m.IncomeTaxAmount,
		&m.IncomeTaxRate,
		&m.CreationDate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanAllocation(row pgx.Row) (models.PaymentAllocation, error) {
	var m models.PaymentAllocation
	err := row.Scan(
		&m.AllocationID,
		&m.PaymentID,
		&m.InvoiceID,
		&m.InvoiceNumber,
		&m.Seller,
		&m.Buyer,
		&m.TotalAmount,
		&m.ReceivedAmount,
		&m.ReceivedEntered,
		&m.AdjustedAmount,
		&m.AdjustedEntered,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SavePayment persists the payment header and its allocation rows in a single
// transaction so a partially written payment can never be observed.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.PriorPayment) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	m := mapping.ToModelPayment(payment)
	paymentQuery := `
        INSERT INTO payments (` + paymentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
    `
	_, err = tx.Exec(ctx, paymentQuery,
		m.PaymentID,
		m.PaymentNumber,
		m.PaymentType,
		m.Status,
		m.Seller,
		m.Buyer,
		m.AdvanceReceived,
		m.IncomeTaxAmount,
		m.IncomeTaxRate,
		m.CreationDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}

	allocationQuery := `
        INSERT INTO payment_allocations (` + allocationColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
    `
	for _, alloc := range payment.Allocations {
		am := mapping.ToModelPaymentAllocation(payment.PaymentID, alloc)
		am.AllocationID = uuid.NewString()
		am.AuditFields = m.AuditFields
		_, err = tx.Exec(ctx, allocationQuery,
			am.AllocationID,
			am.PaymentID,
			am.InvoiceID,
			am.InvoiceNumber,
			am.Seller,
			am.Buyer,
			am.TotalAmount,
			am.ReceivedAmount,
			am.ReceivedEntered,
			am.AdjustedAmount,
			am.AdjustedEntered,
			am.Balance,
			am.CreatedAt,
			am.CreatedBy,
			am.LastUpdatedAt,
			am.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to save payment allocation: %w", err)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxPaymentRepository) FindPaymentByID(ctx context.Context, paymentID string) (*domain.PriorPayment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE payment_id = $1;
	`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by ID %s: %w", paymentID, err)
	}

	allocations, err := r.findAllocations(ctx, m.PaymentID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainPayment(m, allocations)
	return &d, nil
}

func (r *PgxPaymentRepository) FindPaymentByNumber(ctx context.Context, paymentNumber string) (*domain.PriorPayment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE payment_number = $1
		ORDER BY creation_date DESC
		LIMIT 1;
	`
	m, err := scanPayment(r.Pool.QueryRow(ctx, query, paymentNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payment by number %s: %w", paymentNumber, err)
	}

	allocations, err := r.findAllocations(ctx, m.PaymentID)
	if err != nil {
		return nil, err
	}

	d := mapping.ToDomainPayment(m, allocations)
	return &d, nil
}

func (r *PgxPaymentRepository) ListPaymentsForPair(ctx context.Context, seller, buyer string) ([]domain.PriorPayment, error) {
	query := `
        SELECT ` + paymentColumns + `
        FROM payments
        WHERE seller = $1 AND buyer = $2
        ORDER BY creation_date DESC;
    `
	rows, err := r.Pool.Query(ctx, query, seller, buyer)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	modelPayments := []models.Payment{}
	for rows.Next() {
		m, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		modelPayments = append(modelPayments, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", rows.Err())
	}
	rows.Close()

	payments := make([]domain.PriorPayment, 0, len(modelPayments))
	for _, m := range modelPayments {
		allocations, err := r.findAllocations(ctx, m.PaymentID)
		if err != nil {
			return nil, err
		}
		payments = append(payments, mapping.ToDomainPayment(m, allocations))
	}
	return payments, nil
}

func (r *PgxPaymentRepository) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus, updatedByUserID string, updatedAt time.Time) error {
	query := `
        UPDATE payments
        SET status = $1, last_updated_at = $2, last_updated_by = $3
        WHERE payment_id = $4;
    `
	cmdTag, err := r.Pool.Exec(ctx, query, models.PaymentStatus(status), updatedAt, updatedByUserID, paymentID)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("payment not found: %w", apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxPaymentRepository) findAllocations(ctx context.Context, paymentID string) ([]models.PaymentAllocation, error) {
	query := `
        SELECT ` + allocationColumns + `
        FROM payment_allocations
        WHERE payment_id = $1
        ORDER BY invoice_number ASC;
    `
	rows, err := r.Pool.Query(ctx, query, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment allocations: %w", err)
	}
	defer rows.Close()

	allocations := []models.PaymentAllocation{}
	for rows.Next() {
		m, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation row: %w", err)
		}
		allocations = append(allocations, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating allocation rows: %w", rows.Err())
	}
	return allocations, nil
}
