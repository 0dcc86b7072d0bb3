package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/petminded/petcare-api/pkg/errors"

	"github.com/petminded/petcare-api/internal/model"
)

func (r *billingRepository) Create(ctx context.Context, billing *model.Billing) error {
	query := `
		INSERT INTO billing (id, total_payable, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	billing.Status = model.PayStatusPending
	billing.CreatedAt = time.Now()
	billing.UpdatedAt = billing.CreatedAt

	_, err := r.store.ext(ctx).ExecContext(ctx, query,
		billing.ID,
		billing.TotalPayable,
		billing.Status,
		billing.CreatedAt,
		billing.UpdatedAt,
	)
	if err != nil {
		if uniqueViolation(err) {
			return apperrors.AlreadyExists("billing")
		}
		return fmt.Errorf("failed to create billing: %w", err)
	}
	return nil
}

func (r *billingRepository) Get(ctx context.Context, id int64) (*model.Billing, error) {
	query := `
		SELECT id, total_payable, paid_at, status, created_at, updated_at
		FROM billing
		WHERE id = $1
	`
	var billing model.Billing
	err := sqlx.GetContext(ctx, r.store.ext(ctx), &billing, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get billing: %w", err)
	}
	return &billing, nil
}

// billRow is the flat scan target for the joined invoice queries. The
// payment columns are nullable since unpaid bills have no payment row.
type billRow struct {
	ID            int64           `db:"id"`
	TotalPayable  float64         `db:"total_payable"`
	PaidAt        *time.Time      `db:"paid_at"`
	Status        model.PayStatus `db:"status"`
	Rate          int64           `db:"rate"`
	ServiceName   string          `db:"service_name"`
	PetOwnerID    uuid.UUID       `db:"pet_owner_id"`
	CaretakerID   uuid.UUID       `db:"caretaker_id"`
	PaymentID     sql.NullInt64   `db:"payment_id"`
	AmountPaid    sql.NullFloat64 `db:"amount_paid"`
	PaymentTime   sql.NullTime    `db:"payment_created_at"`
}

const billDetailQuery = `
	SELECT bl.id, bl.total_payable, bl.paid_at, bl.status,
		   os.rate, s.name AS service_name,
		   p.owner_id AS pet_owner_id,
		   os.caretaker_id AS caretaker_id,
		   pay.id AS payment_id, pay.amount_paid, pay.created_at AS payment_created_at
	FROM billing bl
	JOIN service_booking b ON b.id = bl.id
	JOIN pet p ON p.id = b.pet_id
	JOIN offered_service os ON os.id = b.offered_service_id
	JOIN service s ON s.id = os.service_id
	LEFT JOIN payment pay ON pay.billing_id = bl.id
`

func (row *billRow) toBillDetail() *model.BillDetail {
	detail := &model.BillDetail{
		Bill: model.Bill{
			ID:           row.ID,
			TotalPayable: row.TotalPayable,
			PaidAt:       row.PaidAt,
			Status:       row.Status,
			Rate:         row.Rate,
			ServiceName:  row.ServiceName,
		},
		PetOwnerID:  row.PetOwnerID,
		CaretakerID: row.CaretakerID,
	}
	if row.PaymentID.Valid {
		detail.Payment = &model.Payment{
			ID:         row.PaymentID.Int64,
			BillingID:  row.ID,
			AmountPaid: row.AmountPaid.Float64,
			CreatedAt:  row.PaymentTime.Time,
		}
	}
	return detail
}

func (r *billingRepository) GetBillDetail(ctx context.Context, id int64) (*model.BillDetail, error) {
	var row billRow
	err := sqlx.GetContext(ctx, r.store.ext(ctx), &row, billDetailQuery+" WHERE bl.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bill detail: %w", err)
	}
	return row.toBillDetail(), nil
}

func (r *billingRepository) ListByCallerID(ctx context.Context, callerID uuid.UUID) ([]*model.Bill, error) {
	query := billDetailQuery + `
	WHERE p.owner_id = $1 OR os.caretaker_id = $1
	ORDER BY bl.created_at DESC
	`
	var rows []billRow
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, callerID); err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	bills := make([]*model.Bill, 0, len(rows))
	for i := range rows {
		bills = append(bills, &rows[i].toBillDetail().Bill)
	}
	return bills, nil
}

func (r *billingRepository) MarkPaid(ctx context.Context, id int64, paidAt time.Time) error {
	query := `
		UPDATE billing
		SET status = $1, paid_at = $2, updated_at = $2
		WHERE id = $3
	`
	result, err := r.store.ext(ctx).ExecContext(ctx, query, model.PayStatusPaid, paidAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark billing paid: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("billing %d not found", id)
	}
	return nil
}
