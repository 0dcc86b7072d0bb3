package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/petminded/petcare-api/internal/model"
)

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	query := `
		INSERT INTO payment (billing_id, amount_paid, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	payment.CreatedAt = time.Now()

	err := r.store.ext(ctx).QueryRowxContext(ctx, query,
		payment.BillingID,
		payment.AmountPaid,
		payment.CreatedAt,
	).Scan(&payment.ID)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}
