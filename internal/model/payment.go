package model

import "time"

// Payment is an append-only record of funds transferred against a billing.
// Rows are created exactly once per successful payment and never mutated.
type Payment struct {
	ID         int64     `db:"id" json:"id"`
	BillingID  int64     `db:"billing_id" json:"billing_id"`
	AmountPaid float64   `db:"amount_paid" json:"amount_paid"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
