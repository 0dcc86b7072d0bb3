package model

import (
	"time"

	"github.com/google/uuid"
)

type PayStatus string

const (
	PayStatusPending PayStatus = "pending"
	PayStatusPaid    PayStatus = "paid"
)

// Billing is the invoice for a booking. It shares the booking's id as its
// primary key, so there is at most one invoice per booking.
type Billing struct {
	ID           int64      `db:"id" json:"id"`
	TotalPayable float64    `db:"total_payable" json:"total_payable"`
	PaidAt       *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	Status       PayStatus  `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

type CreateBillingRequest struct {
	TotalPayable float64 `json:"total_payable" validate:"required,gt=0"`
}

// Bill is the read shape for invoice endpoints: the invoice plus the
// booking/listing snapshot and the settling payment, if any.
type Bill struct {
	ID           int64      `json:"id"`
	TotalPayable float64    `json:"total_payable"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	Status       PayStatus  `json:"status"`
	Rate         int64      `json:"rate"`
	ServiceName  string     `json:"service_name"`
	Payment      *Payment   `json:"payment,omitempty"`
}

// BillDetail is a Bill plus the ownership columns authorization checks need.
type BillDetail struct {
	Bill
	PetOwnerID  uuid.UUID `json:"-"`
	CaretakerID uuid.UUID `json:"-"`
}
