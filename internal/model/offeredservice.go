package model

import (
	"time"

	"github.com/google/uuid"
)

// OfferedService is a caretaker's listing: a service type offered at a rate.
// Owned by the external catalog; the booking engine reads it to authorize
// caretaker transitions and to size invoices.
type OfferedService struct {
	ID          int64     `db:"id" json:"id"`
	ServiceID   int64     `db:"service_id" json:"service_id"`
	ServiceName string    `db:"service_name" json:"service_name"`
	CaretakerID uuid.UUID `db:"caretaker_id" json:"caretaker_id"`
	Rate        int64     `db:"rate" json:"rate"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
