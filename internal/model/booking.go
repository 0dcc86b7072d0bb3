package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending        BookingStatus = "pending"
	BookingStatusAccepted       BookingStatus = "accepted"
	BookingStatusDeclined       BookingStatus = "declined"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusPendingPayment BookingStatus = "pendingpayment"
	BookingStatusCompleted      BookingStatus = "completed"
)

// ServiceBooking is one reservation of an offered service for a pet on a
// specific date. Rows are never deleted; cancellation is a status.
// (pet_id, date, offered_service_id) is unique.
type ServiceBooking struct {
	ID               int64         `db:"id" json:"id"`
	OfferedServiceID int64         `db:"offered_service_id" json:"offered_service_id"`
	PetID            int64         `db:"pet_id" json:"pet_id"`
	Date             time.Time     `db:"date" json:"date"`
	Status           BookingStatus `db:"status" json:"status"`
	Version          int64         `db:"version" json:"-"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// BookingInfo is a booking joined with the ownership columns every
// authorization check needs: the pet's owner, the listing's caretaker and
// the listing rate.
type BookingInfo struct {
	ServiceBooking
	PetOwnerID  uuid.UUID `db:"pet_owner_id"`
	CaretakerID uuid.UUID `db:"caretaker_id"`
	Rate        int64     `db:"rate"`
}

type CreateBookingRequest struct {
	Date             time.Time `json:"date" validate:"required"`
	OfferedServiceID int64     `json:"offered_service_id" validate:"required,gt=0"`
	PetID            int64     `json:"pet_id" validate:"required,gt=0"`
}

// Booking is the read shape returned to callers, with the pet and listing
// snapshots the original API exposes.
type Booking struct {
	ID             int64                 `json:"id"`
	Status         BookingStatus         `json:"status"`
	Date           time.Time             `json:"date"`
	OfferedService BookingOfferedService `json:"offered_service"`
	Pet            BookingPet            `json:"pet"`
}

type BookingOfferedService struct {
	ID          int64     `json:"id"`
	CaretakerID uuid.UUID `json:"caretaker_id"`
	ServiceName string    `json:"service_name"`
	Rate        int64     `json:"rate"`
}

type BookingPet struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Species string    `json:"species"`
	Breed   string    `json:"breed"`
	Age     int       `json:"age"`
	OwnerID uuid.UUID `json:"owner_id"`
}
