package postgres

import (
	"github.com/petminded/petcare-api/internal/repository"
)

type bookingRepository struct {
	store *Store
}

type billingRepository struct {
	store *Store
}

type paymentRepository struct {
	store *Store
}

type petRepository struct {
	store *Store
}

type offeredServiceRepository struct {
	store *Store
}

type outboxRepository struct {
	store *Store
}

func NewBookingRepository(store *Store) repository.BookingRepository {
	return &bookingRepository{store: store}
}

func NewBillingRepository(store *Store) repository.BillingRepository {
	return &billingRepository{store: store}
}

func NewPaymentRepository(store *Store) repository.PaymentRepository {
	return &paymentRepository{store: store}
}

func NewPetRepository(store *Store) repository.PetRepository {
	return &petRepository{store: store}
}

func NewOfferedServiceRepository(store *Store) repository.OfferedServiceRepository {
	return &offeredServiceRepository{store: store}
}

func NewOutboxRepository(store *Store) repository.OutboxRepository {
	return &outboxRepository{store: store}
}
