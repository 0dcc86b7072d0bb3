package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/petminded/petcare-api/internal/model"
	"github.com/petminded/petcare-api/internal/repository"
	apperrors "github.com/petminded/petcare-api/pkg/errors"
	"github.com/petminded/petcare-api/pkg/metrics"
)

// PetDirectory is the slice of the external pet service the booking engine
// consumes: ownership-checked pet reads.
type PetDirectory interface {
	GetPet(ctx context.Context, ownerID uuid.UUID, petID int64) (*model.Pet, error)
}

// Catalog is the slice of the external offered-service catalog the booking
// engine consumes.
type Catalog interface {
	GetOfferedService(ctx context.Context, id int64) (*model.OfferedService, error)
}

// BillingLedger owns invoices. The booking engine never writes billing rows
// directly; all invoice mutation goes through this interface.
type BillingLedger interface {
	CreateBilling(ctx context.Context, callerID uuid.UUID, bookingID int64, req *model.CreateBillingRequest) error
	GetBilling(ctx context.Context, callerID uuid.UUID, bookingID int64) (*model.Bill, error)
	UpdateBilling(ctx context.Context, callerID uuid.UUID, bookingID int64) error
}

// PaymentLedger owns payment records.
type PaymentLedger interface {
	CreatePayment(ctx context.Context, callerID uuid.UUID, payment *model.Payment) error
}

// Service owns the booking state machine: who may trigger each transition,
// and the orchestration of billing and payment for the
// "caretaker marks job done, owner pays, booking completes" flow.
type Service struct {
	repo     repository.BookingRepository
	outbox   repository.OutboxRepository
	tx       repository.TxRunner
	pets     PetDirectory
	catalog  Catalog
	billing  BillingLedger
	payments PaymentLedger
	metrics  *metrics.Metrics
}

func NewService(
	repo repository.BookingRepository,
	outbox repository.OutboxRepository,
	tx repository.TxRunner,
	pets PetDirectory,
	catalog Catalog,
	billing BillingLedger,
	payments PaymentLedger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:     repo,
		outbox:   outbox,
		tx:       tx,
		pets:     pets,
		catalog:  catalog,
		billing:  billing,
		payments: payments,
		metrics:  m,
	}
}

// CreateBooking reserves an offered service for one of the caller's pets.
// The caller must own the pet; the (pet, service, date) triple must be free.
func (s *Service) CreateBooking(ctx context.Context, ownerID uuid.UUID, req *model.CreateBookingRequest) (int64, error) {
	if _, err := s.pets.GetPet(ctx, ownerID, req.PetID); err != nil {
		return 0, err
	}
	if _, err := s.catalog.GetOfferedService(ctx, req.OfferedServiceID); err != nil {
		return 0, err
	}

	booking := &model.ServiceBooking{
		OfferedServiceID: req.OfferedServiceID,
		PetID:            req.PetID,
		Date:             req.Date,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, booking); err != nil {
			return err
		}
		return s.appendEvent(ctx, booking.ID, model.BookingStatusPending)
	})
	if err != nil {
		return 0, err
	}

	s.countTransition(model.BookingStatusPending, "success")
	return booking.ID, nil
}

// AcceptBooking: caller must be the listing's caretaker.
func (s *Service) AcceptBooking(ctx context.Context, caretakerID uuid.UUID, bookingID int64) error {
	return s.caretakerTransition(ctx, caretakerID, bookingID, model.BookingStatusAccepted)
}

// DeclineBooking: caller must be the listing's caretaker.
func (s *Service) DeclineBooking(ctx context.Context, caretakerID uuid.UUID, bookingID int64) error {
	return s.caretakerTransition(ctx, caretakerID, bookingID, model.BookingStatusDeclined)
}

// CancelBooking is allowed to exactly one of the booking's pet owner or the
// listing's caretaker. A caller who is both sides of their own booking is
// rejected, same as a caller who is neither. Terminal bookings stay put.
func (s *Service) CancelBooking(ctx context.Context, callerID uuid.UUID, bookingID int64) error {
	info, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if info == nil {
		return apperrors.NotExists("booking")
	}
	if (info.PetOwnerID == callerID) == (info.CaretakerID == callerID) {
		return apperrors.PermissionDenied()
	}
	if !cancellable(info.Status) {
		return apperrors.PermissionDenied()
	}
	return s.transition(ctx, info, model.BookingStatusCancelled)
}

// PendingPaymentBooking marks the service rendered: the caretaker moves an
// accepted booking to pendingpayment and an invoice is cut at the listing
// rate, both in one transaction.
func (s *Service) PendingPaymentBooking(ctx context.Context, caretakerID uuid.UUID, bookingID int64) error {
	info, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if info == nil {
		return apperrors.NotExists("booking")
	}
	if info.CaretakerID != caretakerID {
		return apperrors.PermissionDenied()
	}
	if info.Status != model.BookingStatusAccepted {
		return apperrors.PermissionDenied()
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.casTransition(ctx, info, model.BookingStatusPendingPayment); err != nil {
			return err
		}
		return s.billing.CreateBilling(ctx, caretakerID, bookingID, &model.CreateBillingRequest{
			TotalPayable: float64(info.Rate),
		})
	})
}

// PayBookingBill settles the booking's invoice: creates the payment record,
// marks the bill paid, and completes the booking. All three writes share one
// transaction, so a rejected completion rolls back the payment and the bill.
func (s *Service) PayBookingBill(ctx context.Context, ownerID uuid.UUID, bookingID int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		bill, err := s.billing.GetBilling(ctx, ownerID, bookingID)
		if err != nil {
			return err
		}

		payment := &model.Payment{
			BillingID:  bookingID,
			AmountPaid: bill.TotalPayable,
		}
		if err := s.payments.CreatePayment(ctx, ownerID, payment); err != nil {
			return err
		}
		if err := s.billing.UpdateBilling(ctx, ownerID, bookingID); err != nil {
			return err
		}
		return s.completeBooking(ctx, bookingID)
	})
	if err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.BillsPaid.Inc()
	}
	return nil
}

// GetBooking returns one booking. Same exclusive-or authorization rule as
// cancellation.
func (s *Service) GetBooking(ctx context.Context, callerID uuid.UUID, bookingID int64) (*model.Booking, error) {
	booking, err := s.repo.GetDetail(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperrors.NotExists("booking")
	}
	if (booking.Pet.OwnerID == callerID) == (booking.OfferedService.CaretakerID == callerID) {
		return nil, apperrors.PermissionDenied()
	}
	return booking, nil
}

// GetBookingsByCallerID returns every booking where the caller is the pet's
// owner or the listing's caretaker. Filtering is the authorization.
func (s *Service) GetBookingsByCallerID(ctx context.Context, callerID uuid.UUID) ([]*model.Booking, error) {
	return s.repo.ListByCallerID(ctx, callerID)
}

func (s *Service) caretakerTransition(ctx context.Context, caretakerID uuid.UUID, bookingID int64, to model.BookingStatus) error {
	info, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if info == nil {
		return apperrors.NotExists("booking")
	}
	if info.CaretakerID != caretakerID {
		return apperrors.PermissionDenied()
	}
	return s.transition(ctx, info, to)
}

// completeBooking runs inside the pay transaction. The booking must still be
// awaiting payment; anything else rejects the whole flow.
func (s *Service) completeBooking(ctx context.Context, bookingID int64) error {
	info, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if info == nil {
		return apperrors.NotExists("booking")
	}
	if info.Status != model.BookingStatusPendingPayment {
		return apperrors.PermissionDenied()
	}
	return s.casTransition(ctx, info, model.BookingStatusCompleted)
}

func (s *Service) transition(ctx context.Context, info *model.BookingInfo, to model.BookingStatus) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.casTransition(ctx, info, to)
	})
}

// casTransition applies the status change guarded by the version read
// earlier, and records the lifecycle event in the same transaction.
func (s *Service) casTransition(ctx context.Context, info *model.BookingInfo, to model.BookingStatus) error {
	ok, err := s.repo.UpdateStatus(ctx, info.ID, info.Version, to)
	if err != nil {
		s.countTransition(to, "error")
		return err
	}
	if !ok {
		s.countTransition(to, "conflict")
		return apperrors.Conflict("booking")
	}

	if err := s.appendEvent(ctx, info.ID, to); err != nil {
		return err
	}
	s.countTransition(to, "success")
	return nil
}

func (s *Service) appendEvent(ctx context.Context, bookingID int64, status model.BookingStatus) error {
	payload, err := json.Marshal(model.BookingEvent{
		BookingID: bookingID,
		Status:    status,
		At:        time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal booking event: %w", err)
	}
	return s.outbox.Append(ctx, &model.OutboxEvent{
		EventType: "booking." + string(status),
		Payload:   payload,
	})
}

func (s *Service) countTransition(to model.BookingStatus, result string) {
	if s.metrics != nil {
		s.metrics.BookingTransitions.WithLabelValues(string(to), result).Inc()
	}
}

func cancellable(status model.BookingStatus) bool {
	switch status {
	case model.BookingStatusPending, model.BookingStatusAccepted,
		model.BookingStatusDeclined, model.BookingStatusPendingPayment:
		return true
	default:
		return false
	}
}
