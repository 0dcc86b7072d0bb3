package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/petminded/petcare-api/internal/model"
)

// TxRunner scopes a function to one database transaction. The transaction is
// carried in the context; repository calls made inside fn join it. Commit on
// nil return, rollback otherwise.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// All repository interfaces in one file
type (
	BookingRepository interface {
		// Create assigns the new booking's id. Returns AlreadyExists when
		// the (pet, offered service, date) triple is already booked.
		Create(ctx context.Context, booking *model.ServiceBooking) error
		// Get returns nil, nil when no booking has that id.
		Get(ctx context.Context, id int64) (*model.BookingInfo, error)
		GetDetail(ctx context.Context, id int64) (*model.Booking, error)
		ListByCallerID(ctx context.Context, callerID uuid.UUID) ([]*model.Booking, error)
		// UpdateStatus is a compare-and-swap on the version column. It
		// reports false when the row's version no longer matches.
		UpdateStatus(ctx context.Context, id, version int64, status model.BookingStatus) (bool, error)
	}

	BillingRepository interface {
		Create(ctx context.Context, billing *model.Billing) error
		// Get looks the invoice up by id alone, with no caller filter, so
		// duplicate checks see invoices the caller cannot read.
		Get(ctx context.Context, id int64) (*model.Billing, error)
		GetBillDetail(ctx context.Context, id int64) (*model.BillDetail, error)
		ListByCallerID(ctx context.Context, callerID uuid.UUID) ([]*model.Bill, error)
		MarkPaid(ctx context.Context, id int64, paidAt time.Time) error
	}

	PaymentRepository interface {
		Create(ctx context.Context, payment *model.Payment) error
	}

	PetRepository interface {
		Get(ctx context.Context, id int64) (*model.Pet, error)
	}

	OfferedServiceRepository interface {
		Get(ctx context.Context, id int64) (*model.OfferedService, error)
	}

	OutboxRepository interface {
		Append(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
	}
)
