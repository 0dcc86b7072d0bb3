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

func (r *bookingRepository) Create(ctx context.Context, booking *model.ServiceBooking) error {
	query := `
		INSERT INTO service_booking (
			offered_service_id, pet_id, date, status, version,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	booking.Status = model.BookingStatusPending
	booking.Version = 1
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt

	err := r.store.ext(ctx).QueryRowxContext(ctx, query,
		booking.OfferedServiceID,
		booking.PetID,
		booking.Date,
		booking.Status,
		booking.Version,
		booking.CreatedAt,
		booking.UpdatedAt,
	).Scan(&booking.ID)
	if err != nil {
		if uniqueViolation(err) {
			return apperrors.AlreadyExists("booking for this pet, service and date")
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id int64) (*model.BookingInfo, error) {
	query := `
		SELECT b.id, b.offered_service_id, b.pet_id, b.date, b.status,
			   b.version, b.created_at, b.updated_at,
			   p.owner_id AS pet_owner_id,
			   os.caretaker_id AS caretaker_id,
			   os.rate AS rate
		FROM service_booking b
		JOIN pet p ON p.id = b.pet_id
		JOIN offered_service os ON os.id = b.offered_service_id
		WHERE b.id = $1
	`
	var info model.BookingInfo
	err := sqlx.GetContext(ctx, r.store.ext(ctx), &info, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &info, nil
}

// bookingRow is the flat scan target for the joined read queries.
type bookingRow struct {
	ID          int64               `db:"id"`
	Status      model.BookingStatus `db:"status"`
	Date        time.Time           `db:"date"`
	OsID        int64               `db:"os_id"`
	CaretakerID uuid.UUID           `db:"caretaker_id"`
	ServiceName string              `db:"service_name"`
	Rate        int64               `db:"rate"`
	PetID       int64               `db:"pet_id"`
	PetName     string              `db:"pet_name"`
	Species     string              `db:"species"`
	Breed       string              `db:"breed"`
	Age         int                 `db:"age"`
	OwnerID     uuid.UUID           `db:"owner_id"`
}

const bookingDetailQuery = `
	SELECT b.id, b.status, b.date,
		   os.id AS os_id, os.caretaker_id, s.name AS service_name, os.rate,
		   p.id AS pet_id, p.name AS pet_name, p.species, p.breed, p.age, p.owner_id
	FROM service_booking b
	JOIN pet p ON p.id = b.pet_id
	JOIN offered_service os ON os.id = b.offered_service_id
	JOIN service s ON s.id = os.service_id
`

func (row *bookingRow) toBooking() *model.Booking {
	return &model.Booking{
		ID:     row.ID,
		Status: row.Status,
		Date:   row.Date,
		OfferedService: model.BookingOfferedService{
			ID:          row.OsID,
			CaretakerID: row.CaretakerID,
			ServiceName: row.ServiceName,
			Rate:        row.Rate,
		},
		Pet: model.BookingPet{
			ID:      row.PetID,
			Name:    row.PetName,
			Species: row.Species,
			Breed:   row.Breed,
			Age:     row.Age,
			OwnerID: row.OwnerID,
		},
	}
}

func (r *bookingRepository) GetDetail(ctx context.Context, id int64) (*model.Booking, error) {
	var row bookingRow
	err := sqlx.GetContext(ctx, r.store.ext(ctx), &row, bookingDetailQuery+" WHERE b.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get booking detail: %w", err)
	}
	return row.toBooking(), nil
}

func (r *bookingRepository) ListByCallerID(ctx context.Context, callerID uuid.UUID) ([]*model.Booking, error) {
	query := bookingDetailQuery + `
	WHERE p.owner_id = $1 OR os.caretaker_id = $1
	ORDER BY b.date ASC
	`
	var rows []bookingRow
	if err := sqlx.SelectContext(ctx, r.store.ext(ctx), &rows, query, callerID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*model.Booking, 0, len(rows))
	for i := range rows {
		bookings = append(bookings, rows[i].toBooking())
	}
	return bookings, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id, version int64, status model.BookingStatus) (bool, error) {
	query := `
		UPDATE service_booking
		SET status = $1, version = version + 1, updated_at = $2
		WHERE id = $3 AND version = $4
	`
	result, err := r.store.ext(ctx).ExecContext(ctx, query, status, time.Now(), id, version)
	if err != nil {
		return false, fmt.Errorf("failed to update booking status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows == 1, nil
}
