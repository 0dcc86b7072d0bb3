package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/petminded/petcare-api/internal/model"
	"github.com/petminded/petcare-api/internal/repository"
	apperrors "github.com/petminded/petcare-api/pkg/errors"
)

// Service manages the one invoice per booking and its payment status. The
// payment record itself is the payment ledger's business, sequenced by the
// booking engine before UpdateBilling.
type Service struct {
	repo repository.BillingRepository
}

func NewService(repo repository.BillingRepository) *Service {
	return &Service{repo: repo}
}

// CreateBilling cuts the invoice for a booking. The existence check runs
// against the invoice id alone, so a duplicate fails regardless of who the
// caller is.
func (s *Service) CreateBilling(ctx context.Context, callerID uuid.UUID, bookingID int64, req *model.CreateBillingRequest) error {
	existing, err := s.repo.Get(ctx, bookingID)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperrors.AlreadyExists("billing")
	}

	return s.repo.Create(ctx, &model.Billing{
		ID:           bookingID,
		TotalPayable: req.TotalPayable,
	})
}

// GetBilling returns the full invoice. Only the pet owner on the associated
// booking may read it.
func (s *Service) GetBilling(ctx context.Context, callerID uuid.UUID, bookingID int64) (*model.Bill, error) {
	detail, err := s.repo.GetBillDetail(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, apperrors.NotExists("billing")
	}
	if detail.PetOwnerID != callerID {
		return nil, apperrors.PermissionDenied()
	}
	return &detail.Bill, nil
}

// GetAllBills returns every invoice where the caller is the pet owner or the
// caretaker on the associated booking.
func (s *Service) GetAllBills(ctx context.Context, callerID uuid.UUID) ([]*model.Bill, error) {
	return s.repo.ListByCallerID(ctx, callerID)
}

// UpdateBilling marks the invoice paid now. Same authorization as GetBilling.
func (s *Service) UpdateBilling(ctx context.Context, callerID uuid.UUID, bookingID int64) error {
	detail, err := s.repo.GetBillDetail(ctx, bookingID)
	if err != nil {
		return err
	}
	if detail == nil {
		return apperrors.NotExists("billing")
	}
	if detail.PetOwnerID != callerID {
		return apperrors.PermissionDenied()
	}
	return s.repo.MarkPaid(ctx, bookingID, time.Now())
}
