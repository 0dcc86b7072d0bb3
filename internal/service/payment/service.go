package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/petminded/petcare-api/internal/model"
	"github.com/petminded/petcare-api/internal/repository"
)

// Service is the append-only payment ledger. It performs no authorization
// and no amount matching: right-to-pay and the amount are the booking
// engine's responsibility and are settled before this service is called.
type Service struct {
	repo repository.PaymentRepository
}

func NewService(repo repository.PaymentRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreatePayment(ctx context.Context, callerID uuid.UUID, payment *model.Payment) error {
	return s.repo.Create(ctx, payment)
}
