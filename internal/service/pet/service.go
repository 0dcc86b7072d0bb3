package pet

import (
	"context"

	"github.com/google/uuid"

	"github.com/petminded/petcare-api/internal/model"
	"github.com/petminded/petcare-api/internal/repository"
	apperrors "github.com/petminded/petcare-api/pkg/errors"
)

// Service is the slice of the pet directory the booking engine needs:
// ownership-checked reads. Pet CRUD lives in the external directory service.
type Service struct {
	repo repository.PetRepository
}

func NewService(repo repository.PetRepository) *Service {
	return &Service{repo: repo}
}

// GetPet returns the pet if it exists and belongs to ownerID.
func (s *Service) GetPet(ctx context.Context, ownerID uuid.UUID, petID int64) (*model.Pet, error) {
	pet, err := s.repo.Get(ctx, petID)
	if err != nil {
		return nil, err
	}
	if pet == nil {
		return nil, apperrors.NotExists("pet")
	}
	if pet.OwnerID != ownerID {
		return nil, apperrors.PermissionDenied()
	}
	return pet, nil
}
