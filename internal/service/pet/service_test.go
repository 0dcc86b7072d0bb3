package pet

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petminded/petcare-api/internal/model"
	apperrors "github.com/petminded/petcare-api/pkg/errors"
)

type fakeRepo struct {
	rows map[int64]*model.Pet
}

func (r *fakeRepo) Get(ctx context.Context, id int64) (*model.Pet, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, nil
	}
	return row, nil
}

func TestGetPet(t *testing.T) {
	ownerID := uuid.New()
	svc := NewService(&fakeRepo{rows: map[int64]*model.Pet{
		1: {ID: 1, OwnerID: ownerID, Name: "Rex"},
	}})

	pet, err := svc.GetPet(context.Background(), ownerID, 1)
	require.NoError(t, err)
	assert.Equal(t, "Rex", pet.Name)

	_, err = svc.GetPet(context.Background(), uuid.New(), 1)
	assert.Equal(t, apperrors.ErrPermissionDenied, apperrors.CodeOf(err))

	_, err = svc.GetPet(context.Background(), ownerID, 404)
	assert.Equal(t, apperrors.ErrNotExists, apperrors.CodeOf(err))
}
