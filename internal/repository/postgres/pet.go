package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/petminded/petcare-api/internal/model"
)

func (r *petRepository) Get(ctx context.Context, id int64) (*model.Pet, error) {
	query := `
		SELECT id, owner_id, name, species, breed, age, health, preferences, created_at
		FROM pet
		WHERE id = $1
	`
	var pet model.Pet
	err := sqlx.GetContext(ctx, r.store.ext(ctx), &pet, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pet: %w", err)
	}
	return &pet, nil
}
