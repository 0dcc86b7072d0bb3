package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/petminded/petcare-api/internal/model"
)

func (r *offeredServiceRepository) Get(ctx context.Context, id int64) (*model.OfferedService, error) {
	query := `
		SELECT os.id, os.service_id, s.name AS service_name,
			   os.caretaker_id, os.rate, os.created_at
		FROM offered_service os
		JOIN service s ON s.id = os.service_id
		WHERE os.id = $1
	`
	var offered model.OfferedService
	err := sqlx.GetContext(ctx, r.store.ext(ctx), &offered, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get offered service: %w", err)
	}
	return &offered, nil
}
