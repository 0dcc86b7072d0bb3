package model

import (
	"time"

	"github.com/google/uuid"
)

// Pet belongs to a pet owner. The booking engine only reads pets to verify
// ownership; pet CRUD is owned by the external pet directory.
type Pet struct {
	ID          int64     `db:"id" json:"id"`
	OwnerID     uuid.UUID `db:"owner_id" json:"owner_id"`
	Name        string    `db:"name" json:"name"`
	Species     string    `db:"species" json:"species"`
	Breed       string    `db:"breed" json:"breed"`
	Age         int       `db:"age" json:"age"`
	Health      string    `db:"health" json:"health"`
	Preferences string    `db:"preferences" json:"preferences"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
