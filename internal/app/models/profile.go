package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the per-caller profile row. Its id equals the identity
// provider's subject; email is deliberately not a column, it is read from the
// verified token on every request.
type Profile struct {
	ID          uuid.UUID `json:"id" db:"id"`
	DisplayName string    `json:"display_name" db:"display_name"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
