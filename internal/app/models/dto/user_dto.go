package dto

import (
	"time"

	"github.com/google/uuid"
)

// ProfileResponse is the caller's profile joined with the email asserted by
// the identity provider for this request. The email is not read from storage.
type ProfileResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
