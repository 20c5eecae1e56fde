package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/JackLockhart04/course-genius/internal/app/models"
	"github.com/JackLockhart04/course-genius/internal/db"
)

// ProfileRepository handles database operations for caller profiles. The
// profile id equals the identity provider's subject, so the RLS policy keys
// on id rather than a separate owner column.
type ProfileRepository struct {
	db *db.UserDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *db.UserDB) *ProfileRepository {
	return &ProfileRepository{
		db: db,
	}
}

// Ensure provisions the profile row on first sight of a verified caller and
// returns it. Subsequent calls leave the stored display name alone.
func (r *ProfileRepository) Ensure(ctx context.Context, id uuid.UUID, displayName string) (*models.Profile, error) {
	query := `
		INSERT INTO profiles (id, display_name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET updated_at = now()
		RETURNING id, display_name, created_at, updated_at
	`

	var profile models.Profile
	err := r.db.AsIdentity(ctx, id, func(ctx context.Context, tx pgx.Tx) error {
		return tx.QueryRow(ctx, query, id, displayName).Scan(
			&profile.ID,
			&profile.DisplayName,
			&profile.CreatedAt,
			&profile.UpdatedAt,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("error provisioning profile: %w", err)
	}

	return &profile, nil
}
