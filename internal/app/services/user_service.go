package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/JackLockhart04/course-genius/internal/app/models"
	"github.com/JackLockhart04/course-genius/internal/app/models/dto"
	"github.com/JackLockhart04/course-genius/internal/pkg/identity"
)

// ProfileStore is the data access the user service needs.
type ProfileStore interface {
	Ensure(ctx context.Context, id uuid.UUID, displayName string) (*models.Profile, error)
}

// UserService handles profile operations for the authenticated caller.
type UserService struct {
	profileRepo ProfileStore
}

// NewUserService creates a new user service instance
func NewUserService(profileRepo ProfileStore) *UserService {
	return &UserService{
		profileRepo: profileRepo,
	}
}

// GetProfile returns the caller's profile, provisioning the row on first
// sight so a verified caller never sees a not-found here. The email in the
// response is the one the provider asserted for this request.
func (s *UserService) GetProfile(ctx context.Context, ident identity.Identity) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.Ensure(ctx, ident.ID, displayNameFor(ident))
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		ID:          profile.ID,
		DisplayName: profile.DisplayName,
		Email:       ident.Email,
		CreatedAt:   profile.CreatedAt,
		UpdatedAt:   profile.UpdatedAt,
	}, nil
}

// displayNameFor picks the provider's name claim, falling back to the local
// part of the email for providers that do not assert a name.
func displayNameFor(ident identity.Identity) string {
	if ident.DisplayName != "" {
		return ident.DisplayName
	}
	if at := strings.Index(ident.Email, "@"); at > 0 {
		return ident.Email[:at]
	}
	return ident.Email
}
