package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/meenatech/ghumakad-api/internal/domain"
)

type ProfileRepository interface {
	// EnsureExists inserts a default profile row for userID if none exists
	// yet (upsert-on-read), then returns the row with follower counts.
	EnsureExists(ctx context.Context, userID uuid.UUID, defaultUsername string) (*domain.Profile, error)
	FindByID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	FindByUsername(ctx context.Context, username string) (*domain.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error)
}
