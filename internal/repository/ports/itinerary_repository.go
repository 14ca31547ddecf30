package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/meenatech/ghumakad-api/internal/domain"
)

type ItineraryRepository interface {
	Insert(ctx context.Context, userID uuid.UUID, itinerary domain.Itinerary) (*domain.ArchivedItinerary, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ArchivedItinerary, error)
	// ListByUser returns every archived record owned by userID, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ArchivedItinerary, error)
	// DeleteOwned deletes only when both id and owner match; sql.ErrNoRows
	// when nothing was removed.
	DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error
	// ListCommunity returns archived records of all users joined with the
	// owner's username, newest first.
	ListCommunity(ctx context.Context, limit, offset int) ([]domain.ArchivedItinerary, error)
}
