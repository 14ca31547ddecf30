package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
)

const communityPageSize = 50

type ItineraryService struct {
	itineraries ports.ItineraryRepository
}

func NewItineraryService(itineraries ports.ItineraryRepository) *ItineraryService {
	return &ItineraryService{itineraries: itineraries}
}

// Archive stores a generated plan under the caller's account.
func (s *ItineraryService) Archive(ctx context.Context, userID uuid.UUID, itinerary domain.Itinerary) (*domain.ArchivedItinerary, error) {
	itinerary.SortDays()
	archived, err := s.itineraries.Insert(ctx, userID, itinerary)
	if err != nil {
		return nil, fmt.Errorf("insert itinerary: %w", err)
	}
	return archived, nil
}

func (s *ItineraryService) ListArchived(ctx context.Context, userID uuid.UUID) ([]domain.ArchivedItinerary, error) {
	records, err := s.itineraries.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list itineraries: %w", err)
	}
	return records, nil
}

func (s *ItineraryService) Get(ctx context.Context, id uuid.UUID) (*domain.ArchivedItinerary, error) {
	record, err := s.itineraries.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrItineraryNotFound
		}
		return nil, fmt.Errorf("find itinerary: %w", err)
	}
	return record, nil
}

// Delete removes an archived plan. Only the owner's rows are reachable, so a
// stale or foreign id reports ErrItineraryNotFound.
func (s *ItineraryService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.itineraries.DeleteOwned(ctx, id, ownerID); err != nil {
		if isNotFound(err) {
			return ErrItineraryNotFound
		}
		return fmt.Errorf("delete itinerary: %w", err)
	}
	return nil
}

// Community lists recent archived plans across all travelers.
func (s *ItineraryService) Community(ctx context.Context, page int) ([]domain.ArchivedItinerary, error) {
	if page < 1 {
		page = 1
	}
	records, err := s.itineraries.ListCommunity(ctx, communityPageSize, (page-1)*communityPageSize)
	if err != nil {
		return nil, fmt.Errorf("list community itineraries: %w", err)
	}
	return records, nil
}
