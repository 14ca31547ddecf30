package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
)

type ItineraryRepository struct {
	db *sqlx.DB
}

func NewItineraryRepo(db *sqlx.DB) *ItineraryRepository {
	return &ItineraryRepository{db: db}
}

func (r *ItineraryRepository) Insert(ctx context.Context, userID uuid.UUID, itinerary domain.Itinerary) (*domain.ArchivedItinerary, error) {
	const query = `
		INSERT INTO itineraries (user_id, destination, data)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, destination, data, created_at
	`
	row := r.db.QueryRowxContext(ctx, query, userID, itinerary.Destination, itinerary)
	var archived domain.ArchivedItinerary
	if err := row.StructScan(&archived); err != nil {
		return nil, err
	}
	return &archived, nil
}

func (r *ItineraryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ArchivedItinerary, error) {
	const query = `
		SELECT i.id, i.user_id, i.destination, i.data, i.created_at,
		       p.username AS owner_username
		FROM itineraries i
		LEFT JOIN profiles p ON p.id = i.user_id
		WHERE i.id = $1
	`
	var archived domain.ArchivedItinerary
	if err := r.db.GetContext(ctx, &archived, query, id); err != nil {
		return nil, err
	}
	return &archived, nil
}

func (r *ItineraryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ArchivedItinerary, error) {
	const query = `
		SELECT id, user_id, destination, data, created_at
		FROM itineraries
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.ArchivedItinerary, 0)
	for rows.Next() {
		var item domain.ArchivedItinerary
		if err := rows.StructScan(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *ItineraryRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	const query = `
		DELETE FROM itineraries
		WHERE id = $1 AND user_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ItineraryRepository) ListCommunity(ctx context.Context, limit, offset int) ([]domain.ArchivedItinerary, error) {
	const query = `
		SELECT i.id, i.user_id, i.destination, i.data, i.created_at,
		       p.username AS owner_username
		FROM itineraries i
		LEFT JOIN profiles p ON p.id = i.user_id
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryxContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.ArchivedItinerary, 0)
	for rows.Next() {
		var item domain.ArchivedItinerary
		if err := rows.StructScan(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

var _ ports.ItineraryRepository = (*ItineraryRepository)(nil)
