package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
)

type FollowRepository struct {
	db *sqlx.DB
}

func NewFollowRepo(db *sqlx.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Add(ctx context.Context, followerID, followedID uuid.UUID) error {
	const query = `
		INSERT INTO follows (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT (follower_id, followed_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, followerID, followedID)
	return err
}

func (r *FollowRepository) Remove(ctx context.Context, followerID, followedID uuid.UUID) error {
	const query = `
		DELETE FROM follows
		WHERE follower_id = $1 AND followed_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, followerID, followedID)
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

func (r *FollowRepository) Exists(ctx context.Context, followerID, followedID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, followerID, followedID); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *FollowRepository) ListByFollower(ctx context.Context, followerID uuid.UUID) ([]domain.Follow, error) {
	const query = `
		SELECT follower_id, followed_id, created_at
		FROM follows
		WHERE follower_id = $1
	`
	rows, err := r.db.QueryxContext(ctx, query, followerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	follows := make([]domain.Follow, 0)
	for rows.Next() {
		var follow domain.Follow
		if err := rows.StructScan(&follow); err != nil {
			return nil, err
		}
		follows = append(follows, follow)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return follows, nil
}

var _ ports.FollowRepository = (*FollowRepository)(nil)
