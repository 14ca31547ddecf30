package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
)

type LikeRepository struct {
	db *sqlx.DB
}

func NewLikeRepo(db *sqlx.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Add(ctx context.Context, userID, postID uuid.UUID) error {
	const query = `
		INSERT INTO likes (user_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID, postID)
	return err
}

func (r *LikeRepository) Remove(ctx context.Context, userID, postID uuid.UUID) error {
	const query = `
		DELETE FROM likes
		WHERE user_id = $1 AND post_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, userID, postID)
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

func (r *LikeRepository) Exists(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM likes WHERE user_id = $1 AND post_id = $2
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, userID, postID); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *LikeRepository) ListByPostIDs(ctx context.Context, postIDs []uuid.UUID) ([]domain.Like, error) {
	if len(postIDs) == 0 {
		return []domain.Like{}, nil
	}

	ids := make([]string, 0, len(postIDs))
	for _, id := range postIDs {
		ids = append(ids, id.String())
	}

	const query = `
		SELECT user_id, post_id, created_at
		FROM likes
		WHERE post_id = ANY($1)
	`
	rows, err := r.db.QueryxContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	likes := make([]domain.Like, 0)
	for rows.Next() {
		var like domain.Like
		if err := rows.StructScan(&like); err != nil {
			return nil, err
		}
		likes = append(likes, like)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return likes, nil
}

var _ ports.LikeRepository = (*LikeRepository)(nil)
