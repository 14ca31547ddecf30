package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
)

type PostRepository struct {
	db *sqlx.DB
}

func NewPostRepo(db *sqlx.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	const query = `
		INSERT INTO posts (user_id, content, image_url, location_name)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, content, image_url, location_name, created_at
	`
	row := r.db.QueryRowxContext(ctx, query, post.UserID, post.Content, post.ImageURL, post.LocationName)
	var stored domain.Post
	if err := row.StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *PostRepository) ListRecent(ctx context.Context, limit, offset int) ([]domain.PostWithAuthor, error) {
	const query = `
		SELECT
			po.id,
			po.user_id,
			po.content,
			po.image_url,
			po.location_name,
			po.created_at,
			pr.username AS author_username,
			pr.full_name AS author_full_name,
			pr.avatar_url AS author_avatar_url
		FROM posts po
		JOIN profiles pr ON pr.id = po.user_id
		ORDER BY po.created_at DESC, po.id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryxContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.PostWithAuthor, 0)
	for rows.Next() {
		var post domain.PostWithAuthor
		if err := rows.StructScan(&post); err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *PostRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	const query = `
		DELETE FROM posts
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

var _ ports.PostRepository = (*PostRepository)(nil)
