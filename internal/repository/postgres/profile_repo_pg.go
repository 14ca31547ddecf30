package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
)

type ProfileRepository struct {
	db *sqlx.DB
}

func NewProfileRepo(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `
		p.id,
		p.username,
		p.full_name,
		p.avatar_url,
		p.bio,
		p.location,
		p.created_at,
		p.updated_at,
		(SELECT COUNT(*) FROM follows f WHERE f.followed_id = p.id) AS followers_count,
		(SELECT COUNT(*) FROM follows f WHERE f.follower_id = p.id) AS following_count
`

func (r *ProfileRepository) EnsureExists(ctx context.Context, userID uuid.UUID, defaultUsername string) (*domain.Profile, error) {
	const insert = `
		INSERT INTO profiles (id, username)
		VALUES ($1, $2)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, insert, userID, defaultUsername); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, userID)
}

func (r *ProfileRepository) FindByID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE p.id = $1`
	var profile domain.Profile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) FindByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles p WHERE p.username = $1`
	var profile domain.Profile
	if err := r.db.GetContext(ctx, &profile, query, username); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Update(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	const query = `
		UPDATE profiles
		SET username = COALESCE($2, username),
		    full_name = COALESCE($3, full_name),
		    avatar_url = COALESCE($4, avatar_url),
		    bio = COALESCE($5, bio),
		    location = COALESCE($6, location),
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, userID, update.Username, update.FullName, update.AvatarURL, update.Bio, update.Location)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, sql.ErrNoRows
	}
	return r.FindByID(ctx, userID)
}

var _ ports.ProfileRepository = (*ProfileRepository)(nil)
