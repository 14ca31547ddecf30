package service

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrSessionExpired     = errors.New("session is expired or revoked")
	ErrOTPInvalid         = errors.New("reset code is invalid or expired")

	ErrItineraryNotFound = errors.New("itinerary not found")
	ErrPostNotFound      = errors.New("post not found")
	ErrProfileNotFound   = errors.New("profile not found")
	ErrUsernameTaken     = errors.New("username is already taken")
	ErrSelfFollow        = errors.New("cannot follow yourself")
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
