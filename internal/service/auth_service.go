package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/idtoken"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
	"github.com/meenatech/ghumakad-api/internal/util"
)

// ResetMailer delivers a one-time password reset code to the account's email.
type ResetMailer interface {
	SendPasswordResetOTP(ctx context.Context, email, otp string, ttl time.Duration) error
}

type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	resets   ports.PasswordResetRepository
	jwt      *util.JWTManager
	mailer   ResetMailer

	googleAudience string
	resetTTL       time.Duration
	otpLength      int

	now          func() time.Time
	verifyGoogle func(ctx context.Context, idToken, audience string) (string, error)
}

func NewAuthService(
	users ports.UserRepository,
	sessions ports.SessionRepository,
	resets ports.PasswordResetRepository,
	jwtManager *util.JWTManager,
	mailer ResetMailer,
	googleAudience string,
	resetTTL time.Duration,
	otpLength int,
) *AuthService {
	if resetTTL <= 0 {
		resetTTL = 15 * time.Minute
	}
	if otpLength <= 0 {
		otpLength = 6
	}
	return &AuthService{
		users:          users,
		sessions:       sessions,
		resets:         resets,
		jwt:            jwtManager,
		mailer:         mailer,
		googleAudience: googleAudience,
		resetTTL:       resetTTL,
		otpLength:      otpLength,
		now:            time.Now,
		verifyGoogle:   verifyGoogleIDToken,
	}
}

func (s *AuthService) RegisterWithEmail(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	if err := util.ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, salt, err := util.DerivePassword(password)
	if err != nil {
		return nil, fmt.Errorf("derive password: %w", err)
	}

	user, err := s.users.CreateEmailUser(ctx, email, hash, salt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueSession(ctx, user)
}

func (s *AuthService) LoginWithEmail(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.issueSession(ctx, user)
}

// LoginWithGoogle verifies the Google-issued ID token and signs the holder in,
// creating the account on first sight.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (*AuthResult, error) {
	email, err := s.verifyGoogle(ctx, idToken, s.googleAudience)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.UpsertGoogleUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("upsert google user: %w", err)
	}
	return s.issueSession(ctx, user)
}

// Authenticate resolves a bearer token to its user. The token must both parse
// and correspond to a session that has not been revoked.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, ErrSessionExpired
	}

	if _, err := s.sessions.FindActiveSession(ctx, token); err != nil {
		if isNotFound(err) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("find session: %w", err)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.sessions.DeactivateSession(ctx, token); err != nil && !isNotFound(err) {
		return fmt.Errorf("deactivate session: %w", err)
	}
	return nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if !util.VerifyPassword(current, user.PasswordSalt, user.PasswordHash) {
		return ErrInvalidCredentials
	}
	if err := util.ValidatePassword(next); err != nil {
		return err
	}

	hash, salt, err := util.DerivePassword(next)
	if err != nil {
		return fmt.Errorf("derive password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hash, salt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// RequestPasswordReset issues a fresh OTP for the account. An unknown email
// returns nil so the endpoint cannot be used to probe for accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("find user: %w", err)
	}

	// Only one code may be live per account.
	if err := s.resets.ConsumeByUser(ctx, user.ID); err != nil && !isNotFound(err) {
		return fmt.Errorf("consume prior resets: %w", err)
	}

	otp, err := util.GenerateNumericOTP(s.otpLength)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	hash, salt, err := util.DerivePassword(otp)
	if err != nil {
		return fmt.Errorf("derive otp: %w", err)
	}

	expiresAt := s.now().Add(s.resetTTL)
	if _, err := s.resets.Create(ctx, user.ID, hash, salt, expiresAt); err != nil {
		return fmt.Errorf("store reset: %w", err)
	}

	if err := s.mailer.SendPasswordResetOTP(ctx, user.Email, otp, s.resetTTL); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, otp, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if isNotFound(err) {
			return ErrOTPInvalid
		}
		return fmt.Errorf("find user: %w", err)
	}

	reset, err := s.resets.FindActiveByUser(ctx, user.ID, s.now())
	if err != nil {
		if isNotFound(err) {
			return ErrOTPInvalid
		}
		return fmt.Errorf("find reset: %w", err)
	}
	if !util.VerifyPassword(otp, reset.OTPSalt, reset.OTPHash) {
		return ErrOTPInvalid
	}

	if err := util.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, salt, err := util.DerivePassword(newPassword)
	if err != nil {
		return fmt.Errorf("derive password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash, salt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if err := s.resets.MarkConsumed(ctx, reset.ID); err != nil {
		return fmt.Errorf("consume reset: %w", err)
	}
	return nil
}

func (s *AuthService) issueSession(ctx context.Context, user *domain.User) (*AuthResult, error) {
	token, expiresAt, err := s.jwt.Generate(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	if _, err := s.sessions.CreateSession(ctx, user.ID, token, expiresAt); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func verifyGoogleIDToken(ctx context.Context, token, audience string) (string, error) {
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return "", err
	}
	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return "", fmt.Errorf("google token has no email claim")
	}
	return email, nil
}
