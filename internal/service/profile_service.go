package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meenatech/ghumakad-api/internal/domain"
	"github.com/meenatech/ghumakad-api/internal/media"
	"github.com/meenatech/ghumakad-api/internal/repository/ports"
)

const avatarMaxDimension = 512

type ProfileService struct {
	profiles  ports.ProfileRepository
	storage   ports.ObjectStorage
	processor media.Processor
	bucket    string
}

func NewProfileService(profiles ports.ProfileRepository, storage ports.ObjectStorage, processor media.Processor, bucket string) *ProfileService {
	return &ProfileService{profiles: profiles, storage: storage, processor: processor, bucket: bucket}
}

// GetOrCreate returns the caller's profile, creating a default row on the
// first read.
func (s *ProfileService) GetOrCreate(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, err := s.profiles.EnsureExists(ctx, userID, defaultUsername(userID))
	if err != nil {
		return nil, fmt.Errorf("ensure profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	profile, err := s.profiles.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, update domain.ProfileUpdate) (*domain.Profile, error) {
	if update.Username != nil {
		trimmed := strings.TrimSpace(*update.Username)
		if trimmed == "" {
			return nil, fmt.Errorf("username cannot be empty")
		}
		update.Username = &trimmed
	}

	profile, err := s.profiles.Update(ctx, userID, update)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		if isNotFound(err) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// UploadAvatar processes and stores a new avatar, then points the profile at
// its public URL.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID uuid.UUID, upload media.Upload) (*domain.Profile, error) {
	processed, err := s.processor.Process(ctx, upload, avatarMaxDimension)
	if err != nil {
		return nil, fmt.Errorf("process avatar: %w", err)
	}

	objectName := fmt.Sprintf("avatars/%s%s", userID, extensionFor(processed.ContentType))
	url, err := s.storage.Upload(ctx, s.bucket, objectName, processed.ContentType,
		bytes.NewReader(processed.Bytes), int64(len(processed.Bytes)))
	if err != nil {
		return nil, fmt.Errorf("store avatar: %w", err)
	}

	return s.Update(ctx, userID, domain.ProfileUpdate{AvatarURL: &url})
}

func defaultUsername(userID uuid.UUID) string {
	return "traveler_" + strings.ReplaceAll(userID.String(), "-", "")[:8]
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
