package user

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/hotelbook/hotel-api/internal/pkg/imaging"
	"github.com/hotelbook/hotel-api/internal/pkg/logger"
	"github.com/hotelbook/hotel-api/internal/pkg/storage"
)

// MaxPictureSize is the upload limit for profile pictures
const MaxPictureSize = 5 << 20

// Service handles profile business logic
type Service struct {
	repo    Repository
	storage storage.Storage
	images  *imaging.Processor
}

// NewService creates user service
func NewService(repo Repository, store storage.Storage, images *imaging.Processor) *Service {
	return &Service{
		repo:    repo,
		storage: store,
		images:  images,
	}
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// GetProfile returns the current user's profile
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.ToProfile(), nil
}

// UploadProfilePicture crops the image to a square, stores it and replaces
// the previous picture. Returns the new public URL.
func (s *Service) UploadProfilePicture(ctx context.Context, id uuid.UUID, file io.Reader) (string, error) {
	u, err := s.get(ctx, id)
	if err != nil {
		return "", err
	}

	data, _, err := storage.ValidateFile(file, storage.ImageMimeTypes, MaxPictureSize)
	if err != nil {
		return "", err
	}

	processed, err := s.images.Fill(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidImage, err)
	}

	key := fmt.Sprintf("profile-pictures/%s/%s.jpg", id, uuid.New())
	if err := s.storage.Put(ctx, key, bytes.NewReader(processed), s.images.ContentType()); err != nil {
		return "", fmt.Errorf("store profile picture: %w", err)
	}

	url := s.storage.GetURL(key)
	if err := s.repo.UpdateProfilePicture(ctx, id, url); err != nil {
		s.deleteObject(ctx, key)
		return "", err
	}

	s.deletePicture(ctx, u.ProfilePicture)
	return url, nil
}

// RemoveProfilePicture clears the picture and deletes the stored object
func (s *Service) RemoveProfilePicture(ctx context.Context, id uuid.UUID) error {
	u, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if u.ProfilePicture == "" {
		return ErrNoProfilePicture
	}

	if err := s.repo.UpdateProfilePicture(ctx, id, ""); err != nil {
		return err
	}
	s.deletePicture(ctx, u.ProfilePicture)
	return nil
}

// DeleteAccount removes the user. Their bookings are kept.
func (s *Service) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	u, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.deletePicture(ctx, u.ProfilePicture)
	return nil
}

// deletePicture is best effort; pictures hosted elsewhere are left alone
func (s *Service) deletePicture(ctx context.Context, url string) {
	if url == "" {
		return
	}
	key, ok := s.storage.KeyFromURL(url)
	if !ok {
		return
	}
	s.deleteObject(ctx, key)
}

func (s *Service) deleteObject(ctx context.Context, key string) {
	if err := s.storage.Delete(ctx, key); err != nil {
		logger.LogWarn(ctx, "profile picture cleanup failed", "key", key, "error", err.Error())
	}
}
