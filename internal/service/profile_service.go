package service

import (
	"context"
	"errors"
	"time"

	"profileauth/internal/auth"
	"profileauth/internal/cache"
	apperrors "profileauth/internal/errors"
	"profileauth/internal/logger"
	"profileauth/internal/model"
)

const profileCacheTTL = 5 * time.Minute

// ProfileView is the public view of a user's profile.
type ProfileView struct {
	Username          string `json:"username"`
	Email             string `json:"email"`
	HasProfilePicture bool   `json:"hasProfilePicture"`
}

// ProfilePicture is a stored image with its sniffed content type.
type ProfilePicture struct {
	Data        []byte
	ContentType string
}

// ProfileService manages the profile of the authenticated caller.
type ProfileService interface {
	GetProfile(ctx context.Context, identity auth.Identity) (*ProfileView, error)
	UpdateUsername(ctx context.Context, identity auth.Identity, newUsername string) error
	UploadProfilePicture(ctx context.Context, identity auth.Identity, data []byte, fileName string) error
	RemoveProfilePicture(ctx context.Context, identity auth.Identity) error
	FetchProfilePicture(ctx context.Context, identity auth.Identity) (*ProfilePicture, error)
}

type profileService struct {
	store CredentialStore
	cache *cache.Client
}

// NewProfileService builds a ProfileService that reads profile views through
// cache, which may be nil. Views are dropped by the CredentialStore, so the
// store must be built WithProfileCache on the same client.
func NewProfileService(store CredentialStore, cache *cache.Client) ProfileService {
	return &profileService{store: store, cache: cache}
}

func profileCacheKey(username string) string {
	return "profile:" + NormalizeUsername(username)
}

func (s *profileService) GetProfile(ctx context.Context, identity auth.Identity) (*ProfileView, error) {
	var cached ProfileView
	if s.cache.GetJSON(ctx, profileCacheKey(identity.Username), &cached) {
		return &cached, nil
	}

	user, err := s.store.FindByUsername(ctx, identity.Username)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		Username:          user.Username,
		Email:             user.Email,
		HasProfilePicture: user.HasProfileImage(),
	}
	_ = s.cache.SetJSON(ctx, profileCacheKey(identity.Username), view, profileCacheTTL)
	return view, nil
}

// UpdateUsername renames the caller. A case-insensitive match with the current
// name succeeds without touching the store.
func (s *profileService) UpdateUsername(ctx context.Context, identity auth.Identity, newUsername string) error {
	if newUsername == "" {
		return validationError("username is required")
	}

	user, err := s.store.FindByUsername(ctx, identity.Username)
	if err != nil {
		return err
	}
	if NormalizeUsername(newUsername) == user.NormalizedUsername {
		return nil
	}

	if err := s.store.UpdateProfile(ctx, user.ID, &newUsername); err != nil {
		return err
	}
	logger.Infof("user %s changed username", user.ID)
	return nil
}

func (s *profileService) UploadProfilePicture(ctx context.Context, identity auth.Identity, data []byte, fileName string) error {
	user, err := s.store.FindByUsername(ctx, identity.Username)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return validationError("no file was uploaded")
	}
	if err := ValidateImageUpload(fileName, len(data)); err != nil {
		return err
	}

	return s.store.SetProfileImage(ctx, user.ID, data)
}

func (s *profileService) RemoveProfilePicture(ctx context.Context, identity auth.Identity) error {
	user, err := s.store.FindByUsername(ctx, identity.Username)
	if err != nil {
		return err
	}
	return s.store.SetProfileImage(ctx, user.ID, nil)
}

// FetchProfilePicture returns the stored image. Every failure, including a
// store failure, is reported as ErrNotFound.
func (s *profileService) FetchProfilePicture(ctx context.Context, identity auth.Identity) (*ProfilePicture, error) {
	user, err := s.store.FindByUsername(ctx, identity.Username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Errorf("fetch profile picture: %v", err)
		}
		return nil, apperrors.ErrNotFound
	}
	return pictureOf(user)
}

func pictureOf(user *model.User) (*ProfilePicture, error) {
	if !user.HasProfileImage() {
		return nil, apperrors.ErrNotFound
	}
	return &ProfilePicture{
		Data:        user.ProfileImage,
		ContentType: DetectImageContentType(user.ProfileImage),
	}, nil
}
