package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"gorm.io/gorm"

	"profileauth/internal/auth"
	"profileauth/internal/cache"
	apperrors "profileauth/internal/errors"
	"profileauth/internal/logger"
	"profileauth/internal/model"
	"profileauth/internal/repository"
)

// NormalizeUsername returns the case-folded form used for username lookups
// and uniqueness.
func NormalizeUsername(name string) string {
	return cases.Fold().String(name)
}

// CredentialStore owns persisted user records. Username lookups are
// case-insensitive; email lookups are exact.
type CredentialStore interface {
	FindByUsername(ctx context.Context, name string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// Create persists a new user in the default User role.
	Create(ctx context.Context, user *model.User, password string) (*model.User, error)
	// CreateInRoles persists a new user in exactly the given roles.
	CreateInRoles(ctx context.Context, user *model.User, password string, roles ...string) (*model.User, error)
	ResetPassword(ctx context.Context, id uuid.UUID, password string) error
	UpdateProfile(ctx context.Context, id uuid.UUID, newUsername *string) error
	SetProfileImage(ctx context.Context, id uuid.UUID, image []byte) error
	Delete(ctx context.Context, id uuid.UUID) error
	// VerifyPassword reports whether password matches the user's hash. A nil
	// user still costs one hash comparison and always fails.
	VerifyPassword(user *model.User, password string) bool
	AddToRole(ctx context.Context, id uuid.UUID, role string) error
	UsersInRole(ctx context.Context, role string) ([]model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type credentialStore struct {
	users    repository.UserRepository
	roles    RoleService
	hasher   auth.PasswordHasher
	profiles *cache.Client

	dummyOnce sync.Once
	dummyHash string
}

// StoreOption customizes a CredentialStore.
type StoreOption func(*credentialStore)

// WithProfileCache makes every mutation drop the cached profile views it
// affects. Pass the client the ProfileService reads from.
func WithProfileCache(c *cache.Client) StoreOption {
	return func(s *credentialStore) { s.profiles = c }
}

// NewCredentialStore creates a credential store over the given repositories.
func NewCredentialStore(users repository.UserRepository, roles RoleService, hasher auth.PasswordHasher, opts ...StoreOption) CredentialStore {
	s := &credentialStore{users: users, roles: roles, hasher: hasher}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// forget drops the cached profile views of usernames.
func (s *credentialStore) forget(ctx context.Context, usernames ...string) {
	keys := make([]string, len(usernames))
	for i, name := range usernames {
		keys[i] = profileCacheKey(name)
	}
	_ = s.profiles.Delete(ctx, keys...)
}

func (s *credentialStore) FindByUsername(ctx context.Context, name string) (*model.User, error) {
	user, err := s.users.FindByNormalizedUsername(ctx, NormalizeUsername(name))
	if err != nil {
		return nil, lookupError("find user by username", err)
	}
	return user, nil
}

func (s *credentialStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, lookupError("find user by email", err)
	}
	return user, nil
}

func (s *credentialStore) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError("find user", err)
	}
	return user, nil
}

func (s *credentialStore) Create(ctx context.Context, user *model.User, password string) (*model.User, error) {
	return s.CreateInRoles(ctx, user, password, model.RoleUser)
}

func (s *credentialStore) CreateInRoles(ctx context.Context, user *model.User, password string, roles ...string) (*model.User, error) {
	switch {
	case user.Username == "":
		return nil, validationError("username is required")
	case user.Email == "":
		return nil, validationError("email is required")
	case password == "":
		return nil, validationError("password is required")
	}

	normalized := NormalizeUsername(user.Username)
	if err := s.checkAvailable(ctx, normalized, user.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	memberships := make([]model.Role, 0, len(roles))
	for _, name := range roles {
		role, err := s.roles.EnsureRole(ctx, name)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, *role)
	}

	user.NormalizedUsername = normalized
	user.PasswordHash = hash
	user.Roles = memberships

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.classifyDuplicate(ctx, normalized)
		}
		return nil, storeError("create user", err)
	}

	// a previous account under this name may still have a cached view
	s.forget(ctx, user.Username)
	logger.Infof("registered user %s", user.ID)
	return user, nil
}

func (s *credentialStore) checkAvailable(ctx context.Context, normalized, email string) error {
	_, err := s.users.FindByNormalizedUsername(ctx, normalized)
	if err == nil {
		return apperrors.ErrDuplicateUsername
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return storeError("check username", err)
	}

	_, err = s.users.FindByEmail(ctx, email)
	if err == nil {
		return apperrors.ErrDuplicateEmail
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return storeError("check email", err)
	}
	return nil
}

// classifyDuplicate names the column a concurrent insert won on.
func (s *credentialStore) classifyDuplicate(ctx context.Context, normalized string) error {
	if _, err := s.users.FindByNormalizedUsername(ctx, normalized); err == nil {
		return apperrors.ErrDuplicateUsername
	}
	return apperrors.ErrDuplicateEmail
}

func (s *credentialStore) UpdateProfile(ctx context.Context, id uuid.UUID, newUsername *string) error {
	if newUsername == nil {
		return nil
	}
	if *newUsername == "" {
		return validationError("username is required")
	}
	normalized := NormalizeUsername(*newUsername)

	var previous string
	err := s.users.WithTransaction(ctx, func(ctx context.Context, repo repository.UserRepository) error {
		user, err := repo.FindByID(ctx, id)
		if err != nil {
			return lookupError("find user", err)
		}
		if user.NormalizedUsername == normalized {
			return nil
		}

		other, err := repo.FindByNormalizedUsername(ctx, normalized)
		switch {
		case err == nil && other.ID != id:
			return apperrors.ErrUsernameTaken
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return storeError("check username", err)
		}

		if err := repo.UpdateUsername(ctx, id, *newUsername, normalized); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrUsernameTaken
			}
			return storeError("update username", err)
		}
		previous = user.Username
		return nil
	})
	if err != nil {
		return err
	}
	if previous != "" {
		s.forget(ctx, previous, *newUsername)
	}
	return nil
}

// SetProfileImage replaces the stored image, or clears it when image is empty.
func (s *credentialStore) SetProfileImage(ctx context.Context, id uuid.UUID, image []byte) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if len(image) == 0 {
		image = nil
	}
	if err := s.users.UpdateProfileImage(ctx, id, image); err != nil {
		return storeError("update profile image", err)
	}
	s.forget(ctx, user.Username)
	return nil
}

// ResetPassword replaces the user's password hash.
func (s *credentialStore) ResetPassword(ctx context.Context, id uuid.UUID, password string) error {
	if password == "" {
		return validationError("password is required")
	}
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, id, hash); err != nil {
		return storeError("update password", err)
	}
	logger.Infof("reset password of user %s", id)
	return nil
}

func (s *credentialStore) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return lookupError("delete user", err)
	}
	s.forget(ctx, user.Username)
	logger.Infof("deleted user %s", id)
	return nil
}

func (s *credentialStore) VerifyPassword(user *model.User, password string) bool {
	if user == nil {
		s.dummyOnce.Do(func() {
			s.dummyHash, _ = s.hasher.Hash(uuid.NewString())
		})
		s.hasher.Verify(s.dummyHash, password)
		return false
	}
	return s.hasher.Verify(user.PasswordHash, password)
}

// AddToRole adds the user to role, creating the role if needed. Repeated
// calls are no-ops.
func (s *credentialStore) AddToRole(ctx context.Context, id uuid.UUID, role string) error {
	if _, err := s.FindByID(ctx, id); err != nil {
		return err
	}
	r, err := s.roles.EnsureRole(ctx, role)
	if err != nil {
		return err
	}
	if err := s.users.AddRole(ctx, id, r); err != nil {
		return storeError("add role", err)
	}
	return nil
}

func (s *credentialStore) UsersInRole(ctx context.Context, role string) ([]model.User, error) {
	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, storeError("list users in role", err)
	}
	return users, nil
}

// List returns every user ordered by normalized username.
func (s *credentialStore) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeError("list users", err)
	}
	return users, nil
}
