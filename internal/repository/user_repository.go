package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"profileauth/internal/model"
)

// UserRepository defines user persistence operations. Lookups return
// gorm.ErrRecordNotFound when nothing matches and unique violations surface as
// gorm.ErrDuplicatedKey.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByNormalizedUsername(ctx context.Context, normalized string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUsername(ctx context.Context, id uuid.UUID, username, normalized string) error
	UpdateProfileImage(ctx context.Context, id uuid.UUID, image []byte) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error
	AddRole(ctx context.Context, id uuid.UUID, role *model.Role) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByRole(ctx context.Context, roleName string) ([]model.User, error)
	List(ctx context.Context) ([]model.User, error)
	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user together with its role memberships. Roles must
// already exist; only the user_roles references are written for them.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Omit("Roles.*").Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByNormalizedUsername(ctx context.Context, normalized string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("normalized_username = ?", normalized).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username, normalized string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"username":            username,
			"normalized_username": normalized,
		}).Error
}

// UpdateProfileImage replaces the stored image. A nil image clears it.
func (r *userRepository) UpdateProfileImage(ctx context.Context, id uuid.UUID, image []byte) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("profile_image", image).Error
}

func (r *userRepository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}

// AddRole adds a membership. Adding an existing membership is a no-op.
func (r *userRepository) AddRole(ctx context.Context, id uuid.UUID, role *model.Role) error {
	return r.db.WithContext(ctx).Model(&model.User{ID: id}).Association("Roles").Append(role)
}

// Delete removes the user and its role memberships.
func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Select("Roles").Delete(&model.User{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListByRole lists members of the named role ordered by username.
func (r *userRepository) ListByRole(ctx context.Context, roleName string) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN user_roles ON user_roles.user_id = users.id").
		Joins("JOIN roles ON roles.id = user_roles.role_id").
		Where("roles.name = ?", roleName).
		Order("users.normalized_username").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// List returns every user with roles, ordered by username.
func (r *userRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Preload("Roles").Order("normalized_username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// WithTransaction executes a function within a database transaction.
func (r *userRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo UserRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &userRepository{db: tx}
		return fn(ctx, txRepo)
	})
}
