package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"profileauth/internal/db/dbtest"
	"profileauth/internal/model"
)

func newUser(name, email string) *model.User {
	return &model.User{
		Username:           name,
		NormalizedUsername: name,
		Email:              email,
		PasswordHash:       "hash",
	}
}

func createRole(t *testing.T, roles RoleRepository, name string) *model.Role {
	t.Helper()
	role := &model.Role{Name: name}
	require.NoError(t, roles.Create(context.Background(), role))
	return role
}

func TestUserRepository_CreateAndFind(t *testing.T) {
	gormDB := dbtest.New(t)
	repo := NewUserRepository(gormDB)
	roles := NewRoleRepository(gormDB)
	ctx := context.Background()

	role := createRole(t, roles, model.RoleUser)
	user := newUser("alice", "alice@example.com")
	user.Username = "Alice"
	user.Roles = []model.Role{*role}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotEqual(t, uuid.Nil, user.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Username)
	assert.Equal(t, []string{model.RoleUser}, byID.RoleNames())

	byName, err := repo.FindByNormalizedUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	byEmail, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = repo.FindByEmail(ctx, "ALICE@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	gormDB := dbtest.New(t)
	repo := NewUserRepository(gormDB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newUser("alice", "alice@example.com")))

	err := repo.Create(ctx, newUser("alice", "other@example.com"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = repo.Create(ctx, newUser("bob", "alice@example.com"))
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_UpdateUsername(t *testing.T) {
	gormDB := dbtest.New(t)
	repo := NewUserRepository(gormDB)
	ctx := context.Background()

	user := newUser("alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, user))
	require.NoError(t, repo.Create(ctx, newUser("bob", "bob@example.com")))

	require.NoError(t, repo.UpdateUsername(ctx, user.ID, "Alicia", "alicia"))
	got, err := repo.FindByNormalizedUsername(ctx, "alicia")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", got.Username)

	_, err = repo.FindByNormalizedUsername(ctx, "alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	err = repo.UpdateUsername(ctx, user.ID, "Bob", "bob")
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepository_UpdateProfileImage(t *testing.T) {
	gormDB := dbtest.New(t)
	repo := NewUserRepository(gormDB)
	ctx := context.Background()

	user := newUser("alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, user))

	image := []byte{0x89, 0x50, 0x4E, 0x47, 0x01}
	require.NoError(t, repo.UpdateProfileImage(ctx, user.ID, image))
	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, image, got.ProfileImage)

	require.NoError(t, repo.UpdateProfileImage(ctx, user.ID, nil))
	got, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, got.HasProfileImage())
}

func TestUserRepository_RolesAndDelete(t *testing.T) {
	gormDB := dbtest.New(t)
	repo := NewUserRepository(gormDB)
	roles := NewRoleRepository(gormDB)
	ctx := context.Background()

	userRole := createRole(t, roles, model.RoleUser)
	adminRole := createRole(t, roles, model.RoleAdmin)

	bob := newUser("bob", "bob@example.com")
	alice := newUser("alice", "alice@example.com")
	require.NoError(t, repo.Create(ctx, bob))
	require.NoError(t, repo.Create(ctx, alice))

	require.NoError(t, repo.AddRole(ctx, bob.ID, userRole))
	require.NoError(t, repo.AddRole(ctx, alice.ID, userRole))
	require.NoError(t, repo.AddRole(ctx, alice.ID, userRole))
	require.NoError(t, repo.AddRole(ctx, alice.ID, adminRole))

	members, err := repo.ListByRole(ctx, model.RoleUser)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "alice", members[0].Username)
	assert.Equal(t, "bob", members[1].Username)

	admins, err := repo.ListByRole(ctx, model.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, alice.ID, admins[0].ID)

	require.NoError(t, repo.Delete(ctx, alice.ID))
	_, err = repo.FindByID(ctx, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var memberships int64
	require.NoError(t, gormDB.Table("user_roles").Count(&memberships).Error)
	assert.Equal(t, int64(1), memberships)

	err = repo.Delete(ctx, alice.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_WithTransactionRollsBack(t *testing.T) {
	gormDB := dbtest.New(t)
	repo := NewUserRepository(gormDB)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.WithTransaction(ctx, func(ctx context.Context, tx UserRepository) error {
		if err := tx.Create(ctx, newUser("alice", "alice@example.com")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = repo.FindByNormalizedUsername(ctx, "alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoleRepository(t *testing.T) {
	gormDB := dbtest.New(t)
	roles := NewRoleRepository(gormDB)
	ctx := context.Background()

	created := createRole(t, roles, model.RoleAdmin)

	found, err := roles.FindByName(ctx, model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	err = roles.Create(ctx, &model.Role{Name: model.RoleAdmin})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	_, err = roles.FindByName(ctx, "Missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
