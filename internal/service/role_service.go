package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"profileauth/internal/logger"
	"profileauth/internal/model"
	"profileauth/internal/repository"
)

// RoleService bootstraps roles on first use.
type RoleService interface {
	// EnsureRole returns the named role, creating it if it does not exist yet.
	EnsureRole(ctx context.Context, name string) (*model.Role, error)
	// SeedRoles ensures the built-in roles exist.
	SeedRoles(ctx context.Context) error
}

type roleService struct {
	repo repository.RoleRepository
}

// NewRoleService creates a new role service.
func NewRoleService(repo repository.RoleRepository) RoleService {
	return &roleService{repo: repo}
}

func (s *roleService) EnsureRole(ctx context.Context, name string) (*model.Role, error) {
	role, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError("find role", err)
	}

	role = &model.Role{Name: name}
	if err := s.repo.Create(ctx, role); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, storeError("create role", err)
		}
		// Lost the race to a concurrent creator; use its row.
		winner, err := s.repo.FindByName(ctx, name)
		if err != nil {
			return nil, storeError("find role", err)
		}
		return winner, nil
	}

	logger.Infof("created role %s", name)
	return role, nil
}

func (s *roleService) SeedRoles(ctx context.Context) error {
	for _, name := range []string{model.RoleAdmin, model.RoleUser} {
		if _, err := s.EnsureRole(ctx, name); err != nil {
			return err
		}
	}
	return nil
}
