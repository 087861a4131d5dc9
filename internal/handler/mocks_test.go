package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/mock"

	"profileauth/internal/auth"
	"profileauth/internal/service"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) error {
	args := m.Called(ctx, username, email, password)
	return args.Error(0)
}

func (m *MockAuthService) Login(ctx context.Context, usernameOrEmail, password string) (*auth.SignedToken, error) {
	args := m.Called(ctx, usernameOrEmail, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.SignedToken), args.Error(1)
}

// MockProfileService is a mock implementation of service.ProfileService.
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, identity auth.Identity) (*service.ProfileView, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfileView), args.Error(1)
}

func (m *MockProfileService) UpdateUsername(ctx context.Context, identity auth.Identity, newUsername string) error {
	args := m.Called(ctx, identity, newUsername)
	return args.Error(0)
}

func (m *MockProfileService) UploadProfilePicture(ctx context.Context, identity auth.Identity, data []byte, fileName string) error {
	args := m.Called(ctx, identity, data, fileName)
	return args.Error(0)
}

func (m *MockProfileService) RemoveProfilePicture(ctx context.Context, identity auth.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockProfileService) FetchProfilePicture(ctx context.Context, identity auth.Identity) (*service.ProfilePicture, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfilePicture), args.Error(1)
}
