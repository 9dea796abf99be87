package service

import (
	"context"
	"strings"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
)

// CreateUserInput represents the input for creating a user
type CreateUserInput struct {
	ID       string
	Name     string
	Role     string
	Region   string
	Language string
}

// UserService handles user accounts and preferences
type UserService struct {
	users UserRepositoryInterface
}

// NewUserService creates a new UserService instance
func NewUserService(users UserRepositoryInterface) *UserService {
	return &UserService{users: users}
}

// Create validates and stores a new user.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		ID:       strings.TrimSpace(input.ID),
		Name:     strings.TrimSpace(input.Name),
		Role:     role,
		Region:   domain.NormalizeRegion(input.Region),
		Language: strings.TrimSpace(input.Language),
	}
	if user.Language == "" {
		user.Language = domain.DefaultLanguage
	}
	if err := domain.ValidateUser(user); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, domain.StorageError("create user", err)
	}
	return user, nil
}

// Get resolves a user id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrUnknownUser
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError("get user", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, domain.StorageError("list users", err)
	}
	return users, nil
}

// SetLanguage changes the language answers are written in.
func (s *UserService) SetLanguage(ctx context.Context, user *domain.User, language string) (*domain.User, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return nil, domain.ErrMissingRequiredField
	}
	if err := s.users.UpdateLanguage(ctx, user.ID, language); err != nil {
		return nil, domain.StorageError("update language", err)
	}
	updated := *user
	updated.Language = language
	return &updated, nil
}
