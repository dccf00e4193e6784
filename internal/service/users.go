package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/inventory-console/internal/model"
	"github.com/mmeshcher/inventory-console/internal/repository"
	"github.com/mmeshcher/inventory-console/internal/validation"
)

// Signup регистрирует первого пользователя системы с ролью admin.
// Остальных пользователей создаёт администратор через CreateUser.
func (s *Service) Signup(ctx context.Context, req model.SignupRequest) (model.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return model.User{}, err
	}
	if len(users) > 0 {
		return model.User{}, ErrSignupClosed
	}

	req.Role = model.RoleAdmin
	return s.CreateUser(ctx, req)
}

// CreateUser создаёт пользователя с указанной ролью.
func (s *Service) CreateUser(ctx context.Context, req model.SignupRequest) (model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(req); err != nil {
		return model.User{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.repo.CreateUser(ctx, model.User{
		ID:    uuid.NewString(),
		Name:  strings.TrimSpace(req.Name),
		Email: req.Email,
		Role:  req.Role,
	}, hash)
	if err != nil {
		return model.User{}, err
	}

	s.logger.Info("user created", zap.String("id", u.ID), zap.String("role", string(u.Role)))
	return u, nil
}

// AuthenticateUser проверяет email и пароль пользователя.
func (s *Service) AuthenticateUser(ctx context.Context, email, password string) (model.User, error) {
	stored, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrInvalidCredentials
		}
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(stored.PasswordHash, []byte(password)); err != nil {
		return model.User{}, ErrInvalidCredentials
	}

	return stored.User, nil
}

// GetUser возвращает пользователя по идентичности.
func (s *Service) GetUser(ctx context.Context, id string) (model.User, error) {
	return s.repo.GetUser(ctx, id)
}

// ListUsers возвращает всех пользователей.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

// UpdateUser изменяет имя, email или роль пользователя.
func (s *Service) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (model.User, error) {
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if patch.Name != nil {
		u.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if !validation.IsValidEmail(email) {
			return model.User{}, fmt.Errorf("%w: invalid email %q", ErrValidation, email)
		}
		u.Email = email
	}
	if patch.Role != nil {
		if !patch.Role.Valid() {
			return model.User{}, fmt.Errorf("%w: unknown role %q", ErrValidation, *patch.Role)
		}
		u.Role = *patch.Role
	}

	return s.repo.UpdateUser(ctx, u)
}

// DeleteUser удаляет пользователя.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	return s.repo.DeleteUser(ctx, id)
}
