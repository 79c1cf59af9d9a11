package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"facility-tickets/internal/dto"
	"facility-tickets/internal/entities"
	"facility-tickets/internal/repositories"
	"facility-tickets/pkg/constants"
	apperrors "facility-tickets/pkg/errors"
	"facility-tickets/pkg/utils"
)

type UserServiceInterface interface {
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	_, err := s.userRepo.FindUserByUsername(ctx, payload.Username)
	if err == nil {
		return nil, apperrors.NewConflictError("Username already exists")
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewInternalError("Failed to create user", err)
	}

	hashed, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to create user", err)
	}

	role := payload.Role
	if role == "" {
		role = constants.RoleUser
	}

	user, err := s.userRepo.CreateUser(ctx, entities.User{
		Username: payload.Username,
		Password: hashed,
		FullName: payload.FullName,
		Role:     role,
	})
	if err != nil {
		return nil, apperrors.NewInternalError("Failed to create user", err)
	}
	s.logger.Info("user created", zap.Uint64("id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	user, err := s.userRepo.FindUser(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("User not found")
		}
		return nil, apperrors.NewInternalError("Failed to get user", err)
	}
	return user, nil
}
