package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt"
	"github.com/jackc/pgx/v5"
)

type UserServiceImpl struct {
	user.UserRepository
}

func NewUserService(userRepository user.UserRepository) user.UserService {
	return &UserServiceImpl{UserRepository: userRepository}
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, filter user.UserFilter) ([]user.UserResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var (
		users []user.User
		err   error
	)
	if filter.TeamID != nil {
		users, err = s.UserRepository.ListByTeam(ctx, *filter.TeamID)
	} else {
		users, err = s.UserRepository.List(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		if filter.Role != nil && string(u.Role) != *filter.Role {
			continue
		}
		responses = append(responses, user.NewUserResponse(u))
	}
	return responses, nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, id string) (user.UserResponse, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.UserResponse{}, user.ErrUserNotFound
		}
		return user.UserResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user.NewUserResponse(u), nil
}

// Update implements user.UserService. Admins cannot change their own role.
func (s *UserServiceImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	if req.Role != nil && req.ID == claims.UserID && user.Role(*req.Role) != claims.Role {
		return user.UserResponse{}, user.ErrCannotChangeOwnRole
	}

	updated, err := s.UserRepository.Update(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return user.UserResponse{}, user.ErrUserNotFound
		case errors.Is(err, user.ErrTeamNotFound), errors.Is(err, user.ErrShiftNotFound):
			return user.UserResponse{}, err
		}
		return user.UserResponse{}, fmt.Errorf("failed to update user: %w", err)
	}

	slog.Info("User assignment updated", "user_id", updated.ID, "role", updated.Role, "updated_by", claims.UserID)
	return user.NewUserResponse(updated), nil
}
