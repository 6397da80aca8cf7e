package user

import "context"

type UserService interface {
	List(ctx context.Context, filter UserFilter) ([]UserResponse, error)
	Get(ctx context.Context, id string) (UserResponse, error)
	Update(ctx context.Context, req UpdateUserRequest) (UserResponse, error)
}
