package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]User, error)
	List(ctx context.Context) ([]User, error)
	ListByTeam(ctx context.Context, teamID string) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)

	// Update applies the non-nil fields of req. It returns pgx.ErrNoRows
	// for an unknown id.
	Update(ctx context.Context, req UpdateUserRequest) (User, error)

	// DeductLeaveBalance subtracts days from the annual leave balance and
	// returns ErrInsufficientLeave when the balance would go negative.
	DeductLeaveBalance(ctx context.Context, userID string, days int) error
}
