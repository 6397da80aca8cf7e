package team

import "context"

type TeamRepository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id string) (Team, error)
	Create(ctx context.Context, t Team) (Team, error)
	Update(ctx context.Context, t Team) (Team, error)
	// Delete removes the team. Members keep their rows with team_id cleared.
	Delete(ctx context.Context, id string) error
}
