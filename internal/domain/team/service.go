package team

import "context"

type TeamService interface {
	List(ctx context.Context) ([]TeamResponse, error)
	// Get returns the team together with its members.
	Get(ctx context.Context, id string) (TeamResponse, error)
	Create(ctx context.Context, req CreateTeamRequest) (TeamResponse, error)
	Update(ctx context.Context, req UpdateTeamRequest) (TeamResponse, error)
	Delete(ctx context.Context, id string) error
}
