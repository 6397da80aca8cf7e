package team

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/team"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/jackc/pgx/v5"
)

type TeamServiceImpl struct {
	team.TeamRepository
	userRepo user.UserRepository
}

func NewTeamService(teamRepository team.TeamRepository, userRepository user.UserRepository) team.TeamService {
	return &TeamServiceImpl{
		TeamRepository: teamRepository,
		userRepo:       userRepository,
	}
}

// List implements team.TeamService.
func (s *TeamServiceImpl) List(ctx context.Context) ([]team.TeamResponse, error) {
	teams, err := s.TeamRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	responses := make([]team.TeamResponse, 0, len(teams))
	for _, t := range teams {
		responses = append(responses, team.NewTeamResponse(t))
	}
	return responses, nil
}

// Get implements team.TeamService.
func (s *TeamServiceImpl) Get(ctx context.Context, id string) (team.TeamResponse, error) {
	t, err := s.TeamRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return team.TeamResponse{}, team.ErrTeamNotFound
		}
		return team.TeamResponse{}, fmt.Errorf("failed to get team: %w", err)
	}

	members, err := s.userRepo.ListByTeam(ctx, id)
	if err != nil {
		return team.TeamResponse{}, fmt.Errorf("failed to list team members: %w", err)
	}

	resp := team.NewTeamResponse(t)
	resp.Members = make([]user.UserResponse, 0, len(members))
	for _, m := range members {
		resp.Members = append(resp.Members, user.NewUserResponse(m))
	}
	resp.MemberCount = len(resp.Members)
	return resp, nil
}

// Create implements team.TeamService.
func (s *TeamServiceImpl) Create(ctx context.Context, req team.CreateTeamRequest) (team.TeamResponse, error) {
	if err := req.Validate(); err != nil {
		return team.TeamResponse{}, err
	}

	created, err := s.TeamRepository.Create(ctx, req.Team())
	if err != nil {
		if errors.Is(err, team.ErrTeamNameExists) || errors.Is(err, team.ErrLeaderNotFound) {
			return team.TeamResponse{}, err
		}
		return team.TeamResponse{}, fmt.Errorf("failed to create team: %w", err)
	}

	slog.Info("Team created", "team_id", created.ID, "name", created.Name)
	return team.NewTeamResponse(created), nil
}

// Update implements team.TeamService.
func (s *TeamServiceImpl) Update(ctx context.Context, req team.UpdateTeamRequest) (team.TeamResponse, error) {
	if err := req.Validate(); err != nil {
		return team.TeamResponse{}, err
	}

	updated := req.Team()
	updated.ID = req.ID

	saved, err := s.TeamRepository.Update(ctx, updated)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return team.TeamResponse{}, team.ErrTeamNotFound
		case errors.Is(err, team.ErrTeamNameExists), errors.Is(err, team.ErrLeaderNotFound):
			return team.TeamResponse{}, err
		}
		return team.TeamResponse{}, fmt.Errorf("failed to update team: %w", err)
	}
	return team.NewTeamResponse(saved), nil
}

// Delete implements team.TeamService.
func (s *TeamServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.TeamRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return team.ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team: %w", err)
	}
	slog.Info("Team deleted", "team_id", id)
	return nil
}
