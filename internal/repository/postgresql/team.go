package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/team"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const teamSelect = `
	SELECT t.id, t.name, t.description, t.leader_id, t.created_at, t.updated_at,
		NULLIF(TRIM(CONCAT_WS(' ', l.first_name, l.last_name)), '') AS leader_name,
		(SELECT COUNT(*) FROM users m WHERE m.team_id = t.id) AS member_count
	FROM teams t
	LEFT JOIN users l ON l.id = t.leader_id`

type teamRepository struct {
	db *database.DB
}

func NewTeamRepository(db *database.DB) team.TeamRepository {
	return &teamRepository{db: db}
}

func scanTeam(row pgx.Row) (team.Team, error) {
	var t team.Team
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.LeaderID, &t.CreatedAt, &t.UpdatedAt,
		&t.LeaderName, &t.MemberCount,
	)
	return t, err
}

func mapTeamWriteError(err error) error {
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return team.ErrTeamNameExists
	case pgForeignKeyViolation:
		if pgConstraint(err) == "teams_leader_id_fkey" {
			return team.ErrLeaderNotFound
		}
	}
	return err
}

// List implements team.TeamRepository.
func (r *teamRepository) List(ctx context.Context) ([]team.Team, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, teamSelect+` ORDER BY t.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []team.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// GetByID implements team.TeamRepository.
func (r *teamRepository) GetByID(ctx context.Context, id string) (team.Team, error) {
	q := GetQuerier(ctx, r.db)

	return scanTeam(q.QueryRow(ctx, teamSelect+` WHERE t.id = $1`, id))
}

// Create implements team.TeamRepository.
func (r *teamRepository) Create(ctx context.Context, t team.Team) (team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO teams (name, description, leader_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id string
	if err := q.QueryRow(ctx, query, t.Name, t.Description, t.LeaderID).Scan(&id); err != nil {
		return team.Team{}, mapTeamWriteError(err)
	}
	return r.GetByID(ctx, id)
}

// Update implements team.TeamRepository.
func (r *teamRepository) Update(ctx context.Context, t team.Team) (team.Team, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE teams
		SET name = $1, description = $2, leader_id = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id
	`

	var id string
	if err := q.QueryRow(ctx, query, t.Name, t.Description, t.LeaderID, t.ID).Scan(&id); err != nil {
		return team.Team{}, mapTeamWriteError(err)
	}
	return r.GetByID(ctx, id)
}

// Delete implements team.TeamRepository.
func (r *teamRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
