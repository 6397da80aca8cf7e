package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, team_id, shift_id, annual_leave_balance, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Role,
		&u.TeamID,
		&u.ShiftID,
		&u.AnnualLeaveBalance,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, role, team_id, shift_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.Email,
		newUser.PasswordHash,
		newUser.FirstName,
		newUser.LastName,
		newUser.Role,
		newUser.TeamID,
		newUser.ShiftID,
	))
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, err
	}
	return created, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	return scanUser(q.QueryRow(ctx, query, email))
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUser(q.QueryRow(ctx, query, id))
}

// GetByIDs implements user.UserRepository.
func (r *userRepositoryImpl) GetByIDs(ctx context.Context, ids []string) (map[string]user.User, error) {
	result := make(map[string]user.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ANY($1::uuid[])`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result[u.ID] = u
	}
	return result, rows.Err()
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users ORDER BY first_name, email`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	return collectUsers(rows)
}

// ListByTeam implements user.UserRepository.
func (r *userRepositoryImpl) ListByTeam(ctx context.Context, teamID string) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE team_id = $1 ORDER BY first_name, email`

	rows, err := q.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	return collectUsers(rows)
}

func collectUsers(rows pgx.Rows) ([]user.User, error) {
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Update implements user.UserRepository.
func (r *userRepositoryImpl) Update(ctx context.Context, req user.UpdateUserRequest) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	updates := make(map[string]interface{})

	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if req.TeamID != nil {
		if *req.TeamID == "" {
			updates["team_id"] = nil
		} else {
			updates["team_id"] = *req.TeamID
		}
	}
	if req.ShiftID != nil {
		if *req.ShiftID == "" {
			updates["shift_id"] = nil
		} else {
			updates["shift_id"] = *req.ShiftID
		}
	}
	if req.AnnualLeaveBalance != nil {
		updates["annual_leave_balance"] = *req.AnnualLeaveBalance
	}

	if len(updates) == 0 {
		return r.GetByID(ctx, req.ID)
	}

	setClauses := make([]string, 0, len(updates)+1)
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}
	setClauses = append(setClauses, "updated_at = NOW()")

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d RETURNING %s", strings.Join(setClauses, ", "), i, userColumns)
	args = append(args, req.ID)

	updated, err := scanUser(q.QueryRow(ctx, query, args...))
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			switch pgConstraint(err) {
			case "users_team_id_fkey":
				return user.User{}, user.ErrTeamNotFound
			case "users_shift_id_fkey":
				return user.User{}, user.ErrShiftNotFound
			}
		}
		return user.User{}, err
	}
	return updated, nil
}

// DeductLeaveBalance implements user.UserRepository.
func (r *userRepositoryImpl) DeductLeaveBalance(ctx context.Context, userID string, days int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET annual_leave_balance = annual_leave_balance - $1, updated_at = NOW()
		WHERE id = $2 AND annual_leave_balance >= $1
	`

	tag, err := q.Exec(ctx, query, days, userID)
	if err != nil {
		if pgErrorCode(err) == pgCheckViolation {
			return user.ErrInsufficientLeave
		}
		return fmt.Errorf("failed to deduct leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrInsufficientLeave
	}
	return nil
}
