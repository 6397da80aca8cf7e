package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/jackc/pgx/v5"
)

// TIME columns travel as text so they map onto timesheet.TimeOfDay without a pgtype detour.
const shiftColumns = `id, name, to_char(start_time, 'HH24:MI:SS'), to_char(end_time, 'HH24:MI:SS'), created_at, updated_at`

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepository{db: db}
}

func scanShift(row pgx.Row) (shift.Shift, error) {
	var (
		s          shift.Shift
		start, end string
	)
	if err := row.Scan(&s.ID, &s.Name, &start, &end, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return shift.Shift{}, err
	}

	var err error
	if s.StartTime, err = timesheet.ParseTimeOfDay(start); err != nil {
		return shift.Shift{}, err
	}
	if s.EndTime, err = timesheet.ParseTimeOfDay(end); err != nil {
		return shift.Shift{}, err
	}
	return s, nil
}

func mapShiftWriteError(err error) error {
	if pgErrorCode(err) == pgUniqueViolation {
		return shift.ErrShiftNameExists
	}
	return err
}

// List implements shift.ShiftRepository.
func (r *shiftRepository) List(ctx context.Context) ([]shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts ORDER BY start_time ASC, name ASC`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shifts: %w", err)
	}
	defer rows.Close()

	var shifts []shift.Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// GetByID implements shift.ShiftRepository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = $1`

	return scanShift(q.QueryRow(ctx, query, id))
}

// Create implements shift.ShiftRepository.
func (r *shiftRepository) Create(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shifts (name, start_time, end_time)
		VALUES ($1, $2::time, $3::time)
		RETURNING ` + shiftColumns

	created, err := scanShift(q.QueryRow(ctx, query, s.Name, s.StartTime.String(), s.EndTime.String()))
	if err != nil {
		return shift.Shift{}, mapShiftWriteError(err)
	}
	return created, nil
}

// Update implements shift.ShiftRepository.
func (r *shiftRepository) Update(ctx context.Context, s shift.Shift) (shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE shifts
		SET name = $1, start_time = $2::time, end_time = $3::time, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + shiftColumns

	updated, err := scanShift(q.QueryRow(ctx, query, s.Name, s.StartTime.String(), s.EndTime.String(), s.ID))
	if err != nil {
		return shift.Shift{}, mapShiftWriteError(err)
	}
	return updated, nil
}

// Delete implements shift.ShiftRepository.
func (r *shiftRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM shifts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
