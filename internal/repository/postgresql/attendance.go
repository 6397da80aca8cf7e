package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.id, a.user_id, a."timestamp", a.type, a.location, a.latitude, a.longitude,
	a.proof_path, a.notes, a.created_at,
	NULLIF(TRIM(CONCAT_WS(' ', u.first_name, u.last_name)), '') AS user_name,
	u.email AS user_email`

type attendanceRepository struct {
	db *database.DB
	// tz is the IANA name used to turn timestamps into calendar dates for date filters.
	tz string
}

func NewAttendanceRepository(db *database.DB, loc *time.Location) attendance.AttendanceRepository {
	tz := "UTC"
	if loc != nil && loc != time.Local {
		tz = loc.String()
	}
	return &attendanceRepository{db: db, tz: tz}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.UserID, &att.Timestamp, &att.Type, &att.Location, &att.Latitude, &att.Longitude,
		&att.ProofPath, &att.Notes, &att.CreatedAt,
		&att.UserName, &att.UserEmail,
	)
	return att, err
}

func collectAttendance(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var attendances []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return attendances, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance (
			user_id, "timestamp", type, location, latitude, longitude, proof_path, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.UserID,
		newAttendance.Timestamp,
		newAttendance.Type,
		newAttendance.Location,
		newAttendance.Latitude,
		newAttendance.Longitude,
		newAttendance.ProofPath,
		newAttendance.Notes,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.id = $1
	`

	return scanAttendance(q.QueryRow(ctx, query, id))
}

// ListByUserInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByUserInRange(ctx context.Context, userID string, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a.user_id = $1
		  AND a."timestamp" >= $2
		  AND a."timestamp" < $3
		ORDER BY a."timestamp" ASC, a.created_at ASC
	`

	rows, err := q.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	return collectAttendance(rows)
}

// ListInRange implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListInRange(ctx context.Context, start, end time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE a."timestamp" >= $1
		  AND a."timestamp" < $2
		ORDER BY a.user_id, a."timestamp" ASC, a.created_at ASC
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	return collectAttendance(rows)
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "TRUE"
	args := []interface{}{}
	argIdx := 1

	if filter.UserID != nil && *filter.UserID != "" {
		baseWhere += fmt.Sprintf(" AND a.user_id = $%d", argIdx)
		args = append(args, *filter.UserID)
		argIdx++
	}

	if filter.Type != nil && *filter.Type != "" {
		baseWhere += fmt.Sprintf(" AND a.type = $%d", argIdx)
		args = append(args, *filter.Type)
		argIdx++
	}

	// Date range filters compare calendar dates in the configured timezone
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(` AND (a."timestamp" AT TIME ZONE $%d)::date >= $%d::date`, argIdx, argIdx+1)
		args = append(args, a.tz, *filter.StartDate)
		argIdx += 2
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(` AND (a."timestamp" AT TIME ZONE $%d)::date <= $%d::date`, argIdx, argIdx+1)
		args = append(args, a.tz, *filter.EndDate)
		argIdx += 2
	}

	countQuery := `SELECT COUNT(*) FROM attendance a WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance: %w", err)
	}

	// Build ORDER BY
	orderByField := `a."timestamp"`
	if filter.SortBy == "type" {
		orderByField = "a.type"
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendance a
		LEFT JOIN users u ON u.id = a.user_id
		WHERE %s
		ORDER BY %s %s, a.created_at %s
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, orderByField, sortOrder, sortOrder, argIdx, argIdx+1)

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	page := filter.Page
	if page == 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendance: %w", err)
	}
	attendances, err := collectAttendance(rows)
	if err != nil {
		return nil, 0, err
	}
	return attendances, total, nil
}

// ListRecent implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListRecent(ctx context.Context, limit int) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		LEFT JOIN users u ON u.id = a.user_id
		ORDER BY a."timestamp" DESC, a.created_at DESC
		LIMIT $1
	`

	rows, err := q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent attendance: %w", err)
	}
	return collectAttendance(rows)
}

// LockUser implements attendance.AttendanceRepository. The advisory lock is
// released when the transaction commits or rolls back.
func (a *attendanceRepository) LockUser(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, a.db)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('attendance:' || $1::text))`, userID); err != nil {
		return fmt.Errorf("failed to lock attendance for user %s: %w", userID, err)
	}
	return nil
}
