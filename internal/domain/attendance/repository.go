package attendance

import (
	"context"
	"time"
)

// AttendanceRepository is append-only: there is no update path.
type AttendanceRepository interface {
	Create(ctx context.Context, a Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)

	// ListByUserInRange returns the user's events with start <= timestamp < end, oldest first.
	ListByUserInRange(ctx context.Context, userID string, start, end time.Time) ([]Attendance, error)
	// ListInRange returns every user's events with start <= timestamp < end, oldest first.
	ListInRange(ctx context.Context, start, end time.Time) ([]Attendance, error)

	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)
	ListRecent(ctx context.Context, limit int) ([]Attendance, error)

	// LockUser serializes check-ins and check-outs of one user until the
	// surrounding transaction ends. Outside a transaction it does nothing useful.
	LockUser(ctx context.Context, userID string) error
}
