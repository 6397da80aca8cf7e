package attendance

import "context"

type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req CheckRequest) (AttendanceResponse, error)
	GetStatus(ctx context.Context) (StatusResponse, error)

	GetMyAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	GetMyDailyHours(ctx context.Context, query DailyHoursQuery) (DailyHoursResponse, error)
	GetProofURL(ctx context.Context, id string) (ProofURLResponse, error)
}
