package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/officelocation"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/service/file"
	"github.com/jackc/pgx/v5"
)

// overnightGrace is how long past a night shift's end a check-out is still
// accepted for the previous day's check-in.
const overnightGrace = 4 * time.Hour

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	officelocation.OfficeLocationRepository
	shiftRepo   shift.ShiftRepository
	transactor  database.Transactor
	fileService file.FileService

	loc       *time.Location
	urlExpiry time.Duration
	now       func() time.Time
}

func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	officeLocationRepository officelocation.OfficeLocationRepository,
	shiftRepository shift.ShiftRepository,
	transactor database.Transactor,
	fileService file.FileService,
	loc *time.Location,
	urlExpiry time.Duration,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository:     attendanceRepository,
		OfficeLocationRepository: officeLocationRepository,
		shiftRepo:                shiftRepository,
		transactor:               transactor,
		fileService:              fileService,
		loc:                      loc,
		urlExpiry:                urlExpiry,
		now:                      time.Now,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	return a.record(ctx, req, timesheet.CheckIn)
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckRequest) (attendance.AttendanceResponse, error) {
	return a.record(ctx, req, timesheet.CheckOut)
}

func (a *AttendanceServiceImpl) record(ctx context.Context, req attendance.CheckRequest, eventType timesheet.EventType) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, attendance.ErrUserClaimMissing
	}

	if !req.HasLocation() {
		return attendance.AttendanceResponse{}, attendance.ErrLocationUnavailable
	}

	office, enforced, err := a.officeFor(ctx, claims.TeamID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var distance *float64
	if enforced {
		inside, meters, err := office.Contains(*req.Latitude, *req.Longitude)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to evaluate geofence: %w", err)
		}
		if !inside {
			slog.Info("Attendance rejected outside geofence",
				"user_id", claims.UserID, "type", eventType, "distance_meters", math.Round(meters), "radius_meters", office.RadiusMeters)
			return attendance.AttendanceResponse{}, attendance.ErrOutsideGeofence
		}
		distance = &meters
	}

	now := a.now().In(a.loc)
	window, err := a.overnightWindow(ctx, claims.ShiftID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var (
		created   attendance.Attendance
		proofPath *string
	)
	err = a.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := a.AttendanceRepository.LockUser(ctx, claims.UserID); err != nil {
			return err
		}

		state, err := a.dayState(ctx, claims.UserID, now, window)
		if err != nil {
			return err
		}
		if eventType == timesheet.CheckIn && state.open != nil {
			return attendance.ErrAlreadyCheckedIn
		}
		if eventType == timesheet.CheckOut && state.open == nil {
			return attendance.ErrNotCheckedIn
		}

		if req.Photo != nil {
			key, err := a.fileService.UploadAttendanceProof(ctx, claims.UserID, string(eventType), now, req.Photo, req.PhotoFilename)
			if err != nil {
				if errors.Is(err, file.ErrUnsupportedImage) || errors.Is(err, file.ErrImageTooLarge) {
					return err
				}
				return fmt.Errorf("failed to upload attendance proof: %w", err)
			}
			proofPath = &key
		}

		created, err = a.AttendanceRepository.Create(ctx, attendance.Attendance{
			UserID:    claims.UserID,
			Timestamp: now.UTC(),
			Type:      eventType,
			Location:  req.Location,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
			ProofPath: proofPath,
			Notes:     req.Notes,
		})
		if err != nil {
			return fmt.Errorf("failed to create attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		if proofPath != nil {
			if delErr := a.fileService.DeleteFile(ctx, *proofPath); delErr != nil {
				slog.Warn("Failed to remove orphaned attendance proof", "key", *proofPath, "error", delErr)
			}
		}
		return attendance.AttendanceResponse{}, err
	}

	resp := attendance.NewAttendanceResponse(created)
	resp.DistanceMeters = distance
	return resp, nil
}

// officeFor returns the team's office location. A user without a team, or a
// team with no configured location, has no geofence.
func (a *AttendanceServiceImpl) officeFor(ctx context.Context, teamID *string) (officelocation.OfficeLocation, bool, error) {
	if teamID == nil {
		return officelocation.OfficeLocation{}, false, nil
	}
	office, err := a.OfficeLocationRepository.GetByTeamID(ctx, *teamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return officelocation.OfficeLocation{}, false, nil
		}
		return officelocation.OfficeLocation{}, false, fmt.Errorf("failed to get office location: %w", err)
	}
	return office, true, nil
}

func (a *AttendanceServiceImpl) dayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(a.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, a.loc)
	return start, start.AddDate(0, 0, 1)
}

// dayState holds the user's events for the current local day and the
// check-in a check-out would close, if any.
type dayState struct {
	start, end time.Time
	today      []attendance.Attendance
	open       *attendance.Attendance
}

// dayState loads the user's recent events. The latest event today decides
// whether a check-in is open. With no events today, a check-in left open
// yesterday still counts while it is younger than window, which is non-zero
// only for shifts crossing midnight.
func (a *AttendanceServiceImpl) dayState(ctx context.Context, userID string, now time.Time, window time.Duration) (dayState, error) {
	start, end := a.dayBounds(now)
	from := start
	if window > 0 {
		from = start.AddDate(0, 0, -1)
	}

	rows, err := a.AttendanceRepository.ListByUserInRange(ctx, userID, from, end)
	if err != nil {
		return dayState{}, fmt.Errorf("failed to get recent attendance: %w", err)
	}

	state := dayState{start: start, end: end}
	var earlier []attendance.Attendance
	for _, row := range rows {
		if row.Timestamp.Before(start) {
			earlier = append(earlier, row)
			continue
		}
		state.today = append(state.today, row)
	}

	if len(state.today) > 0 {
		if last := latest(state.today); last.Type == timesheet.CheckIn {
			state.open = last
		}
		return state, nil
	}
	if last := latest(earlier); last != nil && last.Type == timesheet.CheckIn && now.Sub(last.Timestamp) <= window {
		state.open = last
	}
	return state, nil
}

// overnightWindow returns how long a check-in from the previous day stays
// open for the given shift: its length plus overnightGrace when it crosses
// midnight, zero otherwise or without a shift.
func (a *AttendanceServiceImpl) overnightWindow(ctx context.Context, shiftID *string) (time.Duration, error) {
	if shiftID == nil {
		return 0, nil
	}
	s, err := a.shiftRepo.GetByID(ctx, *shiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get shift: %w", err)
	}
	if !s.CrossesMidnight() {
		return 0, nil
	}
	return timesheet.ShiftDuration(s.StartTime, s.EndTime) + overnightGrace, nil
}

func latest(rows []attendance.Attendance) *attendance.Attendance {
	var last *attendance.Attendance
	for i := range rows {
		if last == nil || !rows[i].Timestamp.Before(last.Timestamp) {
			last = &rows[i]
		}
	}
	return last
}

// localEvents feeds rows to the pairing engine keyed by the configured timezone.
func (a *AttendanceServiceImpl) localEvents(rows []attendance.Attendance) ([]timesheet.Event, error) {
	events, err := attendance.Events(rows)
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Timestamp = events[i].Timestamp.In(a.loc)
	}
	return events, nil
}

// GetStatus implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetStatus(ctx context.Context) (attendance.StatusResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.StatusResponse{}, attendance.ErrUserClaimMissing
	}

	now := a.now().In(a.loc)
	window, err := a.overnightWindow(ctx, claims.ShiftID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}
	state, err := a.dayState(ctx, claims.UserID, now, window)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	events, err := a.localEvents(state.today)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to read today's attendance: %w", err)
	}
	pairing, err := timesheet.PairDailyAttendance(events, claims.UserID, state.start, state.end)
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to pair today's attendance: %w", err)
	}

	office, enforced, err := a.officeFor(ctx, claims.TeamID)
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	responses := make([]attendance.AttendanceResponse, 0, len(state.today))
	for _, row := range state.today {
		responses = append(responses, attendance.NewAttendanceResponse(row))
	}

	resp := attendance.StatusResponse{
		Date:             state.start.Format(timesheet.DateLayout),
		Events:           responses,
		CanCheckIn:       state.open == nil,
		CanCheckOut:      state.open != nil,
		HoursToday:       timesheet.Round2(pairing.Hours.Total()),
		GeofenceEnforced: enforced,
	}
	if enforced {
		resp.RadiusMeters = &office.RadiusMeters
	}
	if state.open != nil {
		openSince := state.open.Timestamp.In(a.loc)
		resp.OpenCheckInAt = &openSince
	}
	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, attendance.ErrUserClaimMissing
	}
	filter.UserID = &claims.UserID
	return a.list(ctx, filter)
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	return a.list(ctx, filter)
}

func (a *AttendanceServiceImpl) list(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	rows, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, attendance.NewAttendanceResponse(row))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// GetMyDailyHours implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyDailyHours(ctx context.Context, query attendance.DailyHoursQuery) (attendance.DailyHoursResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.DailyHoursResponse{}, attendance.ErrUserClaimMissing
	}
	query.UserID = claims.UserID

	if err := query.Validate(); err != nil {
		return attendance.DailyHoursResponse{}, err
	}

	startDate, _ := time.ParseInLocation(timesheet.DateLayout, query.StartDate, a.loc)
	endDate, _ := time.ParseInLocation(timesheet.DateLayout, query.EndDate, a.loc)
	rangeEnd := endDate.AddDate(0, 0, 1)

	rows, err := a.AttendanceRepository.ListByUserInRange(ctx, query.UserID, startDate, rangeEnd)
	if err != nil {
		return attendance.DailyHoursResponse{}, fmt.Errorf("failed to get attendance in range: %w", err)
	}

	events, err := a.localEvents(rows)
	if err != nil {
		return attendance.DailyHoursResponse{}, fmt.Errorf("failed to read attendance in range: %w", err)
	}
	pairing, err := timesheet.PairDailyAttendance(events, query.UserID, startDate, rangeEnd)
	if err != nil {
		return attendance.DailyHoursResponse{}, fmt.Errorf("failed to pair attendance: %w", err)
	}

	days := make([]attendance.DayHours, 0, len(pairing.Hours))
	for _, date := range pairing.Hours.Dates() {
		days = append(days, attendance.DayHours{Date: date, Hours: timesheet.Round2(pairing.Hours[date])})
	}

	anomalies := pairing.Anomalies
	if anomalies == nil {
		anomalies = []timesheet.Anomaly{}
	}

	return attendance.DailyHoursResponse{
		UserID:     query.UserID,
		StartDate:  query.StartDate,
		EndDate:    query.EndDate,
		Days:       days,
		TotalHours: timesheet.Round2(pairing.Hours.Total()),
		Anomalies:  anomalies,
	}, nil
}

// GetProofURL implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetProofURL(ctx context.Context, id string) (attendance.ProofURLResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.ProofURLResponse{}, attendance.ErrUserClaimMissing
	}

	row, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.ProofURLResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.ProofURLResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	if row.UserID != claims.UserID && !claims.IsAdmin() {
		return attendance.ProofURLResponse{}, attendance.ErrAttendanceForbidden
	}
	if row.ProofPath == nil || *row.ProofPath == "" {
		return attendance.ProofURLResponse{}, attendance.ErrProofNotFound
	}

	url, err := a.fileService.GetFileURL(ctx, *row.ProofPath)
	if err != nil {
		return attendance.ProofURLResponse{}, fmt.Errorf("failed to sign proof url: %w", err)
	}

	return attendance.ProofURLResponse{
		URL:       url,
		ExpiresIn: int(a.urlExpiry.Seconds()),
	}, nil
}
