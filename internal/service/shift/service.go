package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/hrcrm-backend-go/internal/pkg/timesheet"
	"github.com/jackc/pgx/v5"
)

const calendarProductID = "-//hrcrm//shift calendar//EN"

type ShiftServiceImpl struct {
	shift.ShiftRepository
	loc *time.Location
	now func() time.Time
}

func NewShiftService(repository shift.ShiftRepository, loc *time.Location) shift.ShiftService {
	if loc == nil {
		loc = time.UTC
	}
	return &ShiftServiceImpl{
		ShiftRepository: repository,
		loc:             loc,
		now:             time.Now,
	}
}

// List implements shift.ShiftService.
func (s *ShiftServiceImpl) List(ctx context.Context) ([]shift.ShiftResponse, error) {
	shifts, err := s.ShiftRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}

	responses := make([]shift.ShiftResponse, 0, len(shifts))
	for _, sh := range shifts {
		responses = append(responses, shift.NewShiftResponse(sh))
	}
	return responses, nil
}

func (s *ShiftServiceImpl) get(ctx context.Context, id string) (shift.Shift, error) {
	sh, err := s.ShiftRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Shift{}, shift.ErrShiftNotFound
		}
		return shift.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return sh, nil
}

// Get implements shift.ShiftService.
func (s *ShiftServiceImpl) Get(ctx context.Context, id string) (shift.ShiftResponse, error) {
	sh, err := s.get(ctx, id)
	if err != nil {
		return shift.ShiftResponse{}, err
	}
	return shift.NewShiftResponse(sh), nil
}

// Create implements shift.ShiftService.
func (s *ShiftServiceImpl) Create(ctx context.Context, req shift.CreateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	created, err := s.ShiftRepository.Create(ctx, req.Shift())
	if err != nil {
		if errors.Is(err, shift.ErrShiftNameExists) {
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to create shift: %w", err)
	}
	return shift.NewShiftResponse(created), nil
}

// Update implements shift.ShiftService.
func (s *ShiftServiceImpl) Update(ctx context.Context, req shift.UpdateShiftRequest) (shift.ShiftResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.ShiftResponse{}, err
	}

	updated := req.Shift()
	updated.ID = req.ID

	saved, err := s.ShiftRepository.Update(ctx, updated)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return shift.ShiftResponse{}, shift.ErrShiftNotFound
		case errors.Is(err, shift.ErrShiftNameExists):
			return shift.ShiftResponse{}, err
		}
		return shift.ShiftResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}
	return shift.NewShiftResponse(saved), nil
}

// Delete implements shift.ShiftService.
func (s *ShiftServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.ShiftRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.ErrShiftNotFound
		}
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return nil
}

// Calendar implements shift.ShiftService. Each day gets its own VEVENT so
// occurrences follow the configured timezone across DST changes.
func (s *ShiftServiceImpl) Calendar(ctx context.Context, query shift.CalendarQuery) ([]byte, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sh, err := s.get(ctx, query.ShiftID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	if query.From != "" {
		from, _ = time.ParseInLocation(timesheet.DateLayout, query.From, s.loc)
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetName(sh.Name)
	cal.SetXWRCalName(sh.Name)
	cal.SetTimezoneId(s.loc.String())

	description := fmt.Sprintf("%s - %s (%.2f h)", sh.StartTime, sh.EndTime, sh.DurationHours())
	for i := 0; i < query.Days; i++ {
		day := from.AddDate(0, 0, i)
		start, end := sh.Occurrence(day, s.loc)

		event := cal.AddEvent(fmt.Sprintf("%s-%s@hrcrm", sh.ID, day.Format("20060102")))
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(sh.Name)
		event.SetDescription(description)
	}

	return []byte(cal.Serialize()), nil
}
