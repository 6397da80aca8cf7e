package timesheet

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "7c1c9f0e-5a43-4c3b-9a61-2f2b1f0d0a11"

func at(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func punch(t *testing.T, userID string, typ EventType, s string) Event {
	t.Helper()
	return Event{UserID: userID, Timestamp: at(t, s), Type: typ}
}

func utcRange(t *testing.T, from, to string) (time.Time, time.Time) {
	t.Helper()
	return at(t, from), at(t, to)
}

func TestPairDailyAttendance_SingleDay(t *testing.T) {
	events := []Event{
		punch(t, testUser, CheckIn, "2024-03-04T09:00:00Z"),
		punch(t, testUser, CheckOut, "2024-03-04T17:30:00Z"),
	}
	start, end := utcRange(t, "2024-03-01T00:00:00Z", "2024-04-01T00:00:00Z")

	got, err := PairDailyAttendance(events, testUser, start, end)
	require.NoError(t, err)

	assert.Equal(t, DailyHours{"2024-03-04": 8.5}, got.Hours)
	assert.Empty(t, got.Anomalies)
}

func TestPairDailyAttendance_CheckInOnlyIsZeroWithAnomaly(t *testing.T) {
	events := []Event{
		punch(t, testUser, CheckIn, "2024-03-05T09:00:00Z"),
	}
	start, end := utcRange(t, "2024-03-01T00:00:00Z", "2024-04-01T00:00:00Z")

	got, err := PairDailyAttendance(events, testUser, start, end)
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.Hours["2024-03-05"])
	require.Len(t, got.Anomalies, 1)
	a := got.Anomalies[0]
	assert.Equal(t, "2024-03-05", a.Date)
	assert.Equal(t, testUser, a.UserID)
	assert.Equal(t, AnomalyMissingPair, a.Code)
	assert.True(t, errors.Is(a, ErrMissingPairedEvent))
	assert.NotNil(t, a.CheckIn)
	assert.Nil(t, a.CheckOut)
}

func TestPairDailyAttendance_CheckOutBeforeCheckInIsClamped(t *testing.T) {
	events := []Event{
		punch(t, testUser, CheckOut, "2024-03-06T08:00:00Z"),
		punch(t, testUser, CheckIn, "2024-03-06T09:00:00Z"),
	}
	start, end := utcRange(t, "2024-03-01T00:00:00Z", "2024-04-01T00:00:00Z")

	got, err := PairDailyAttendance(events, testUser, start, end)
	require.NoError(t, err)

	assert.Equal(t, 0.0, got.Hours["2024-03-06"])
	require.Len(t, got.Anomalies, 1)
	assert.Equal(t, AnomalyInvalidRange, got.Anomalies[0].Code)
	assert.True(t, errors.Is(got.Anomalies[0], ErrInvalidTimeRange))
}

func TestPairDailyAttendance_UsesEarliestOfEachType(t *testing.T) {
	events := []Event{
		punch(t, testUser, CheckOut, "2024-03-07T18:00:00Z"),
		punch(t, testUser, CheckIn, "2024-03-07T10:00:00Z"),
		punch(t, testUser, CheckOut, "2024-03-07T12:00:00Z"),
		punch(t, testUser, CheckIn, "2024-03-07T08:00:00Z"),
	}
	start, end := utcRange(t, "2024-03-01T00:00:00Z", "2024-04-01T00:00:00Z")

	got, err := PairDailyAttendance(events, testUser, start, end)
	require.NoError(t, err)

	// 08:00 -> 12:00
	assert.Equal(t, 4.0, got.Hours["2024-03-07"])
	assert.Empty(t, got.Anomalies)
}

func TestPairDailyAttendance_IgnoresOtherUsersAndOutOfRange(t *testing.T) {
	events := []Event{
		punch(t, testUser, CheckIn, "2024-02-29T09:00:00Z"),
		punch(t, testUser, CheckOut, "2024-02-29T17:00:00Z"),
		punch(t, "someone-else", CheckIn, "2024-03-04T06:00:00Z"),
		punch(t, "someone-else", CheckOut, "2024-03-04T20:00:00Z"),
		punch(t, testUser, CheckIn, "2024-03-04T09:00:00Z"),
		punch(t, testUser, CheckOut, "2024-03-04T10:00:00Z"),
		punch(t, testUser, CheckIn, "2024-04-01T00:00:00Z"),
	}
	start, end := utcRange(t, "2024-03-01T00:00:00Z", "2024-04-01T00:00:00Z")

	got, err := PairDailyAttendance(events, testUser, start, end)
	require.NoError(t, err)

	assert.Equal(t, DailyHours{"2024-03-04": 1}, got.Hours)
	assert.Empty(t, got.Anomalies)
}

func TestPairDailyAttendance_OtherUsersMalformedRowsDoNotFail(t *testing.T) {
	events := []Event{
		{UserID: "someone-else", Type: "lunch"},
		punch(t, testUser, CheckIn, "2024-03-04T09:00:00Z"),
		punch(t, testUser, CheckOut, "2024-03-04T11:00:00Z"),
	}
	start, end := utcRange(t, "2024-03-01T00:00:00Z", "2024-04-01T00:00:00Z")

	got, err := PairDailyAttendance(events, testUser, start, end)
	require.NoError(t, err)
	assert.Equal(t, 2.0, got.Hours["2024-03-04"])
}

func TestPairDailyAttendance_DayKeyedByOwnOffset(t *testing.T) {
	// 23:00 local on the 4th in UTC+7 is 16:00Z on the 4th; both punches stay on the 4th.
	events := []Event{
		punch(t, testUser, CheckIn, "2024-03-04T14:00:00+07:00"),
		punch(t, testUser, CheckOut, "2024-03-04T23:00:00+07:00"),
	}
	start, end := utcRange(t, "2024-03-01T00:00:00Z", "2024-04-01T00:00:00Z")

	got, err := PairDailyAttendance(events, testUser, start, end)
	require.NoError(t, err)
	assert.Equal(t, DailyHours{"2024-03-04": 9}, got.Hours)
}

func TestPairDailyAttendance_Errors(t *testing.T) {
	start, end := utcRange(t, "2024-03-01T00:00:00Z", "2024-04-01T00:00:00Z")

	_, err := PairDailyAttendance(nil, "", start, end)
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = PairDailyAttendance(nil, testUser, end, start)
	assert.ErrorIs(t, err, ErrInvalidRange)

	bad := []Event{{UserID: testUser, Timestamp: at(t, "2024-03-04T09:00:00Z"), Type: "break"}}
	_, err = PairDailyAttendance(bad, testUser, start, end)
	assert.ErrorIs(t, err, ErrMalformedEvent)

	noTime := []Event{{UserID: testUser, Type: CheckIn}}
	_, err = PairDailyAttendance(noTime, testUser, start, end)
	assert.ErrorIs(t, err, ErrMalformedEvent)
}

func TestPairDailyAttendance_EmptyRange(t *testing.T) {
	start := at(t, "2024-03-01T00:00:00Z")
	events := []Event{punch(t, testUser, CheckIn, "2024-03-01T00:00:00Z")}

	got, err := PairDailyAttendance(events, testUser, start, start)
	require.NoError(t, err)
	assert.Empty(t, got.Hours)
}

func TestPairDailyAttendance_OrderIndependent(t *testing.T) {
	events := []Event{
		punch(t, testUser, CheckIn, "2024-03-04T09:00:00Z"),
		punch(t, testUser, CheckOut, "2024-03-04T17:15:00Z"),
		punch(t, testUser, CheckIn, "2024-03-05T08:45:00Z"),
		punch(t, testUser, CheckOut, "2024-03-05T16:00:00Z"),
		punch(t, testUser, CheckIn, "2024-03-06T10:00:00Z"),
		punch(t, testUser, CheckOut, "2024-03-07T09:00:00Z"),
	}
	start, end := utcRange(t, "2024-03-01T00:00:00Z", "2024-04-01T00:00:00Z")

	want, err := PairDailyAttendance(events, testUser, start, end)
	require.NoError(t, err)

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]Event, len(events))
		copy(shuffled, events)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got, err := PairDailyAttendance(shuffled, testUser, start, end)
		require.NoError(t, err)
		assert.Equal(t, want.Hours, got.Hours)
		assert.Equal(t, len(want.Anomalies), len(got.Anomalies))
	}
}

func TestPairDailyAttendance_NonNegative(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	base := at(t, "2024-03-01T00:00:00Z")

	events := make([]Event, 0, 200)
	for i := 0; i < 200; i++ {
		typ := CheckIn
		if r.Intn(2) == 0 {
			typ = CheckOut
		}
		offset := time.Duration(r.Int63n(int64(28 * 24 * time.Hour)))
		events = append(events, Event{UserID: testUser, Timestamp: base.Add(offset), Type: typ})
	}

	got, err := PairDailyAttendance(events, testUser, base, base.AddDate(0, 1, 0))
	require.NoError(t, err)
	for day, h := range got.Hours {
		assert.GreaterOrEqual(t, h, 0.0, day)
		assert.LessOrEqual(t, h, 24.0, day)
	}
}

func TestDailyHours_DatesAndTotal(t *testing.T) {
	d := DailyHours{"2024-03-05": 1.25, "2024-03-01": 2.5, "2024-03-03": 0}
	assert.Equal(t, []string{"2024-03-01", "2024-03-03", "2024-03-05"}, d.Dates())
	assert.Equal(t, 3.75, d.Total())
	assert.Equal(t, 0.0, DailyHours{}.Total())
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 8.33, Round2(8.3333))
	assert.Equal(t, -1.23, Round2(-1.234))
	assert.Equal(t, 0.0, Round2(0.004))
}
