package booking

import (
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCombine(t *testing.T, date, clock string) time.Time {
	t.Helper()
	ts, err := Combine(date, clock, time.UTC)
	require.NoError(t, err, "combine %s %s", date, clock)
	return ts
}

func TestIntervalDaysAndCost(t *testing.T) {
	iv := Interval{
		CheckIn:  mustCombine(t, "2024-06-01", "14:00"),
		CheckOut: mustCombine(t, "2024-06-03", "11:00"),
	}

	assert.Equal(t, 1.875, iv.Days())
	assert.Equal(t, 187.5, iv.Cost(100))
}

func TestCombine(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)

	tests := []struct {
		name    string
		date    string
		clock   string
		want    time.Time
		wantErr error
	}{
		{name: "date only", date: "2024-06-01", clock: "14:00", want: time.Date(2024, 6, 1, 14, 0, 0, 0, loc)},
		{name: "single digit hour", date: "2024-06-01", clock: "9:30", want: time.Date(2024, 6, 1, 9, 30, 0, 0, loc)},
		{name: "rfc3339 uses local calendar date", date: "2024-06-01T22:00:00Z", clock: "11:00", want: time.Date(2024, 6, 2, 11, 0, 0, 0, loc)},
		{name: "bad clock", date: "2024-06-01", clock: "2pm", wantErr: ErrInvalidTimeFormat},
		{name: "hour out of range", date: "2024-06-01", clock: "24:00", wantErr: ErrInvalidTimeFormat},
		{name: "minute out of range", date: "2024-06-01", clock: "10:60", wantErr: ErrInvalidTimeFormat},
		{name: "bad date", date: "01/06/2024", clock: "10:00", wantErr: ErrInvalidDateFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Combine(tc.date, tc.clock, loc)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tc.want), "expected %v, got %v", tc.want, got)
		})
	}
}

func TestNewIntervalDefaults(t *testing.T) {
	iv, err := NewInterval("2024-06-01", "", "2024-06-03", "", DefaultCheckInTime, DefaultCheckOutTime, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 14, iv.CheckIn.Hour())
	assert.Equal(t, 11, iv.CheckOut.Hour())
}

func TestNewIntervalRejectsEmptyAndInverted(t *testing.T) {
	_, err := NewInterval("2024-06-01", "10:00", "2024-06-01", "10:00", DefaultCheckInTime, DefaultCheckOutTime, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidRange, "empty interval")

	_, err = NewInterval("2024-06-03", "", "2024-06-01", "", DefaultCheckInTime, DefaultCheckOutTime, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidRange, "inverted interval")
}

func TestOverlapsTouchingEndpoints(t *testing.T) {
	a := Interval{CheckIn: mustCombine(t, "2024-06-01", "14:00"), CheckOut: mustCombine(t, "2024-06-03", "11:00")}
	b := Interval{CheckIn: a.CheckOut, CheckOut: mustCombine(t, "2024-06-05", "11:00")}

	assert.False(t, a.Overlaps(b), "touching intervals must not overlap")
	assert.False(t, b.Overlaps(a), "touching intervals must not overlap")

	c := Interval{CheckIn: a.CheckOut.Add(-time.Minute), CheckOut: b.CheckOut}
	assert.True(t, a.Overlaps(c), "expected overlap of one minute")
}

func TestCostIsLinearInDuration(t *testing.T) {
	start := mustCombine(t, "2024-06-01", "14:00")
	short := Interval{CheckIn: start, CheckOut: start.Add(30 * time.Hour)}
	long := Interval{CheckIn: start, CheckOut: start.Add(60 * time.Hour)}

	assert.Equal(t, 2*short.Cost(80), long.Cost(80))
}

// Random intervals on a minute grid: Overlapping must agree with a brute
// force check of shared minutes.
func TestOverlappingMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	roomID := uuid.New()

	randomInterval := func() Interval {
		start := rng.Intn(200)
		length := 1 + rng.Intn(50)
		return Interval{
			CheckIn:  base.Add(time.Duration(start) * time.Minute),
			CheckOut: base.Add(time.Duration(start+length) * time.Minute),
		}
	}
	sharesMinute := func(a, b Interval) bool {
		for m := a.CheckIn; m.Before(a.CheckOut); m = m.Add(time.Minute) {
			if !m.Before(b.CheckIn) && m.Before(b.CheckOut) {
				return true
			}
		}
		return false
	}
	statuses := []Status{StatusPending, StatusConfirmed, StatusRejected, StatusCancelled}

	for i := 0; i < 500; i++ {
		candidate := randomInterval()
		var existing []*Booking
		want := 0
		for j := 0; j < 5; j++ {
			iv := randomInterval()
			b := &Booking{ID: uuid.New(), RoomID: roomID, CheckIn: iv.CheckIn, CheckOut: iv.CheckOut, Status: statuses[rng.Intn(len(statuses))]}
			existing = append(existing, b)
			if b.Status == StatusConfirmed && sharesMinute(candidate, iv) {
				want++
			}
		}

		require.Len(t, Overlapping(existing, roomID, candidate, nil), want, "iteration %d", i)
	}
}

func TestOverlappingExcludesSelfAndOtherRooms(t *testing.T) {
	roomID := uuid.New()
	iv := Interval{CheckIn: mustCombine(t, "2024-06-01", "14:00"), CheckOut: mustCombine(t, "2024-06-03", "11:00")}
	self := &Booking{ID: uuid.New(), RoomID: roomID, CheckIn: iv.CheckIn, CheckOut: iv.CheckOut, Status: StatusConfirmed}
	other := &Booking{ID: uuid.New(), RoomID: uuid.New(), CheckIn: iv.CheckIn, CheckOut: iv.CheckOut, Status: StatusConfirmed}

	assert.Empty(t, Overlapping([]*Booking{self, other}, roomID, iv, &self.ID))
}
