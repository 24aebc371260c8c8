package booking_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/liftdesk/liftdesk/internal/apperr"
	"github.com/liftdesk/liftdesk/internal/booking"
	"github.com/liftdesk/liftdesk/internal/db"
	"github.com/liftdesk/liftdesk/internal/ids"
	"github.com/liftdesk/liftdesk/internal/models"
)

type fixture struct {
	conn     *gorm.DB
	svc      *booking.Service
	gym      *models.Gym
	member   *models.GymMember
	schedule *models.ClassSchedule
	userID   string
}

func setup(t *testing.T) *fixture {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "booking_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	g := &models.Gym{ID: ids.New(), BusinessID: ids.New(), Name: "Test Gym", Slug: "test-gym", IsActive: true}
	userID := ids.New()
	m := &models.GymMember{
		ID: ids.New(), GymID: g.ID, UserID: &userID,
		FirstName: "Ada", LastName: "Lovelace",
		MemberNumber: "MEM-TEST-0001", QRToken: "GYM-a-MEM-b-ctest0001",
		Status: models.MemberActive, JoinDate: time.Now(),
	}
	ct := &models.ClassType{ID: ids.New(), GymID: g.ID, Name: "Yoga", DurationMinutes: 60, MaxCapacity: 20}
	sched := &models.ClassSchedule{
		ID: ids.New(), GymID: g.ID, ClassTypeID: ct.ID,
		DayOfWeek: 2, StartTime: "09:00", EndTime: "10:00", IsActive: true,
	}
	for _, v := range []any{g, m, ct, sched} {
		if err := conn.Create(v).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return &fixture{conn: conn, svc: booking.NewService(conn), gym: g, member: m, schedule: sched, userID: userID}
}

func TestNextOccurrence(t *testing.T) {
	// 2024-01-15 is a Monday.
	monday := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		name string
		dow  int
		want time.Time
	}{
		{"later this week", 4, time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)},
		{"tomorrow", 2, time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)},
		{"earlier weekday wraps", 0, time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)},
		{"same weekday books next week", 1, time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := booking.NextOccurrence(monday, tc.dow)
			if !got.Equal(tc.want) {
				t.Errorf("NextOccurrence(monday, %d) = %v, want %v", tc.dow, got, tc.want)
			}
			if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 {
				t.Errorf("result %v is not midnight", got)
			}
		})
	}
}

func TestNextOccurrenceNormalizesToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	mondayEST := time.Date(2024, 1, 15, 14, 30, 0, 0, est)

	got := booking.NextOccurrence(mondayEST, 4)
	want := time.Date(2024, 1, 18, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("NextOccurrence(mondayEST, 4) = %v, want %v in UTC", got, want)
	}
}

func TestBookDefaultsToNextOccurrence(t *testing.T) {
	f := setup(t)

	b, err := f.svc.Book(context.Background(), f.userID, f.schedule.ID, time.Time{})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if int(b.ClassDate.Weekday()) != f.schedule.DayOfWeek {
		t.Errorf("class date %v falls on %v, want weekday %d", b.ClassDate, b.ClassDate.Weekday(), f.schedule.DayOfWeek)
	}
	if !b.ClassDate.After(time.Now()) {
		t.Errorf("class date %v is not in the future", b.ClassDate)
	}
	if b.Status != models.BookingBooked {
		t.Errorf("status = %q, want booked", b.Status)
	}
}

func TestBookDuplicateRejectedRegardlessOfStatus(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	date := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

	b, err := f.svc.Book(ctx, f.userID, f.schedule.ID, date)
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	if _, err := f.svc.Book(ctx, f.userID, f.schedule.ID, date); !errors.Is(err, booking.ErrAlreadyBooked) {
		t.Fatalf("duplicate booking: got %v, want ErrAlreadyBooked", err)
	}

	// Even a cancelled booking blocks rebooking the same occurrence.
	if err := f.svc.Cancel(ctx, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := f.svc.Book(ctx, f.userID, f.schedule.ID, date); !errors.Is(err, booking.ErrAlreadyBooked) {
		t.Fatalf("rebooking after cancel: got %v, want ErrAlreadyBooked", err)
	}
}

func TestBookDateTruncatedToMidnight(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	at9 := time.Date(2026, 9, 8, 9, 0, 0, 0, time.UTC)
	at17 := time.Date(2026, 9, 8, 17, 30, 0, 0, time.UTC)

	if _, err := f.svc.Book(ctx, f.userID, f.schedule.ID, at9); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// Same calendar day at a different wall-clock time is the same occurrence.
	if _, err := f.svc.Book(ctx, f.userID, f.schedule.ID, at17); !errors.Is(err, booking.ErrAlreadyBooked) {
		t.Fatalf("same-day booking: got %v, want ErrAlreadyBooked", err)
	}
}

func TestBookSameDayAcrossZonesCollides(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	utc := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)
	est := time.Date(2026, 9, 8, 20, 0, 0, 0, time.FixedZone("EST", -5*3600))

	if _, err := f.svc.Book(ctx, f.userID, f.schedule.ID, utc); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// The same calendar day expressed in another zone is the same
	// occurrence, even when the instants differ.
	if _, err := f.svc.Book(ctx, f.userID, f.schedule.ID, est); !errors.Is(err, booking.ErrAlreadyBooked) {
		t.Fatalf("cross-zone same-day booking: got %v, want ErrAlreadyBooked", err)
	}

	var count int64
	f.conn.Model(&models.ClassBooking{}).Count(&count)
	if count != 1 {
		t.Fatalf("%d rows in ledger, want 1", count)
	}
}

func TestBookConcurrentDuplicates(t *testing.T) {
	f := setup(t)
	date := time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Book(context.Background(), f.userID, f.schedule.ID, date)
		}(i)
	}
	wg.Wait()

	won := 0
	for i, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, booking.ErrAlreadyBooked):
		default:
			t.Errorf("goroutine %d: unexpected error %v", i, err)
		}
	}
	if won != 1 {
		t.Fatalf("%d bookings succeeded, want exactly 1", won)
	}

	var count int64
	f.conn.Model(&models.ClassBooking{}).Count(&count)
	if count != 1 {
		t.Fatalf("%d rows in ledger, want 1", count)
	}
}

func TestBookUnlinkedUser(t *testing.T) {
	f := setup(t)
	_, err := f.svc.Book(context.Background(), "nobody", f.schedule.ID, time.Time{})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status() != 401 {
		t.Fatalf("unlinked user: got %v, want unauthorized", err)
	}
}

func TestBookCrossGymSchedule(t *testing.T) {
	f := setup(t)

	otherGym := &models.Gym{ID: ids.New(), BusinessID: ids.New(), Name: "Other", Slug: "other", IsActive: true}
	otherSched := &models.ClassSchedule{
		ID: ids.New(), GymID: otherGym.ID, ClassTypeID: ids.New(),
		DayOfWeek: 3, StartTime: "10:00", EndTime: "11:00", IsActive: true,
	}
	for _, v := range []any{otherGym, otherSched} {
		if err := f.conn.Create(v).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	_, err := f.svc.Book(context.Background(), f.userID, otherSched.ID, time.Time{})
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status() != 404 {
		t.Fatalf("cross-gym schedule: got %v, want not-found", err)
	}
}

func TestCancelIsTerminal(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	b, err := f.svc.Book(ctx, f.userID, f.schedule.ID, time.Time{})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if err := f.svc.Cancel(ctx, b.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	var got models.ClassBooking
	if err := f.conn.First(&got, "id = ?", b.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.BookingCancelled {
		t.Errorf("status = %q, want cancelled", got.Status)
	}
	if got.CancelledAt == nil {
		t.Error("cancelled_at not stamped")
	}

	if err := f.svc.Cancel(ctx, b.ID); !errors.Is(err, booking.ErrNotActive) {
		t.Fatalf("second cancel: got %v, want ErrNotActive", err)
	}
}

func TestSetAttendance(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	b, err := f.svc.Book(ctx, f.userID, f.schedule.ID, time.Time{})
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	// Out-of-scope gym set behaves like a missing booking.
	err = f.svc.SetAttendance(ctx, []string{"someone-elses-gym"}, b.ID, models.BookingAttended)
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Status() != 404 {
		t.Fatalf("cross-tenant attendance: got %v, want not-found", err)
	}

	if err := f.svc.SetAttendance(ctx, []string{f.gym.ID}, b.ID, models.BookingAttended); err != nil {
		t.Fatalf("set attendance: %v", err)
	}
	// attended is terminal.
	err = f.svc.SetAttendance(ctx, []string{f.gym.ID}, b.ID, models.BookingNoShow)
	if !errors.Is(err, booking.ErrNotActive) {
		t.Fatalf("attendance on terminal booking: got %v, want ErrNotActive", err)
	}
}

func TestListForMemberOrder(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	dates := []time.Time{
		time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 22, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		if _, err := f.svc.Book(ctx, f.userID, f.schedule.ID, d); err != nil {
			t.Fatalf("book %v: %v", d, err)
		}
	}

	out, err := f.svc.ListForMember(ctx, f.member.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("got %d bookings, want 3", len(out))
	}
	for i := 1; i < len(out); i++ {
		if out[i].ClassDate.After(out[i-1].ClassDate) {
			t.Errorf("bookings not in descending class_date order: %v before %v", out[i-1].ClassDate, out[i].ClassDate)
		}
	}
}
