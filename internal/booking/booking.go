// Package booking is the ledger of class reservations. Its one hard
// invariant: at most one booking row per (schedule, member, date) triple,
// enforced by a unique index and a check-then-insert transaction.
package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/liftdesk/liftdesk/internal/apperr"
	"github.com/liftdesk/liftdesk/internal/ids"
	"github.com/liftdesk/liftdesk/internal/models"
)

var (
	ErrAlreadyBooked = errors.New("already booked for this class")
	ErrNotActive     = errors.New("booking is not in a cancellable state")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// NextOccurrence computes the calendar date booked for a weekly schedule.
// A schedule whose day is today books next week's occurrence, never
// today's: a zero offset is forced to 7. The result is midnight UTC, the
// canonical form every stored class date uses.
func NextOccurrence(now time.Time, scheduleDayOfWeek int) time.Time {
	offset := (scheduleDayOfWeek - int(now.Weekday()) + 7) % 7
	if offset == 0 {
		offset = 7
	}
	d := now.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// Book creates a reservation for the member linked to userID. The date is
// truncated to midnight before the duplicate check so equal days always
// collide. Any existing row for the triple, whatever its status, makes the
// call fail with ErrAlreadyBooked.
func (s *Service) Book(ctx context.Context, userID, scheduleID string, classDate time.Time) (*models.ClassBooking, error) {
	var m models.GymMember
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("no membership linked to this account")
	}
	if err != nil {
		return nil, err
	}

	var sched models.ClassSchedule
	err = s.db.WithContext(ctx).First(&sched, "id = ?", scheduleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("schedule not found")
	}
	if err != nil {
		return nil, err
	}
	// A schedule outside the member's own gym is indistinguishable from a
	// missing one.
	if sched.GymID != m.GymID {
		return nil, apperr.NotFound("schedule not found")
	}

	if classDate.IsZero() {
		classDate = NextOccurrence(time.Now(), sched.DayOfWeek)
	}
	// Canonicalize to midnight UTC on the date's own calendar day. The
	// unique triple compares instants, so equal calendar dates must
	// collapse to one timestamp no matter which zone produced them.
	classDate = time.Date(classDate.Year(), classDate.Month(), classDate.Day(), 0, 0, 0, 0, time.UTC)

	b := &models.ClassBooking{
		ID:              ids.New(),
		ClassScheduleID: scheduleID,
		GymMemberID:     m.ID,
		ClassDate:       classDate,
		Status:          models.BookingBooked,
		BookedAt:        time.Now(),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ClassBooking
		err := tx.Where("class_schedule_id = ? AND gym_member_id = ? AND class_date = ?",
			scheduleID, m.ID, classDate).First(&existing).Error
		if err == nil {
			return ErrAlreadyBooked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(b).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			// Lost the race to a concurrent duplicate; same outcome.
			return nil, ErrAlreadyBooked
		}
		return nil, err
	}
	return b, nil
}

// Cancel marks a booking cancelled and stamps the time. There is no
// ownership check tying the caller to the booking; staff cancel by id.
// Terminal states (cancelled, attended, no_show) stay terminal.
func (s *Service) Cancel(ctx context.Context, bookingID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.ClassBooking
		err := tx.First(&b, "id = ?", bookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("booking not found")
		}
		if err != nil {
			return err
		}
		if b.Status != models.BookingBooked {
			return ErrNotActive
		}
		now := time.Now()
		return tx.Model(&models.ClassBooking{}).Where("id = ?", bookingID).
			Updates(map[string]any{"status": models.BookingCancelled, "cancelled_at": now}).Error
	})
}

// SetAttendance records the externally-driven transitions booked→attended
// and booked→no_show for a booking inside the caller's gym scope.
func (s *Service) SetAttendance(ctx context.Context, gymIDs []string, bookingID, status string) error {
	if status != models.BookingAttended && status != models.BookingNoShow {
		return apperr.Validation(map[string][]string{
			"status": {"must be one of: attended no_show"},
		})
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.ClassBooking
		err := tx.Preload("ClassSchedule").First(&b, "id = ?", bookingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("booking not found")
		}
		if err != nil {
			return err
		}
		if !containsID(gymIDs, b.ClassSchedule.GymID) {
			return apperr.NotFound("booking not found")
		}
		if b.Status != models.BookingBooked {
			return ErrNotActive
		}
		return tx.Model(&models.ClassBooking{}).Where("id = ?", bookingID).
			Update("status", status).Error
	})
}

// ListForMember returns a member's bookings, most recent class date first,
// with the schedule chain eager-loaded.
func (s *Service) ListForMember(ctx context.Context, memberID string) ([]models.ClassBooking, error) {
	var out []models.ClassBooking
	err := s.db.WithContext(ctx).
		Preload("ClassSchedule").
		Preload("ClassSchedule.ClassType").
		Preload("ClassSchedule.Instructor").
		Where("gym_member_id = ?", memberID).
		Order("class_date DESC").
		Find(&out).Error
	return out, err
}

// ListForUser is ListForMember keyed by the linked login account.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.ClassBooking, error) {
	var m models.GymMember
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Unauthorized("no membership linked to this account")
	}
	if err != nil {
		return nil, err
	}
	return s.ListForMember(ctx, m.ID)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
