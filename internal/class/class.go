// Package class owns the catalog: class types (bookable offering templates)
// and class schedules (recurring weekly slots).
package class

import (
	"context"
	"errors"
	"regexp"

	"gorm.io/gorm"

	"github.com/liftdesk/liftdesk/internal/apperr"
	"github.com/liftdesk/liftdesk/internal/ids"
	"github.com/liftdesk/liftdesk/internal/models"
)

// Strict 24-hour wall-clock time, zero-padded, no seconds. Lexicographic
// comparison of values in this shape equals chronological order.
var timeRE = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

const defaultColor = "#3b82f6"

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateTypeInput struct {
	Name            string `json:"name" validate:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes" validate:"omitempty,min=1"`
	MaxCapacity     int    `json:"maxCapacity" validate:"omitempty,min=1"`
	Color           string `json:"color"`
}

func (s *Service) CreateType(ctx context.Context, gymID string, in CreateTypeInput) (*models.ClassType, error) {
	if in.DurationMinutes == 0 {
		in.DurationMinutes = 60
	}
	if in.MaxCapacity == 0 {
		in.MaxCapacity = 20
	}
	if in.Color == "" {
		in.Color = defaultColor
	}
	ct := &models.ClassType{
		ID:              ids.New(),
		GymID:           gymID,
		Name:            in.Name,
		Description:     optional(in.Description),
		DurationMinutes: in.DurationMinutes,
		MaxCapacity:     in.MaxCapacity,
		Color:           in.Color,
		IsActive:        true,
	}
	if err := s.db.WithContext(ctx).Create(ct).Error; err != nil {
		return nil, err
	}
	return ct, nil
}

// ListTypes returns class types across the caller's gyms, name ascending.
// Superset fetch plus in-memory gym-set filter, same as member listings.
func (s *Service) ListTypes(ctx context.Context, gymIDs []string) ([]models.ClassType, error) {
	if len(gymIDs) == 0 {
		return nil, nil
	}
	var all []models.ClassType
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&all).Error; err != nil {
		return nil, err
	}
	set := toSet(gymIDs)
	out := all[:0]
	for _, t := range all {
		if _, ok := set[t.GymID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Service) DeleteType(ctx context.Context, gymIDs []string, id string) error {
	var ct models.ClassType
	err := s.db.WithContext(ctx).First(&ct, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("class type not found")
	}
	if err != nil {
		return err
	}
	if _, ok := toSet(gymIDs)[ct.GymID]; !ok {
		return apperr.NotFound("class type not found")
	}
	return s.db.WithContext(ctx).Delete(&models.ClassType{}, "id = ?", id).Error
}

type CreateScheduleInput struct {
	ClassTypeID  string `json:"classTypeId" validate:"required"`
	InstructorID string `json:"instructorId"`
	DayOfWeek    int    `json:"dayOfWeek" validate:"min=0,max=6"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
	Room         string `json:"room"`
}

// CreateSchedule validates the slot shape and that the referenced class
// type (and instructor, when given) belong to the same gym. Overlap and
// start<end checks are deliberately absent.
func (s *Service) CreateSchedule(ctx context.Context, gymID string, in CreateScheduleInput) (*models.ClassSchedule, error) {
	fields := map[string][]string{}
	if !timeRE.MatchString(in.StartTime) {
		fields["startTime"] = append(fields["startTime"], "must be HH:MM, 24-hour, zero-padded")
	}
	if !timeRE.MatchString(in.EndTime) {
		fields["endTime"] = append(fields["endTime"], "must be HH:MM, 24-hour, zero-padded")
	}
	if len(fields) > 0 {
		return nil, apperr.Validation(fields)
	}

	var ct models.ClassType
	err := s.db.WithContext(ctx).Where("id = ? AND gym_id = ?", in.ClassTypeID, gymID).First(&ct).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("class type not found")
	}
	if err != nil {
		return nil, err
	}

	var instructorID *string
	if in.InstructorID != "" {
		var tr models.Trainer
		err := s.db.WithContext(ctx).Where("id = ? AND gym_id = ?", in.InstructorID, gymID).First(&tr).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("trainer not found")
		}
		if err != nil {
			return nil, err
		}
		instructorID = &tr.ID
	}

	cs := &models.ClassSchedule{
		ID:           ids.New(),
		GymID:        gymID,
		ClassTypeID:  in.ClassTypeID,
		InstructorID: instructorID,
		DayOfWeek:    in.DayOfWeek,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Room:         optional(in.Room),
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(cs).Error; err != nil {
		return nil, err
	}
	return cs, nil
}

// ListSchedulesForGym returns one gym's schedules with class type and
// instructor eager-loaded, ordered day-of-week then start time.
func (s *Service) ListSchedulesForGym(ctx context.Context, gymID string) ([]models.ClassSchedule, error) {
	var out []models.ClassSchedule
	err := s.db.WithContext(ctx).
		Preload("ClassType").
		Preload("Instructor").
		Where("gym_id = ?", gymID).
		Order("day_of_week ASC, start_time ASC").
		Find(&out).Error
	return out, err
}

// ListSchedulesForBusiness is the cross-gym variant: superset fetch,
// in-memory filter, same ordering.
func (s *Service) ListSchedulesForBusiness(ctx context.Context, gymIDs []string) ([]models.ClassSchedule, error) {
	if len(gymIDs) == 0 {
		return nil, nil
	}
	var all []models.ClassSchedule
	err := s.db.WithContext(ctx).
		Preload("ClassType").
		Preload("Instructor").
		Order("day_of_week ASC, start_time ASC").
		Find(&all).Error
	if err != nil {
		return nil, err
	}
	set := toSet(gymIDs)
	out := all[:0]
	for _, cs := range all {
		if _, ok := set[cs.GymID]; ok {
			out = append(out, cs)
		}
	}
	return out, nil
}

func (s *Service) DeleteSchedule(ctx context.Context, gymIDs []string, id string) error {
	var cs models.ClassSchedule
	err := s.db.WithContext(ctx).First(&cs, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("schedule not found")
	}
	if err != nil {
		return err
	}
	if _, ok := toSet(gymIDs)[cs.GymID]; !ok {
		return apperr.NotFound("schedule not found")
	}
	return s.db.WithContext(ctx).Delete(&models.ClassSchedule{}, "id = ?", id).Error
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
