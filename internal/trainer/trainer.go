// Package trainer owns the trainer roster: gym-scoped CRUD with tri-state
// partial updates and JSON-serialized tag lists.
package trainer

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/liftdesk/liftdesk/internal/apperr"
	"github.com/liftdesk/liftdesk/internal/ids"
	"github.com/liftdesk/liftdesk/internal/models"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateInput struct {
	FirstName      string   `json:"firstName" validate:"required"`
	LastName       string   `json:"lastName" validate:"required"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Phone          string   `json:"phone"`
	Bio            string   `json:"bio"`
	Specialties    []string `json:"specialties"`
	Certifications []string `json:"certifications"`
	HourlyRate     *int64   `json:"hourlyRate" validate:"omitempty,min=0"` // cents
}

type UpdateInput struct {
	FirstName      *string   `json:"firstName"`
	LastName       *string   `json:"lastName"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	Bio            *string   `json:"bio"`
	Specialties    *[]string `json:"specialties"`
	Certifications *[]string `json:"certifications"`
	HourlyRate     *int64    `json:"hourlyRate"`
}

func (s *Service) Create(ctx context.Context, gymID string, in CreateInput) (*models.Trainer, error) {
	t := &models.Trainer{
		ID:             ids.New(),
		GymID:          gymID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          optional(in.Email),
		Phone:          optional(in.Phone),
		Bio:            optional(in.Bio),
		Specialties:    datatypes.JSONSlice[string](in.Specialties),
		Certifications: datatypes.JSONSlice[string](in.Certifications),
		HourlyRate:     in.HourlyRate,
		IsActive:       true,
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) ListForGym(ctx context.Context, gymID string) ([]models.Trainer, error) {
	var out []models.Trainer
	err := s.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Order("last_name ASC, first_name ASC").
		Find(&out).Error
	return out, err
}

func (s *Service) ListForBusiness(ctx context.Context, gymIDs []string) ([]models.Trainer, error) {
	if len(gymIDs) == 0 {
		return nil, nil
	}
	var all []models.Trainer
	if err := s.db.WithContext(ctx).
		Order("last_name ASC, first_name ASC").
		Find(&all).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(gymIDs))
	for _, id := range gymIDs {
		set[id] = struct{}{}
	}
	out := all[:0]
	for _, t := range all {
		if _, ok := set[t.GymID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// ActiveForGym lists a gym's active trainers for the member portal,
// lastName then firstName ascending.
func (s *Service) ActiveForGym(ctx context.Context, gymID string) ([]models.Trainer, error) {
	var out []models.Trainer
	err := s.db.WithContext(ctx).
		Where("gym_id = ? AND is_active = ?", gymID, true).
		Order("last_name ASC, first_name ASC").
		Find(&out).Error
	return out, err
}

func (s *Service) get(ctx context.Context, gymIDs []string, id string) (*models.Trainer, error) {
	var t models.Trainer
	err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("trainer not found")
	}
	if err != nil {
		return nil, err
	}
	for _, g := range gymIDs {
		if g == t.GymID {
			return &t, nil
		}
	}
	return nil, apperr.NotFound("trainer not found")
}

func (s *Service) Update(ctx context.Context, gymIDs []string, id string, in UpdateInput) error {
	if _, err := s.get(ctx, gymIDs, id); err != nil {
		return err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.Email != nil {
		updates["email"] = nullable(*in.Email)
	}
	if in.Phone != nil {
		updates["phone"] = nullable(*in.Phone)
	}
	if in.Bio != nil {
		updates["bio"] = nullable(*in.Bio)
	}
	if in.Specialties != nil {
		updates["specialties"] = datatypes.JSONSlice[string](*in.Specialties)
	}
	if in.Certifications != nil {
		updates["certifications"] = datatypes.JSONSlice[string](*in.Certifications)
	}
	if in.HourlyRate != nil {
		updates["hourly_rate"] = *in.HourlyRate
	}
	return s.db.WithContext(ctx).Model(&models.Trainer{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Service) SetActive(ctx context.Context, gymIDs []string, id string, active bool) error {
	if _, err := s.get(ctx, gymIDs, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&models.Trainer{}).Where("id = ?", id).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now()}).Error
}

func (s *Service) Delete(ctx context.Context, gymIDs []string, id string) error {
	if _, err := s.get(ctx, gymIDs, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Trainer{}, "id = ?", id).Error
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
