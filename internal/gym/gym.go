// Package gym owns the gym entity: creation, tri-state partial updates,
// activation toggling and deletion, always scoped to the owning business.
package gym

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
	Name       string   `json:"name" validate:"required"`
	Address    string   `json:"address"`
	Phone      string   `json:"phone"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Facilities []string `json:"facilities"`
}

// UpdateInput carries tri-state fields: a nil pointer leaves the column
// untouched, an explicit empty string clears it to NULL.
type UpdateInput struct {
	Name       *string   `json:"name"`
	Address    *string   `json:"address"`
	Phone      *string   `json:"phone"`
	Email      *string   `json:"email"`
	Facilities *[]string `json:"facilities"`
}

func (s *Service) Create(ctx context.Context, businessID string, in CreateInput) (*models.Gym, error) {
	g := &models.Gym{
		ID:         ids.New(),
		BusinessID: businessID,
		Name:       in.Name,
		Slug:       Slugify(in.Name),
		Address:    optional(in.Address),
		Phone:      optional(in.Phone),
		Email:      optional(in.Email),
		Facilities: datatypes.JSONSlice[string](in.Facilities),
		IsActive:   true,
	}
	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) Get(ctx context.Context, businessID, id string) (*models.Gym, error) {
	var g models.Gym
	err := s.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("gym not found")
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *Service) Update(ctx context.Context, businessID, id string, in UpdateInput) error {
	if _, err := s.Get(ctx, businessID, id); err != nil {
		return err
	}

	updates := map[string]any{"updated_at": time.Now()}
	if in.Name != nil {
		updates["name"] = *in.Name
		updates["slug"] = Slugify(*in.Name)
	}
	if in.Address != nil {
		updates["address"] = nullable(*in.Address)
	}
	if in.Phone != nil {
		updates["phone"] = nullable(*in.Phone)
	}
	if in.Email != nil {
		updates["email"] = nullable(*in.Email)
	}
	if in.Facilities != nil {
		updates["facilities"] = datatypes.JSONSlice[string](*in.Facilities)
	}
	return s.db.WithContext(ctx).Model(&models.Gym{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Service) SetActive(ctx context.Context, businessID, id string, active bool) error {
	if _, err := s.Get(ctx, businessID, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&models.Gym{}).Where("id = ?", id).
		Updates(map[string]any{"is_active": active, "updated_at": time.Now()}).Error
}

func (s *Service) Delete(ctx context.Context, businessID, id string) error {
	if _, err := s.Get(ctx, businessID, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.Gym{}, "id = ?", id).Error
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

// nullable maps an explicit empty string to NULL for tri-state updates.
func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
