// Package member is the membership directory: creation with generated member
// number and QR credential, the one-way account link, tri-state partial
// updates, status lifecycle and check-ins.
package member

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/liftdesk/liftdesk/internal/apperr"
	"github.com/liftdesk/liftdesk/internal/ids"
	"github.com/liftdesk/liftdesk/internal/models"
)

var (
	// ErrMemberNotFound covers both "no such member" and a wrong
	// (memberNumber, email) pair on link attempts.
	ErrMemberNotFound = errors.New("member not found")
	// ErrAlreadyLinked: the matched member already has an account bound to
	// it. The binding is one-way; there is no unlink.
	ErrAlreadyLinked = errors.New("membership already linked to an account")
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreateInput struct {
	FirstName        string `json:"firstName" validate:"required"`
	LastName         string `json:"lastName" validate:"required"`
	Email            string `json:"email" validate:"omitempty,email"`
	Phone            string `json:"phone"`
	DateOfBirth      string `json:"dateOfBirth" validate:"omitempty,datetime=2006-01-02"`
	EmergencyContact string `json:"emergencyContact"`
	EmergencyPhone   string `json:"emergencyPhone"`
	Notes            string `json:"notes"`
}

// UpdateInput is tri-state: nil leaves a field untouched, an explicit empty
// string clears it to NULL. This distinction is load-bearing for forms that
// allow clearing a field.
type UpdateInput struct {
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	DateOfBirth      *string `json:"dateOfBirth"`
	EmergencyContact *string `json:"emergencyContact"`
	EmergencyPhone   *string `json:"emergencyPhone"`
	Notes            *string `json:"notes"`
}

func (s *Service) Create(ctx context.Context, gymID string, in CreateInput) (*models.GymMember, error) {
	memberID := ids.New()
	m := &models.GymMember{
		ID:               memberID,
		GymID:            gymID,
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            optional(in.Email),
		Phone:            optional(in.Phone),
		DateOfBirth:      parseDate(in.DateOfBirth),
		EmergencyContact: optional(in.EmergencyContact),
		EmergencyPhone:   optional(in.EmergencyPhone),
		Notes:            optional(in.Notes),
		MemberNumber:     NewMemberNumber(),
		QRToken:          GenerateQRToken(gymID, memberID),
		Status:           models.MemberActive,
		JoinDate:         time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// ListForGym returns one gym's members, filtered at the storage layer.
func (s *Service) ListForGym(ctx context.Context, gymID string) ([]models.GymMember, error) {
	var out []models.GymMember
	err := s.db.WithContext(ctx).
		Where("gym_id = ?", gymID).
		Order("last_name ASC, first_name ASC").
		Find(&out).Error
	return out, err
}

// ListForBusiness returns members across all of the caller's gyms. The
// superset is fetched and filtered in memory against the resolved gym-id
// set; rows outside the set never escape.
func (s *Service) ListForBusiness(ctx context.Context, gymIDs []string) ([]models.GymMember, error) {
	if len(gymIDs) == 0 {
		return nil, nil
	}
	var all []models.GymMember
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
	for _, m := range all {
		if _, ok := set[m.GymID]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// Get returns a member only when its owning gym is inside the caller's
// scope; anything else is NotFound.
func (s *Service) Get(ctx context.Context, gymIDs []string, id string) (*models.GymMember, error) {
	var m models.GymMember
	err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("member not found")
	}
	if err != nil {
		return nil, err
	}
	if !contains(gymIDs, m.GymID) {
		return nil, apperr.NotFound("member not found")
	}
	return &m, nil
}

func (s *Service) Update(ctx context.Context, gymIDs []string, id string, in UpdateInput) error {
	if _, err := s.Get(ctx, gymIDs, id); err != nil {
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
	if in.DateOfBirth != nil {
		updates["date_of_birth"] = parseDate(*in.DateOfBirth)
	}
	if in.EmergencyContact != nil {
		updates["emergency_contact"] = nullable(*in.EmergencyContact)
	}
	if in.EmergencyPhone != nil {
		updates["emergency_phone"] = nullable(*in.EmergencyPhone)
	}
	if in.Notes != nil {
		updates["notes"] = nullable(*in.Notes)
	}
	return s.db.WithContext(ctx).Model(&models.GymMember{}).Where("id = ?", id).Updates(updates).Error
}

func (s *Service) UpdateStatus(ctx context.Context, gymIDs []string, id, status string) error {
	switch status {
	case models.MemberActive, models.MemberInactive, models.MemberSuspended, models.MemberCancelled:
	default:
		return apperr.Validation(map[string][]string{
			"status": {"must be one of: active inactive suspended cancelled"},
		})
	}
	if _, err := s.Get(ctx, gymIDs, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(&models.GymMember{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()}).Error
}

func (s *Service) Delete(ctx context.Context, gymIDs []string, id string) error {
	if _, err := s.Get(ctx, gymIDs, id); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&models.GymMember{}, "id = ?", id).Error
}

// LinkAccount binds userID to the member matching the exact
// (memberNumber, email) pair. The binding is permanent: a second attempt
// against the same member always fails with ErrAlreadyLinked, and the check
// plus write run in one transaction so concurrent links cannot both win.
func (s *Service) LinkAccount(ctx context.Context, memberNumber, email, userID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.GymMember
		err := tx.Where("member_number = ? AND email = ?", memberNumber, email).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMemberNotFound
		}
		if err != nil {
			return err
		}
		if m.UserID != nil {
			return ErrAlreadyLinked
		}
		return tx.Model(&models.GymMember{}).Where("id = ?", m.ID).
			Updates(map[string]any{"user_id": userID, "updated_at": time.Now()}).Error
	})
}

// ProfileForUser resolves the member record linked to a login account,
// together with its gym. Returns NotFound when no membership is linked.
func (s *Service) ProfileForUser(ctx context.Context, userID string) (*models.GymMember, *models.Gym, error) {
	var m models.GymMember
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, apperr.NotFound("no membership linked to this account")
	}
	if err != nil {
		return nil, nil, err
	}
	var g models.Gym
	if err := s.db.WithContext(ctx).First(&g, "id = ?", m.GymID).Error; err != nil {
		return nil, nil, err
	}
	return &m, &g, nil
}

// RecordCheckIn appends a check-in event. Multiple check-ins per day are
// permitted by design; there is no conflict check.
func (s *Service) RecordCheckIn(ctx context.Context, gymIDs []string, memberID, gymID string) error {
	m, err := s.Get(ctx, gymIDs, memberID)
	if err != nil {
		return err
	}
	if !contains(gymIDs, gymID) || m.GymID != gymID {
		return apperr.NotFound("member not found")
	}
	return s.db.WithContext(ctx).Create(&models.CheckIn{
		ID:          ids.New(),
		GymMemberID: memberID,
		GymID:       gymID,
		CheckedInAt: time.Now(),
	}).Error
}

func (s *Service) ListCheckIns(ctx context.Context, gymIDs []string, memberID string, limit int) ([]models.CheckIn, error) {
	if _, err := s.Get(ctx, gymIDs, memberID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	var out []models.CheckIn
	err := s.db.WithContext(ctx).
		Where("gym_member_id = ?", memberID).
		Order("checked_in_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
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

func parseDate(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return nil
	}
	return &t
}
