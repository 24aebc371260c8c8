// Package billing records subscription plans, PT packages and payments.
// Append and read only: no reconciliation, no processor integration.
// All amounts are integer cents; division by 100 happens at presentation
// time, never here.
package billing

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

const paymentsListLimit = 100

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

type CreatePlanInput struct {
	Name          string   `json:"name" validate:"required"`
	Description   string   `json:"description"`
	PriceInCents  int64    `json:"priceInCents" validate:"min=0"`
	BillingPeriod string   `json:"billingPeriod" validate:"omitempty,oneof=monthly quarterly yearly"`
	Features      []string `json:"features"`
	GymID         string   `json:"gymId"` // empty = all gyms of the business
}

func (s *Service) CreatePlan(ctx context.Context, businessID string, gymIDs []string, in CreatePlanInput) (*models.SubscriptionPlan, error) {
	var gymID *string
	if in.GymID != "" {
		if !contains(gymIDs, in.GymID) {
			return nil, apperr.NotFound("gym not found")
		}
		gymID = &in.GymID
	}
	if in.BillingPeriod == "" {
		in.BillingPeriod = "monthly"
	}
	p := &models.SubscriptionPlan{
		ID:            ids.New(),
		BusinessID:    businessID,
		GymID:         gymID,
		Name:          in.Name,
		Description:   optional(in.Description),
		PriceInCents:  in.PriceInCents,
		BillingPeriod: in.BillingPeriod,
		Features:      datatypes.JSONSlice[string](in.Features),
		IsActive:      true,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListPlans(ctx context.Context, businessID string) ([]models.SubscriptionPlan, error) {
	var out []models.SubscriptionPlan
	err := s.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

func (s *Service) DeletePlan(ctx context.Context, businessID, id string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", id, businessID).
		Delete(&models.SubscriptionPlan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("plan not found")
	}
	return nil
}

type CreatePTPackageInput struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description"`
	SessionCount int    `json:"sessionCount" validate:"min=1"`
	PriceInCents int64  `json:"priceInCents" validate:"min=0"`
	ValidityDays int    `json:"validityDays" validate:"omitempty,min=1"`
}

func (s *Service) CreatePTPackage(ctx context.Context, gymID string, in CreatePTPackageInput) (*models.PTPackage, error) {
	if in.ValidityDays == 0 {
		in.ValidityDays = 90
	}
	p := &models.PTPackage{
		ID:           ids.New(),
		GymID:        gymID,
		Name:         in.Name,
		Description:  optional(in.Description),
		SessionCount: in.SessionCount,
		PriceInCents: in.PriceInCents,
		ValidityDays: in.ValidityDays,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListPTPackages(ctx context.Context, gymIDs []string) ([]models.PTPackage, error) {
	if len(gymIDs) == 0 {
		return nil, nil
	}
	var all []models.PTPackage
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&all).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(gymIDs))
	for _, id := range gymIDs {
		set[id] = struct{}{}
	}
	out := all[:0]
	for _, p := range all {
		if _, ok := set[p.GymID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) DeletePTPackage(ctx context.Context, gymIDs []string, id string) error {
	var p models.PTPackage
	err := s.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("package not found")
	}
	if err != nil {
		return err
	}
	if !contains(gymIDs, p.GymID) {
		return apperr.NotFound("package not found")
	}
	return s.db.WithContext(ctx).Delete(&models.PTPackage{}, "id = ?", id).Error
}

type RecordPaymentInput struct {
	GymMemberID        string `json:"gymMemberId" validate:"required"`
	SubscriptionPlanID string `json:"subscriptionPlanId"`
	AmountInCents      int64  `json:"amountInCents" validate:"min=0"`
	PaymentMethod      string `json:"paymentMethod" validate:"required,oneof=card cash bank_transfer other"`
	Description        string `json:"description"`
}

// RecordPayment appends a payment row against a member in the caller's
// scope. Staff record money already taken at the desk, so the row is
// succeeded and paid the moment it exists; pending/failed are for
// processor flows outside this core.
func (s *Service) RecordPayment(ctx context.Context, businessID string, gymIDs []string, in RecordPaymentInput) (*models.Payment, error) {
	var m models.GymMember
	err := s.db.WithContext(ctx).First(&m, "id = ?", in.GymMemberID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("member not found")
	}
	if err != nil {
		return nil, err
	}
	if !contains(gymIDs, m.GymID) {
		return nil, apperr.NotFound("member not found")
	}

	var planID *string
	if in.SubscriptionPlanID != "" {
		var plan models.SubscriptionPlan
		err := s.db.WithContext(ctx).
			Where("id = ? AND business_id = ?", in.SubscriptionPlanID, businessID).
			First(&plan).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("plan not found")
		}
		if err != nil {
			return nil, err
		}
		planID = &plan.ID
	}

	now := time.Now()
	p := &models.Payment{
		ID:                 ids.New(),
		GymMemberID:        in.GymMemberID,
		SubscriptionPlanID: planID,
		AmountInCents:      in.AmountInCents,
		Currency:           "USD",
		Status:             models.PaymentSucceeded,
		PaymentMethod:      in.PaymentMethod,
		Description:        optional(in.Description),
		PaidAt:             &now,
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListPayments returns the caller's most recent payments with member and
// plan eager-loaded. The tenant filter runs in the query, before the
// limit, so a busy neighbor cannot crowd a tenant out of its own page.
func (s *Service) ListPayments(ctx context.Context, gymIDs []string) ([]models.Payment, error) {
	if len(gymIDs) == 0 {
		return nil, nil
	}
	members := s.db.Model(&models.GymMember{}).Select("id").Where("gym_id IN ?", gymIDs)
	var out []models.Payment
	err := s.db.WithContext(ctx).
		Preload("GymMember").
		Preload("SubscriptionPlan").
		Where("gym_member_id IN (?)", members).
		Order("created_at DESC").
		Limit(paymentsListLimit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
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
