// Package tenancy resolves the chain identity → organization → business →
// gyms and fails closed when any link is absent. Every owner-side operation
// goes through a Scope produced here.
package tenancy

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/liftdesk/liftdesk/internal/apperr"
	"github.com/liftdesk/liftdesk/internal/gym"
	"github.com/liftdesk/liftdesk/internal/identity"
	"github.com/liftdesk/liftdesk/internal/ids"
	"github.com/liftdesk/liftdesk/internal/models"
)

var (
	ErrNoActiveOrganization = errors.New("no active organization")
	ErrNoBusiness           = errors.New("no business found for organization")
)

type Resolver struct {
	db  *gorm.DB
	idp *identity.Service
}

func NewResolver(db *gorm.DB, idp *identity.Service) *Resolver {
	return &Resolver{db: db, idp: idp}
}

// Scope is the resolved tenant context for one request.
type Scope struct {
	Session      *models.Session
	Organization *models.Organization
	Business     *models.Business
	Gyms         []models.Gym

	gymSet map[string]struct{}
}

func (sc *Scope) GymIDs() []string {
	out := make([]string, len(sc.Gyms))
	for i, g := range sc.Gyms {
		out[i] = g.ID
	}
	return out
}

func (sc *Scope) OwnsGym(id string) bool {
	_, ok := sc.gymSet[id]
	return ok
}

func (r *Resolver) ResolveSession(ctx context.Context, token string) (*models.Session, error) {
	sess, err := r.idp.GetSession(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, apperr.Unauthorized("sign in required")
	}
	return sess, nil
}

func (r *Resolver) ResolveOrganization(ctx context.Context, sess *models.Session) (*models.Organization, error) {
	org, err := r.idp.GetFullOrganization(ctx, sess)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, ErrNoActiveOrganization
	}
	return org, nil
}

func (r *Resolver) ResolveBusiness(ctx context.Context, organizationID string) (*models.Business, error) {
	var biz models.Business
	err := r.db.WithContext(ctx).Where("organization_id = ?", organizationID).First(&biz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoBusiness
	}
	if err != nil {
		return nil, err
	}
	return &biz, nil
}

func (r *Resolver) ListGyms(ctx context.Context, businessID string) ([]models.Gym, error) {
	var gyms []models.Gym
	err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("name ASC").
		Find(&gyms).Error
	return gyms, err
}

// ResolveScope walks the full chain once per request.
func (r *Resolver) ResolveScope(ctx context.Context, token string) (*Scope, error) {
	sess, err := r.ResolveSession(ctx, token)
	if err != nil {
		return nil, err
	}
	org, err := r.ResolveOrganization(ctx, sess)
	if err != nil {
		return nil, err
	}
	biz, err := r.ResolveBusiness(ctx, org.ID)
	if err != nil {
		return nil, err
	}
	gyms, err := r.ListGyms(ctx, biz.ID)
	if err != nil {
		return nil, err
	}

	set := make(map[string]struct{}, len(gyms))
	for _, g := range gyms {
		set[g.ID] = struct{}{}
	}
	return &Scope{
		Session:      sess,
		Organization: org,
		Business:     biz,
		Gyms:         gyms,
		gymSet:       set,
	}, nil
}

// OnboardingStatus flags are monotone: each can only be true if the previous
// one is.
type OnboardingStatus struct {
	HasIdentity     bool `json:"hasIdentity"`
	HasOrganization bool `json:"hasOrganization"`
	HasBusiness     bool `json:"hasBusiness"`
	HasGym          bool `json:"hasGym"`
}

// CheckOnboardingStatus never fails; every resolution error degrades to
// false flags so the caller can be routed to the right setup step.
func (r *Resolver) CheckOnboardingStatus(ctx context.Context, token string) OnboardingStatus {
	sess, err := r.idp.GetSession(ctx, token)
	if err != nil || sess == nil {
		return OnboardingStatus{}
	}
	org, err := r.idp.GetFullOrganization(ctx, sess)
	if err != nil || org == nil {
		return OnboardingStatus{HasIdentity: true}
	}
	biz, err := r.ResolveBusiness(ctx, org.ID)
	if err != nil {
		return OnboardingStatus{HasIdentity: true, HasOrganization: true}
	}
	gyms, err := r.ListGyms(ctx, biz.ID)
	if err != nil {
		return OnboardingStatus{HasIdentity: true, HasOrganization: true, HasBusiness: true}
	}
	return OnboardingStatus{
		HasIdentity:     true,
		HasOrganization: true,
		HasBusiness:     true,
		HasGym:          len(gyms) > 0,
	}
}

type OnboardingInput struct {
	BusinessName  string `json:"businessName" validate:"required"`
	BusinessEmail string `json:"businessEmail" validate:"omitempty,email"`
	BusinessPhone string `json:"businessPhone"`
	GymName       string `json:"gymName" validate:"required"`
	GymAddress    string `json:"gymAddress"`
}

// CompleteOnboarding creates the organization, marks it active on the
// session, then creates the business and the first gym.
func (r *Resolver) CompleteOnboarding(ctx context.Context, sess *models.Session, in OnboardingInput) error {
	org, err := r.idp.CreateOrganization(ctx, sess.UserID, in.BusinessName, gym.Slugify(in.BusinessName))
	if err != nil {
		return err
	}
	if err := r.idp.SetActiveOrganization(ctx, sess, org.ID); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		biz := &models.Business{
			ID:             ids.New(),
			OrganizationID: org.ID,
			Name:           in.BusinessName,
			Email:          optional(in.BusinessEmail),
			Phone:          optional(in.BusinessPhone),
		}
		if err := tx.Create(biz).Error; err != nil {
			return err
		}
		return tx.Create(&models.Gym{
			ID:         ids.New(),
			BusinessID: biz.ID,
			Name:       in.GymName,
			Slug:       gym.Slugify(in.GymName),
			Address:    optional(in.GymAddress),
			IsActive:   true,
		}).Error
	})
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
