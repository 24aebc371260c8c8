// Package identity is the authentication collaborator: users, sessions and
// organizations. The domain services never inspect credentials; they consume
// sessions resolved here and treat this package as authoritative.
package identity

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/liftdesk/liftdesk/internal/ids"
	"github.com/liftdesk/liftdesk/internal/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSlugTaken          = errors.New("organization slug already taken")
	ErrNotMember          = errors.New("user is not a member of this organization")
)

type Service struct {
	db  *gorm.DB
	ttl time.Duration
}

func NewService(db *gorm.DB, sessionTTL time.Duration) *Service {
	return &Service{db: db, ttl: sessionTTL}
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           ids.New(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User
		if err := tx.Where("email = ?", email).First(&existing).Error; err == nil {
			return ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies the password and issues a fresh session token.
func (s *Service) Login(ctx context.Context, email, password string) (*models.Session, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	sess := &models.Session{
		ID:        ids.New(),
		UserID:    user.ID,
		Token:     ids.NewN(32),
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, err
	}
	sess.User = user
	return sess, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Where("token = ?", token).Delete(&models.Session{}).Error
}

// GetSession returns the live session for token, or nil when the token is
// unknown or expired. Absence is not an error.
func (s *Service) GetSession(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, nil
	}
	var sess models.Session
	err := s.db.WithContext(ctx).Preload("User").Where("token = ?", token).First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if time.Now().After(sess.ExpiresAt) {
		return nil, nil
	}
	return &sess, nil
}

// CreateOrganization creates an organization and enrolls the user as owner.
func (s *Service) CreateOrganization(ctx context.Context, userID, name, slug string) (*models.Organization, error) {
	org := &models.Organization{
		ID:   ids.New(),
		Name: name,
		Slug: slug,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Organization
		if err := tx.Where("slug = ?", slug).First(&existing).Error; err == nil {
			return ErrSlugTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(org).Error; err != nil {
			return err
		}
		return tx.Create(&models.OrgMembership{
			ID:             ids.New(),
			OrganizationID: org.ID,
			UserID:         userID,
			Role:           "owner",
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

// SetActiveOrganization records orgID as the organization the session acts
// on behalf of. The user must be a member of it.
func (s *Service) SetActiveOrganization(ctx context.Context, sess *models.Session, orgID string) error {
	var m models.OrgMembership
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND user_id = ?", orgID, sess.UserID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotMember
	}
	if err != nil {
		return err
	}
	sess.ActiveOrganizationID = &orgID
	return s.db.WithContext(ctx).Model(&models.Session{}).
		Where("id = ?", sess.ID).
		Update("active_organization_id", orgID).Error
}

// GetFullOrganization returns the session's active organization, or nil when
// none is selected.
func (s *Service) GetFullOrganization(ctx context.Context, sess *models.Session) (*models.Organization, error) {
	if sess == nil || sess.ActiveOrganizationID == nil {
		return nil, nil
	}
	var org models.Organization
	err := s.db.WithContext(ctx).First(&org, "id = ?", *sess.ActiveOrganizationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &org, nil
}
