package models

import "time"

// Auth tables are owned by the identity subsystem; the domain layer treats
// them as opaque and only ever joins through GymMember.UserID and
// Trainer.UserID.

type User struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name         string
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Image        *string
}

type Session struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID    string `gorm:"index;not null"`
	Token     string `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time

	// The organization the session currently acts on behalf of.
	ActiveOrganizationID *string

	User User
}

type Organization struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name string `gorm:"not null"`
	Slug string `gorm:"uniqueIndex;not null"`
	Logo *string
}

// OrgMembership links a user to an organization with a role.
type OrgMembership struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time

	OrganizationID string `gorm:"index:idx_org_membership,unique;not null"`
	UserID         string `gorm:"index:idx_org_membership,unique;not null"`
	Role           string `gorm:"not null;default:owner"`
}
