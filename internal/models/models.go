package models

import (
	"time"

	"gorm.io/datatypes"
)

// Member status values.
const (
	MemberActive    = "active"
	MemberInactive  = "inactive"
	MemberSuspended = "suspended"
	MemberCancelled = "cancelled"
)

// Booking status values. booked is the only non-terminal state.
const (
	BookingBooked    = "booked"
	BookingAttended  = "attended"
	BookingCancelled = "cancelled"
	BookingNoShow    = "no_show"
)

// Payment status values.
const (
	PaymentPending   = "pending"
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)

// Business is the tenant-owned company record; exactly one per organization.
type Business struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	OrganizationID string `gorm:"uniqueIndex;not null"`
	Name           string `gorm:"not null"`
	Email          *string
	Phone          *string
	Address        *string

	Gyms []Gym `gorm:"constraint:OnDelete:CASCADE"`
}

type Gym struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	BusinessID string `gorm:"index;not null"`
	Name       string `gorm:"not null"`
	Slug       string `gorm:"not null"` // URL-safe, derived from name
	Address    *string
	Phone      *string
	Email      *string
	Facilities datatypes.JSONSlice[string]
	IsActive   bool `gorm:"not null;default:true"`

	Members    []GymMember     `gorm:"constraint:OnDelete:CASCADE"`
	Trainers   []Trainer       `gorm:"constraint:OnDelete:CASCADE"`
	ClassTypes []ClassType     `gorm:"constraint:OnDelete:CASCADE"`
	Schedules  []ClassSchedule `gorm:"constraint:OnDelete:CASCADE"`
}

// GymMember is a person with a gym membership. The record can exist before
// any login account links to it; UserID is set at most once and never reset.
type GymMember struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	GymID  string  `gorm:"index;not null"`
	UserID *string `gorm:"index"`

	FirstName        string `gorm:"not null"`
	LastName         string `gorm:"not null"`
	Email            *string
	Phone            *string
	DateOfBirth      *time.Time
	EmergencyContact *string
	EmergencyPhone   *string
	Notes            *string

	MemberNumber string `gorm:"uniqueIndex;not null"` // MEM-<base36 ts>-<rand>
	QRToken      string `gorm:"column:qr_code;uniqueIndex;not null"`
	Status       string `gorm:"not null;default:active"`
	JoinDate     time.Time
	ExpiryDate   *time.Time
}

type CheckIn struct {
	ID          string `gorm:"primaryKey"`
	GymMemberID string `gorm:"index;not null"`
	GymID       string `gorm:"index;not null"`
	CheckedInAt time.Time
}

// ClassType is a bookable offering template, not a scheduled instance.
type ClassType struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	GymID           string `gorm:"index;not null"`
	Name            string `gorm:"not null"`
	Description     *string
	DurationMinutes int    `gorm:"not null;default:60"`
	MaxCapacity     int    `gorm:"not null;default:20"`
	Color           string `gorm:"default:#3b82f6"`
	IsActive        bool   `gorm:"not null;default:true"`
}

// ClassSchedule is a recurring weekly slot. Times are wall-clock "HH:MM"
// strings in the gym's local time; lexicographic order equals chronological
// order within a day.
type ClassSchedule struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	GymID        string  `gorm:"index;not null"`
	ClassTypeID  string  `gorm:"index;not null"`
	InstructorID *string `gorm:"index"`
	DayOfWeek    int     `gorm:"not null"` // 0=Sunday .. 6=Saturday
	StartTime    string  `gorm:"not null"` // "09:00"
	EndTime      string  `gorm:"not null"`
	Room         *string
	IsActive     bool `gorm:"not null;default:true"`

	ClassType  ClassType
	Instructor *Trainer `gorm:"foreignKey:InstructorID"`
}

// ClassBooking ties a member to one concrete calendar occurrence of a
// schedule. The composite unique index closes the race between concurrent
// duplicate submissions; the application-level check only makes the error
// friendlier.
type ClassBooking struct {
	ID string `gorm:"primaryKey"`

	ClassScheduleID string    `gorm:"not null;uniqueIndex:uniq_booking_occurrence"`
	GymMemberID     string    `gorm:"not null;uniqueIndex:uniq_booking_occurrence"`
	ClassDate       time.Time `gorm:"not null;uniqueIndex:uniq_booking_occurrence"`

	Status      string `gorm:"not null;default:booked"`
	BookedAt    time.Time
	CancelledAt *time.Time

	ClassSchedule ClassSchedule
}

type Trainer struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	GymID  string  `gorm:"index;not null"`
	UserID *string `gorm:"index"`

	FirstName      string `gorm:"not null"`
	LastName       string `gorm:"not null"`
	Email          *string
	Phone          *string
	Bio            *string
	Specialties    datatypes.JSONSlice[string]
	Certifications datatypes.JSONSlice[string]
	HourlyRate     *int64 // cents
	IsActive       bool   `gorm:"not null;default:true"`
}

type SubscriptionPlan struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	BusinessID    string  `gorm:"index;not null"`
	GymID         *string `gorm:"index"` // nil = all gyms of the business
	Name          string  `gorm:"not null"`
	Description   *string
	PriceInCents  int64  `gorm:"not null"`
	BillingPeriod string `gorm:"not null;default:monthly"` // monthly|quarterly|yearly
	Features      datatypes.JSONSlice[string]
	IsActive      bool `gorm:"not null;default:true"`
}

type PTPackage struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	GymID        string `gorm:"index;not null"`
	Name         string `gorm:"not null"`
	Description  *string
	SessionCount int   `gorm:"not null"`
	PriceInCents int64 `gorm:"not null"`
	ValidityDays int   `gorm:"not null;default:90"`
	IsActive     bool  `gorm:"not null;default:true"`
}

type Payment struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time

	GymMemberID        string  `gorm:"index;not null"`
	SubscriptionPlanID *string `gorm:"index"`
	AmountInCents      int64   `gorm:"not null"`
	Currency           string  `gorm:"not null;default:USD"`
	Status             string  `gorm:"not null;default:pending;index"`
	PaymentMethod      string  `gorm:"not null;default:card"` // card|cash|bank_transfer|other
	Description        *string
	PaidAt             *time.Time

	GymMember        GymMember
	SubscriptionPlan *SubscriptionPlan
}
