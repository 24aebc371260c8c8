package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/liftdesk/liftdesk/internal/models"
)

// Open opens (or creates) the SQLite database at path and migrates the
// schema. The handle is returned to the caller for injection; there is no
// package-level connection.
func Open(path string) (*gorm.DB, error) {
	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := Migrate(conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// Migrate creates all tables and the composite indexes GORM does not
// auto-create from struct tags.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Organization{},
		&models.OrgMembership{},
		&models.Business{},
		&models.Gym{},
		&models.GymMember{},
		&models.CheckIn{},
		&models.ClassType{},
		&models.ClassSchedule{},
		&models.ClassBooking{},
		&models.Trainer{},
		&models.SubscriptionPlan{},
		&models.PTPackage{},
		&models.Payment{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	conn.Exec("CREATE INDEX IF NOT EXISTS idx_booking_schedule ON class_bookings(class_schedule_id)")
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_booking_member   ON class_bookings(gym_member_id)")
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_booking_date     ON class_bookings(class_date)")
	return nil
}
