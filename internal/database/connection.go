// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/chatnil/compliance-backend/internal/config"
	"github.com/chatnil/compliance-backend/internal/models"
	"github.com/chatnil/compliance-backend/internal/utils"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Deal{},
		&models.ComplianceScore{},
		&models.InfoRequestRecord{},
		&models.AppealRecord{},
		&models.AuditLogEntry{},
		&models.Notification{},
		&models.MatchInvite{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_state ON users(role, state)",

		// Deal indexes
		"CREATE INDEX IF NOT EXISTS idx_deals_athlete_status ON deals(athlete_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_deals_status_created ON deals(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_deals_decision ON deals(compliance_decision)",

		// Score indexes
		"CREATE INDEX IF NOT EXISTS idx_scores_status ON compliance_scores(status)",

		// Appeal indexes
		"CREATE INDEX IF NOT EXISTS idx_appeals_deal ON appeal_records(deal_id)",
		"CREATE INDEX IF NOT EXISTS idx_appeals_status_submitted ON appeal_records(status, submitted_at ASC)",

		// Info request indexes
		"CREATE INDEX IF NOT EXISTS idx_info_requests_deal_status ON info_request_records(deal_id, status)",

		// Audit log indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_deal_created ON audit_log_entries(deal_id, created_at ASC)",
		"CREATE INDEX IF NOT EXISTS idx_audit_athlete_created ON audit_log_entries(athlete_id, created_at ASC)",
		"CREATE INDEX IF NOT EXISTS idx_audit_action ON audit_log_entries(action)",

		// Notification indexes
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, read_at)",

		// Match invite indexes
		"CREATE INDEX IF NOT EXISTS idx_match_invites_athlete_status ON match_invites(athlete_id, status)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username: "admin",
			Email:    "admin@chatnil.com",
			Role:     models.UserRoleAdmin,
			FullName: "System Administrator",
		}

		password, err := utils.GenerateRandomString(16)
		if err != nil {
			return fmt.Errorf("failed to generate admin password: %w", err)
		}
		if err := admin.SetPassword(password); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Printf("Default admin user created (admin@chatnil.com / %s) - change the password after first login", password)
	}

	var officerCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleComplianceOfficer).Count(&officerCount)

	if officerCount == 0 {
		officer := &models.User{
			Username: "compliance",
			Email:    "compliance@chatnil.com",
			Role:     models.UserRoleComplianceOfficer,
			FullName: "Compliance Officer",
		}

		password, err := utils.GenerateRandomString(16)
		if err != nil {
			return fmt.Errorf("failed to generate officer password: %w", err)
		}
		if err := officer.SetPassword(password); err != nil {
			return fmt.Errorf("failed to set officer password: %w", err)
		}

		if err := db.Create(officer).Error; err != nil {
			return fmt.Errorf("failed to create compliance officer: %w", err)
		}

		log.Printf("Default compliance officer created (compliance@chatnil.com / %s) - change the password after first login", password)
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}

// RowLock adds FOR UPDATE on dialects that support it. The sqlite driver
// used in tests serializes writers on its own and rejects the clause.
func RowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
