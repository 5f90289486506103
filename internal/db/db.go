package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/lead-crm/internal/config"
	"github.com/BruksfildServices01/lead-crm/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Agent{},
		&models.Booking{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if err := SeedAgents(db); err != nil {
		log.Fatalf("failed to seed agents: %v", err)
	}

	return db
}

// SeedAgents inserts the fixed agents, leaving existing rows untouched.
func SeedAgents(db *gorm.DB) error {
	agents := make([]models.Agent, len(models.SeedAgents))
	copy(agents, models.SeedAgents)

	return db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&agents).Error
}
