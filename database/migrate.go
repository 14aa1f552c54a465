package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"qyzmet_backend/internal/config"
	"qyzmet_backend/internal/logger"
	"qyzmet_backend/internal/models"
)

var gormDB *gorm.DB

// ConnectGorm инициализирует GORM с URL из конфига.
// TranslateError обязателен: маппинг нарушений уникальных индексов
// на gorm.ErrDuplicatedKey используется репозиториями.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.User{},
		&models.SeekerProfile{},
		&models.ProviderProfile{},
		&models.Category{},
		&models.JobRequest{},
		&models.Offer{},
		&models.Review{},
		&models.Complaint{},
		&models.AdminAction{},
		&models.UpgradeRequest{},
		&models.Notification{},
	)
	if err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	// Частичный уникальный индекс: не более одной pending-заявки на
	// апгрейд на пользователя. AutoMigrate такие индексы не умеет.
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_upgrade_requests_one_pending
		ON upgrade_requests (user_id)
		WHERE status = 'pending'
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create partial unique index: %w", err)
	}

	// Не более одного принятого оффера на заявку
	err = db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_offers_one_accepted
		ON offers (job_request_id)
		WHERE status = 'accepted'
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create partial unique index: %w", err)
	}

	logger.Info("Database migration completed")
	return nil
}
