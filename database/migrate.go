package database

import (
	"fmt"
	"log"

	"salonhub_backend/internal/config"
	"salonhub_backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var gormDB *gorm.DB

// ConnectGorm инициализирует GORM с URL из config.yaml.
// TranslateError обязателен: репозитории различают нарушение
// уникальных индексов через gorm.ErrDuplicatedKey.
func ConnectGorm() (*gorm.DB, error) {
	if gormDB != nil {
		return gormDB, nil
	}

	cfg := config.GetConfig()
	dsn := cfg.Database.DSN

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to GORM: %w", err)
	}

	gormDB = db
	return db, nil
}

// AutoMigrate выполняет миграцию всех моделей
func AutoMigrate() error {
	db, err := ConnectGorm()
	if err != nil {
		return err
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.Booking{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("❌ AutoMigrate ошибка: %v", err)
	}

	log.Println("✅ AutoMigrate успешно завершен.")
	return nil
}
