package migration

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/noah-isme/bookly-api/internal/models"
	"github.com/noah-isme/bookly-api/pkg/config"
	"github.com/noah-isme/bookly-api/pkg/database"
)

// Models lists every table owned by the service in creation order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Book{},
		&models.Review{},
		&models.Tag{},
		&models.BookTag{},
	}
}

// Open connects gorm to the configured PostgreSQL database.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(database.DSN(cfg)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return db, nil
}

// Run creates or updates the schema.
func Run(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
