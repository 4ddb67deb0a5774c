package dal

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"birthdaybot/config"
	"birthdaybot/models"
)

// Open connects to the configured PostgreSQL database and migrates the
// schema. The returned handle is the sole source of truth; nothing is cached
// in process.
func Open(cfg config.Database) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Birthday{}, &models.GuildSettings{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}
