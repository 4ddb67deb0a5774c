package dal

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"birthdaybot/models"
)

// SetupTestDB creates an in-memory SQLite database with the schema migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to create test database")

	// an in-memory SQLite database exists per connection
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&models.Birthday{}, &models.GuildSettings{})
	require.NoError(t, err, "Failed to migrate test database")

	t.Cleanup(func() {
		require.NoError(t, sqlDB.Close(), "Failed to close test database")
	})

	return db
}
