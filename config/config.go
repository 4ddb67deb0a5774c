package config

import "os"

// Database holds the PostgreSQL connection settings.
type Database struct {
	Name     string
	User     string
	Password string
	Host     string
	Port     string
}

// Config holds the application configuration, resolved once at startup.
type Config struct {
	BotToken string
	// GuildID scopes slash-command registration to a single test guild.
	// Empty registers the commands globally.
	GuildID  string
	Locale   string
	Database Database
}

// Load reads the configuration from environment variables or defaults.
func Load() *Config {
	return &Config{
		BotToken: getEnv("BOT_TOKEN", ""),
		GuildID:  getEnv("GUILD_ID", ""),
		Locale:   getEnv("LOCALE", "en_US"),
		Database: Database{
			Name:     getEnv("DB_NAME", "postgres"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnv("DB_PORT", "5432"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
