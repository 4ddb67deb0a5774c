package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"birthdaybot/bot"
	"birthdaybot/config"
	"birthdaybot/dal"
	"birthdaybot/dates"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg(".env file not found, relying on the environment.")
	}

	cfg := config.Load()
	if cfg.BotToken == "" {
		logger.Fatal().Msg("BOT_TOKEN must be set.")
	}

	db, err := dal.Open(cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize database.")
	}
	logger.Info().Msg("Connected to database.")

	normalizer := dates.NewNormalizer(cfg.Locale)

	b, err := bot.New(cfg.BotToken, cfg.GuildID, db, normalizer, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to start bot.")
	}
	defer b.Shutdown()

	ticker := time.NewTicker(time.Minute)
	done := make(chan bool)
	go b.Greeter(ticker, done)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ticker.Stop()
	done <- true
}
