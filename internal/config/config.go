package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Tunables for the realtime channel and catch-up paging.
const (
	// Websocket
	WriteWait      = 10 * time.Second
	PongWait       = 60 * time.Second
	PingPeriod     = (PongWait * 9) / 10
	MaxMessageSize = 4096

	// SessionQueueSize bounds the per-session outbound event queue. A full
	// queue drops events for that session only; catch-up covers the gap.
	SessionQueueSize = 256

	// Catch-up paging
	DefaultCatchupLimit = 200
	MaxCatchupLimit     = 500
)

// Config carries the process-level settings read from the environment.
type Config struct {
	ListenAddr    string
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	// TelegramBotToken enables the offline-recipient notifier when set.
	TelegramBotToken string
}

// Load builds the config from environment variables (main loads .env first).
func Load() *Config {
	redisDB, _ := strconv.Atoi(getenv("REDIS_DB", "0"))
	return &Config{
		ListenAddr: getenv("LISTEN_ADDR", ":8080"),
		PostgresDSN: fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			getenv("DB_HOST", "localhost"),
			getenv("DB_USER", "user"),
			getenv("DB_PASSWORD", "password"),
			getenv("DB_NAME", "messagingdb"),
			getenv("DB_PORT", "5432"),
		),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,
		JWTSecret:        getenv("JWT_SECRET", "dev-only-secret"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
