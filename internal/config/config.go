package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port                 string
	Env                  string
	LogLevel             string
	AllowedOrigins       []string
	FrontendURL          string
	DatabaseURL          string
	DBMaxOpenConns       int
	DBMaxIdleConns       int
	DBConnMaxLifetimeMin int
	RedisURL             string
	RedisPassword        string
	SnapshotTTL          time.Duration
	JWTSecret            string
	SeatTokenTTL         time.Duration
	BoardColumns         int
	BoardRows            int
	PostGameWindow       time.Duration
	SessionIdleTimeout   time.Duration
	CleanupInterval      time.Duration
	ArchiveRetentionDays int
}

var AppConfig *Config

func LoadConfig() *Config {
	port := GetEnv("PORT", "8080")

	// Frontend & CORS
	frontendURL := GetEnv("FRONTEND_URL", "http://localhost:5173")
	allowedOrigins := []string{frontendURL}
	if extras := GetEnv("ALLOWED_ORIGINS", ""); extras != "" {
		for _, origin := range strings.Split(extras, ",") {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				allowedOrigins = append(allowedOrigins, trimmed)
			}
		}
	}

	// Append simple_protocol for PgBouncer compatibility (pgx driver)
	dbURL := GetEnv("DATABASE_URL", "")
	if dbURL != "" {
		if u, err := url.Parse(dbURL); err == nil {
			q := u.Query()
			if q.Get("default_query_exec_mode") == "" {
				q.Set("default_query_exec_mode", "simple_protocol")
				u.RawQuery = q.Encode()
				dbURL = u.String()
			}
		}
	}

	AppConfig = &Config{
		Port:                 port,
		Env:                  GetEnv("APP_ENV", "development"),
		LogLevel:             GetEnv("LOG_LEVEL", "info"),
		AllowedOrigins:       allowedOrigins,
		FrontendURL:          frontendURL,
		DatabaseURL:          dbURL,
		DBMaxOpenConns:       GetEnvAsInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns:       GetEnvAsInt("DB_MAX_IDLE_CONNS", 25),
		DBConnMaxLifetimeMin: GetEnvAsInt("DB_CONN_MAX_LIFETIME_MINUTES", 5),
		RedisURL:             GetEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:        GetEnv("REDIS_PASSWORD", ""),
		SnapshotTTL:          GetEnvAsDuration("REDIS_SNAPSHOT_TTL_MINUTES", 120, time.Minute),
		JWTSecret:            GetEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		SeatTokenTTL:         GetEnvAsDuration("SEAT_TOKEN_TTL_HOURS", 24, time.Hour),
		BoardColumns:         GetEnvAsInt("BOARD_COLUMNS", 6),
		BoardRows:            GetEnvAsInt("BOARD_ROWS", 6),
		PostGameWindow:       GetEnvAsDuration("POST_GAME_WINDOW_SECONDS", 300, time.Second),
		SessionIdleTimeout:   GetEnvAsDuration("SESSION_IDLE_HOURS", 24, time.Hour),
		CleanupInterval:      GetEnvAsDuration("CLEANUP_INTERVAL_MINUTES", 60, time.Minute),
		ArchiveRetentionDays: GetEnvAsInt("ARCHIVE_RETENTION_DAYS", 90),
	}

	return AppConfig
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}
	return value
}

// GetEnvAsDuration reads an integer count of unit.
func GetEnvAsDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(GetEnvAsInt(key, defaultValue)) * unit
}
