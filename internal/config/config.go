package config

import (
	"os"
	"strconv"
)

type Config struct {
	// APP
	AppEnv string
	Port   string

	// Database
	DBHost string
	DBPort string
	DBUser string
	DBPass string
	DBName string

	JWTSecret string

	// Google Meet
	MeetToken  string
	MeetUserID string

	// Clockify
	ClockifyAPIKey      string
	ClockifyWorkspaceID string
	ClockifyUserID      string

	// Admin login
	AdminUsername string
	AdminPassword string

	// Delay between create calls, plus extra cooldown after a 429
	SyncDelayMs         int
	RateLimitCooldownMs int
}

func Load() (*Config, error) {
	cfg := &Config{
		// App
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "8001"),

		// DB
		DBHost: getEnv("DB_HOST", "127.0.0.1"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBUser: getEnv("DB_USER", "postgres"),
		DBPass: getEnv("DB_PASS", "aufa"),
		DBName: getEnv("DB_NAME", "meetsync_db"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "secret123"),

		// Google Meet
		MeetToken:  getEnv("MEET_TOKEN", ""),
		MeetUserID: getEnv("MEET_USER_ID", ""),

		// Clockify
		ClockifyAPIKey:      getEnv("CLOCKIFY_API_KEY", ""),
		ClockifyWorkspaceID: getEnv("CLOCKIFY_WORKSPACE_ID", ""),
		ClockifyUserID:      getEnv("CLOCKIFY_USER_ID", ""),

		// Admin login
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "meetsync-2026"),

		// Pacing settings
		SyncDelayMs:         getEnvInt("SYNC_DELAY_MS", 1000),
		RateLimitCooldownMs: getEnvInt("RATE_LIMIT_COOLDOWN_MS", 200),
	}

	return cfg, nil
}

// getEnv returns environment variable or default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns int from env or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
