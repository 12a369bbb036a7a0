// Package config handles configuration loading for the auth service.
package config

import (
	"time"
)

// Config holds all configuration for the auth service.
// It is loaded once at startup and never mutated afterwards.
type Config struct {
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	SMTPHost      string
	SMTPPort      int
	SMTPUsername  string
	SMTPPassword  string
	SMTPFrom      string
	JWTSecret     string
	JWTExpiry     time.Duration
	OTPTTL        time.Duration
	Port          string
	Environment   string
}

// Load reads configuration from environment variables.
// Missing required variables (including the JWT signing secret) are a
// fatal startup condition, not a per-request error.
func Load() *Config {
	return &Config{
		DBHost:        GetEnvRequired("DB_HOST"),
		DBPort:        GetEnvRequired("DB_PORT"),
		DBUser:        GetEnvRequired("DB_USER"),
		DBPassword:    GetEnvRequired("DB_PASSWORD"),
		DBName:        GetEnvRequired("DB_NAME"),
		RedisHost:     GetEnvRequired("REDIS_HOST"),
		RedisPort:     GetEnvRequired("REDIS_PORT"),
		RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		SMTPHost:      GetEnvRequired("SMTP_HOST"),
		SMTPPort:      parseInt(GetEnv("SMTP_PORT", "587"), 587),
		SMTPUsername:  GetEnvRequired("SMTP_USERNAME"),
		SMTPPassword:  GetEnvRequired("SMTP_PASSWORD"),
		SMTPFrom:      GetEnv("SMTP_FROM", "Farm-Forecast <no-reply@farm-forecast.io>"),
		JWTSecret:     GetEnvRequired("JWT_SECRET"),
		JWTExpiry:     parseDuration(GetEnv("JWT_EXPIRY", "24h"), 24*time.Hour),
		OTPTTL:        parseDuration(GetEnv("OTP_TTL", "10m"), 10*time.Minute),
		Port:          GetEnv("PORT", "8084"),
		Environment:   GetEnv("ENVIRONMENT", "development"),
	}
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
