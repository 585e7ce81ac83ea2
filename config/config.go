package config

import (
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm/logger"
)

type Config struct {
	Port        string
	CORSOrigins []string
	DBLogLevel  logger.LogLevel
	SeedData    bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL     string
	CheckInIDPrefix string
}

// Load reads the process environment. main loads .env before calling it.
func Load() Config {
	cfg := Config{
		Port:            envOrDefault("PORT", "8080"),
		CORSOrigins:     splitList(envOrDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")),
		DBLogLevel:      parseLogLevel(envOrDefault("DB_LOG_LEVEL", "warn")),
		SeedData:        envBool("SEED_DATA", true),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RabbitMQURL:     strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		CheckInIDPrefix: strings.ToUpper(envOrDefault("CHECKIN_ID_PREFIX", "CI")),
	}

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" {
		if port == "" {
			port = "6379"
		}
		cfg.RedisAddr = host + ":" + port
	}
	if n, err := strconv.Atoi(os.Getenv("REDIS_DB")); err == nil {
		cfg.RedisDB = n
	}
	return cfg
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLogLevel(s string) logger.LogLevel {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}
