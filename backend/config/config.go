package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	// StorageKey is the key the course list blob is persisted under.
	StorageKey string

	LogFormat  string
	LogLevel   string
	SessionTTL time.Duration
}

// LoadConfig reads the given .env files (".env" when none are passed) and
// then the process environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	err := godotenv.Load(envFiles...)
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBDriver:   strings.ToLower(getEnv("DB_DRIVER", DriverSQLite)),
		DBPath:     getEnv("DB_PATH", "skilllist.db"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "skilllist"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		StorageKey: getEnv("STORAGE_KEY", "skillListCourses"),
		LogFormat:  getEnv("LOG_FORMAT", "text"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		SessionTTL: getEnvDuration("SESSION_TTL", 24*time.Hour),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("Invalid duration for %s: %q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}
