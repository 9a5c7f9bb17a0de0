package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var DefaultEnvConfig *envConfig

type envConfig struct {
	// app config
	APP_PORT                  string
	DATA_FILE                 string
	REFERENCE_YEAR            int
	SENIORITY_THRESHOLD_YEARS int
	REPORT_LAYOUT_PATH        string
	// database config
	DB_ENABLED           bool
	DB_HOST              string
	DB_PORT              int
	DB_USER              string
	DB_PASSWORD          string
	DB_NAME              string
	DB_SSL_MODE          string
	DB_CONN_MAX_LIFETIME time.Duration
	DB_MAX_IDLE_CONNS    int
	DB_MAX_OPEN_CONNS    int
	// logger config
	LOG_FILE_PATH string
	LOG_LEVEL     string
}

// LoadEnvConfig reads an optional .env file and fills DefaultEnvConfig from
// the environment.
func LoadEnvConfig(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	DefaultEnvConfig = &envConfig{
		APP_PORT:                  getEnvString("APP_PORT", "8080"),
		DATA_FILE:                 getEnvString("DATA_FILE", "employee_data.txt"),
		REFERENCE_YEAR:            getEnvInt("REFERENCE_YEAR", 0),
		SENIORITY_THRESHOLD_YEARS: getEnvInt("SENIORITY_THRESHOLD_YEARS", 10),
		REPORT_LAYOUT_PATH:        getEnvString("REPORT_LAYOUT_PATH", ""),
		DB_ENABLED:                getEnvBool("DB_ENABLED", false),
		DB_HOST:                   getEnvString("DB_HOST", "localhost"),
		DB_PORT:                   getEnvInt("DB_PORT", 5432),
		DB_USER:                   getEnvString("DB_USER", "postgres"),
		DB_PASSWORD:               getEnvString("DB_PASSWORD", "postgres"),
		DB_NAME:                   getEnvString("DB_NAME", "postgres"),
		DB_SSL_MODE:               getEnvString("DB_SSL_MODE", "disable"),
		DB_CONN_MAX_LIFETIME:      getEnvDuration("DB_CONN_MAX_LIFETIME", 20*time.Minute),
		DB_MAX_IDLE_CONNS:         getEnvInt("DB_MAX_IDLE_CONNS", 10),
		DB_MAX_OPEN_CONNS:         getEnvInt("DB_MAX_OPEN_CONNS", 100),
		LOG_FILE_PATH:             getEnvString("LOG_FILE_PATH", ""),
		LOG_LEVEL:                 getEnvString("LOG_LEVEL", "info"),
	}
	return nil
}

// ReferenceYear returns the configured reference year, or the year of now
// when none is configured.
func (c *envConfig) ReferenceYear(now time.Time) int {
	if c.REFERENCE_YEAR > 0 {
		return c.REFERENCE_YEAR
	}
	return now.Year()
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
		if i, err := strconv.Atoi(val); err == nil {
			return time.Duration(i) * time.Second
		}
	}
	return fallback
}
