package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App          AppConfig
	Store        StoreConfig
	Database     DatabaseConfig
	SMTP         SMTPConfig
	Notification NotificationConfig
	Attendance   AttendanceConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	CORSOrigins []string
}

// StoreConfig selects the record store backing attendance and employees
type StoreConfig struct {
	Driver     string
	SQLitePath string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// SMTPConfig holds outgoing mail configuration. An empty Host disables sending.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	NotifyTo string
}

// NotificationConfig holds late arrival dispatcher configuration
type NotificationConfig struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	BackoffBase time.Duration
	SendTimeout time.Duration
	MaxRetained int
}

type AttendanceConfig struct {
	LateAlertThresholdMinutes int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{}
	var err error

	// Application configuration
	appPort, err := getEnvInt("APP_PORT", 8080)
	if err != nil {
		return nil, err
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	// Store configuration
	config.Store = StoreConfig{
		Driver:     strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		SQLitePath: getEnv("SQLITE_PATH", "attendance.db"),
	}

	// Database configuration
	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// SMTP configuration
	smtpPort, err := getEnvInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@attendance.local"),
		FromName: getEnv("SMTP_FROM_NAME", "Attendance Control"),
		NotifyTo: getEnv("NOTIFY_TO", ""),
	}

	// Notification dispatcher configuration
	config.Notification.Workers, err = getEnvInt("NOTIFY_WORKERS", 2)
	if err != nil {
		return nil, err
	}
	config.Notification.QueueSize, err = getEnvInt("NOTIFY_QUEUE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	config.Notification.MaxAttempts, err = getEnvInt("NOTIFY_MAX_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	config.Notification.BackoffBase, err = getEnvDuration("NOTIFY_BACKOFF_BASE", 5*time.Second)
	if err != nil {
		return nil, err
	}
	config.Notification.SendTimeout, err = getEnvDuration("NOTIFY_SEND_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	config.Notification.MaxRetained, err = getEnvInt("NOTIFY_MAX_RETAINED", 1000)
	if err != nil {
		return nil, err
	}

	// Attendance configuration
	config.Attendance.LateAlertThresholdMinutes, err = getEnvInt("LATE_ALERT_THRESHOLD_MINUTES", 60)
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.Store.Driver)
	}

	if c.Attendance.LateAlertThresholdMinutes <= 0 {
		return fmt.Errorf("LATE_ALERT_THRESHOLD_MINUTES must be positive")
	}
	if c.Notification.MaxAttempts <= 0 {
		return fmt.Errorf("NOTIFY_MAX_ATTEMPTS must be positive")
	}
	if c.Notification.Workers <= 0 {
		return fmt.Errorf("NOTIFY_WORKERS must be positive")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
