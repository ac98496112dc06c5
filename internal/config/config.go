package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	Payroll      PayrollConfig
	Notification NotificationConfig
	Cron         CronConfig
}

type DatabaseConfig struct {
	Driver         string
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int32
	MinConns       int32
	MigrateOnStart bool
	TxTimeout      time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	AllowedOrigins []string
	// SeedDemoData loads demo staff on start; only honoured by the memory driver.
	SeedDemoData bool
}

// PayrollConfig holds the business calendar settings. EpochDate is a civil
// date at UTC midnight.
type PayrollConfig struct {
	Location  *time.Location
	EpochDate time.Time
}

type NotificationConfig struct {
	QueueSize int
	Workers   int
}

// CronConfig holds background job intervals
type CronConfig struct {
	ReminderInterval   time.Duration
	ReminderAfter      time.Duration
	TokenPruneInterval time.Duration
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env file: %w", err)
	} else if err != nil {
		log.Println("no .env file found, reading configuration from environment")
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	migrateOnStart, err := strconv.ParseBool(getEnv("DB_MIGRATE_ON_START", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIGRATE_ON_START: %w", err)
	}
	txTimeout, err := time.ParseDuration(getEnv("TX_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TX_TIMEOUT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:         strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		Host:           getEnv("DB_HOST", "localhost"),
		Port:           dbPort,
		User:           getEnv("DB_USER", "postgres"),
		Password:       getEnv("DB_PASSWORD", ""),
		Name:           getEnv("DB_NAME", "payroll"),
		SSLMode:        getEnv("DB_SSL_MODE", "disable"),
		MaxConns:       int32(maxConns),
		MinConns:       int32(minConns),
		MigrateOnStart: migrateOnStart,
		TxTimeout:      txTimeout,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	seedDemo, err := strconv.ParseBool(getEnv("SEED_DEMO_DATA", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO_DATA: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
		SeedDemoData:   seedDemo,
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// Payroll calendar
	loc, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	epoch, err := time.Parse("2006-01-02", getEnv("PAYROLL_EPOCH_DATE", "2024-01-01"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_EPOCH_DATE: %w", err)
	}
	config.Payroll = PayrollConfig{
		Location:  loc,
		EpochDate: epoch,
	}

	// Notification queue
	queueSize, err := strconv.Atoi(getEnv("NOTIFICATION_QUEUE_SIZE", "1000"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_QUEUE_SIZE: %w", err)
	}
	workers, err := strconv.Atoi(getEnv("NOTIFICATION_WORKERS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_WORKERS: %w", err)
	}
	config.Notification = NotificationConfig{
		QueueSize: queueSize,
		Workers:   workers,
	}

	// Background jobs
	reminderInterval, err := time.ParseDuration(getEnv("PAYSLIP_REMINDER_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYSLIP_REMINDER_INTERVAL: %w", err)
	}
	reminderAfter, err := time.ParseDuration(getEnv("PAYSLIP_REMINDER_AFTER", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYSLIP_REMINDER_AFTER: %w", err)
	}
	pruneInterval, err := time.ParseDuration(getEnv("TOKEN_PRUNE_INTERVAL", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_PRUNE_INTERVAL: %w", err)
	}
	config.Cron = CronConfig{
		ReminderInterval:   reminderInterval,
		ReminderAfter:      reminderAfter,
		TokenPruneInterval: pruneInterval,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverMemory)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Database.TxTimeout <= 0 {
		return fmt.Errorf("TX_TIMEOUT must be positive")
	}
	if c.Notification.QueueSize <= 0 || c.Notification.Workers <= 0 {
		return fmt.Errorf("NOTIFICATION_QUEUE_SIZE and NOTIFICATION_WORKERS must be positive")
	}
	if c.Cron.ReminderInterval <= 0 || c.Cron.TokenPruneInterval <= 0 {
		return fmt.Errorf("PAYSLIP_REMINDER_INTERVAL and TOKEN_PRUNE_INTERVAL must be positive")
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

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
