// Package config loads runtime settings and opens the database.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	Port    string
	GinMode string

	DBDriver    string
	DatabaseDSN string

	JWTSecret string
	TokenTTL  time.Duration

	OtpTTL         time.Duration
	OtpMaxAttempts int

	RabbitMQURL     string
	NotifyExchange  string
	NotifyQueueSize int
	NotifyTimeout   time.Duration

	CORSOrigin string
	LogLevel   string
	LogFormat  string

	RateLimitRPS   float64
	OtpVerifyRPS   float64
	OtpVerifyBurst int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "dinein.db")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("OTP_TTL", "5m")
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("NOTIFY_EXCHANGE", "dinein.notifications")
	v.SetDefault("NOTIFY_QUEUE_SIZE", 256)
	v.SetDefault("NOTIFY_TIMEOUT", "3s")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("OTP_VERIFY_RPS", 1)
	v.SetDefault("OTP_VERIFY_BURST", 5)
}

// Load reads .env (if present), then the optional YAML file, then the
// environment. Environment variables win over the file.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Port:            v.GetString("PORT"),
		GinMode:         v.GetString("GIN_MODE"),
		DBDriver:        strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		TokenTTL:        v.GetDuration("TOKEN_TTL"),
		OtpTTL:          v.GetDuration("OTP_TTL"),
		OtpMaxAttempts:  v.GetInt("OTP_MAX_ATTEMPTS"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		NotifyExchange:  v.GetString("NOTIFY_EXCHANGE"),
		NotifyQueueSize: v.GetInt("NOTIFY_QUEUE_SIZE"),
		NotifyTimeout:   v.GetDuration("NOTIFY_TIMEOUT"),
		CORSOrigin:      v.GetString("CORS_ORIGIN"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
		OtpVerifyRPS:    v.GetFloat64("OTP_VERIFY_RPS"),
		OtpVerifyBurst:  v.GetInt("OTP_VERIFY_BURST"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}
	if c.OtpTTL <= 0 {
		return errors.New("OTP_TTL must be positive")
	}
	return nil
}

// OpenDB connects to the configured store. Timestamps are written in UTC.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		NowFunc:        func() time.Time { return time.Now().UTC() },
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		// one writer at a time; sqlite has no row locks
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}
