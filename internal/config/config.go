package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Log      LogConfig
	Worker   WorkerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Booking  BookingConfig
}

type ServerConfig struct {
	Host        string
	Port        int
	Env         string
	CORSOrigins string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxConns        int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	AutoMigrate     bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CacheConfig struct {
	SeatCountTTL time.Duration
	ReportTTL    time.Duration
	NewsTTL      time.Duration
}

type LogConfig struct {
	Level string
}

type WorkerConfig struct {
	Enabled           bool
	ConsumerGroup     string
	StreamReadTimeout time.Duration
	MaxRetries        int
	BatchSize         int
	ScanFeedEnabled   bool
	ScanDebounce      time.Duration
}

// AuthConfig описывает выдачу сессионных токенов и зарезервированные коды входа
type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	Issuer     string
	AdminCode  string
	DriverCode string
}

type CatalogConfig struct {
	// File - путь к YAML с расписанием маршрутов и станций; пусто = встроенный каталог
	File string
}

type BookingConfig struct {
	TimeZone        string
	DuplicateWindow time.Duration
	MaxBatchDates   int
	IDRetries       int
}

func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// .env необязателен: в контейнере все значения приходят из окружения
		if !errors.Is(err, fs.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:        viper.GetString("API_HOST"),
			Port:        viper.GetInt("API_PORT"),
			Env:         viper.GetString("API_ENV"),
			CORSOrigins: viper.GetString("API_CORS_ORIGINS"),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			DBName:          viper.GetString("DB_NAME"),
			SSLMode:         viper.GetString("DB_SSLMODE"),
			MaxConns:        viper.GetInt("DB_MAX_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: time.Duration(viper.GetInt("DB_CONN_MAX_LIFETIME")) * time.Second,
			ConnMaxIdleTime: time.Duration(viper.GetInt("DB_CONN_MAX_IDLE_TIME")) * time.Second,
			AutoMigrate:     viper.GetBool("DB_AUTO_MIGRATE"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetInt("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			SeatCountTTL: time.Duration(viper.GetInt("SEAT_COUNT_CACHE_TTL")) * time.Second,
			ReportTTL:    time.Duration(viper.GetInt("REPORT_CACHE_TTL")) * time.Second,
			NewsTTL:      time.Duration(viper.GetInt("NEWS_CACHE_TTL")) * time.Second,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Worker: WorkerConfig{
			Enabled:           viper.GetBool("WORKER_ENABLED"),
			ConsumerGroup:     viper.GetString("WORKER_CONSUMER_GROUP"),
			StreamReadTimeout: time.Duration(viper.GetInt("WORKER_STREAM_READ_TIMEOUT")) * time.Millisecond,
			MaxRetries:        viper.GetInt("WORKER_MAX_RETRIES"),
			BatchSize:         viper.GetInt("WORKER_BATCH_SIZE"),
			ScanFeedEnabled:   viper.GetBool("WORKER_SCAN_FEED_ENABLED"),
			ScanDebounce:      time.Duration(viper.GetInt("WORKER_SCAN_DEBOUNCE")) * time.Millisecond,
		},
		Auth: AuthConfig{
			JWTSecret:  viper.GetString("AUTH_JWT_SECRET"),
			TokenTTL:   time.Duration(viper.GetInt("AUTH_TOKEN_TTL")) * time.Second,
			Issuer:     viper.GetString("AUTH_ISSUER"),
			AdminCode:  strings.TrimSpace(viper.GetString("AUTH_ADMIN_CODE")),
			DriverCode: strings.TrimSpace(viper.GetString("AUTH_DRIVER_CODE")),
		},
		Catalog: CatalogConfig{
			File: viper.GetString("CATALOG_FILE"),
		},
		Booking: BookingConfig{
			TimeZone:        viper.GetString("BOOKING_TIMEZONE"),
			DuplicateWindow: time.Duration(viper.GetInt("BOOKING_DUPLICATE_WINDOW")) * time.Millisecond,
			MaxBatchDates:   viper.GetInt("BOOKING_MAX_BATCH_DATES"),
			IDRetries:       viper.GetInt("BOOKING_ID_RETRIES"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if _, err := cfg.Location(); err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("API_HOST", "0.0.0.0")
	viper.SetDefault("API_PORT", 8080)
	viper.SetDefault("API_ENV", "development")
	viper.SetDefault("API_CORS_ORIGINS", "http://localhost:3000,http://localhost:5173")

	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 20)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", 1800)
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", 300)
	viper.SetDefault("DB_AUTO_MIGRATE", true)

	viper.SetDefault("REDIS_PORT", 6379)

	viper.SetDefault("SEAT_COUNT_CACHE_TTL", 30)
	viper.SetDefault("REPORT_CACHE_TTL", 60)
	viper.SetDefault("NEWS_CACHE_TTL", 0)

	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("WORKER_ENABLED", true)
	viper.SetDefault("WORKER_CONSUMER_GROUP", "shuttle-booking-workers")
	viper.SetDefault("WORKER_STREAM_READ_TIMEOUT", 5000)
	viper.SetDefault("WORKER_MAX_RETRIES", 3)
	viper.SetDefault("WORKER_BATCH_SIZE", 10)
	viper.SetDefault("WORKER_SCAN_FEED_ENABLED", true)
	viper.SetDefault("WORKER_SCAN_DEBOUNCE", 3000)

	viper.SetDefault("AUTH_TOKEN_TTL", 86400)
	viper.SetDefault("AUTH_ISSUER", "shuttle-booking")
	viper.SetDefault("AUTH_ADMIN_CODE", "admin")
	viper.SetDefault("AUTH_DRIVER_CODE", "driver")

	viper.SetDefault("BOOKING_TIMEZONE", "Asia/Bangkok")
	viper.SetDefault("BOOKING_DUPLICATE_WINDOW", 60000)
	viper.SetDefault("BOOKING_MAX_BATCH_DATES", 31)
	viper.SetDefault("BOOKING_ID_RETRIES", 3)
}

// Location возвращает часовой пояс, в котором считаются даты поездок
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Booking.TimeZone)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}
