package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string
	LogLevel      string

	API       APIConfig
	Session   SessionConfig
	Metrics   MetricsConfig
	Migration MigrationConfig
}

// APIConfig адрес удалённого API расписания
type APIConfig struct {
	URL string
	// Timeout 0 - без собственного таймаута, как у транспорта по умолчанию
	Timeout time.Duration
}

type SessionConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

// MetricsConfig пустой Addr выключает HTTP эндпоинт метрик
type MetricsConfig struct {
	Addr string
}

// MigrationConfig пустой Dir - встроенные миграции
type MigrationConfig struct {
	Dir string
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		TelegramToken: v.GetString("TELEGRAM_TOKEN"),
		DBDSN:         v.GetString("DB_DSN"),
		Environment:   v.GetString("ENV"),
		LogLevel:      v.GetString("LOG_LEVEL"),
	}

	cfg.API = APIConfig{
		URL:     strings.TrimRight(v.GetString("API_URL"), "/"),
		Timeout: parseDuration(v.GetString("API_TIMEOUT"), 0),
	}

	cfg.Session = SessionConfig{
		TTL:             parseDuration(v.GetString("SESSION_TTL"), 30*24*time.Hour),
		CleanupInterval: parseDuration(v.GetString("SESSION_CLEANUP_INTERVAL"), 24*time.Hour),
	}

	cfg.Metrics = MetricsConfig{Addr: v.GetString("METRICS_ADDR")}
	cfg.Migration = MigrationConfig{Dir: v.GetString("MIGRATIONS_DIR")}

	// Проверяем обязательные поля
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if c.DBDSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if c.API.URL == "" {
		missing = append(missing, "API_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s required but not set", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// IsProduction включает production логгер
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("API_TIMEOUT", "0")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("SESSION_TTL", "720h")
	v.SetDefault("SESSION_CLEANUP_INTERVAL", "24h")
	v.SetDefault("MIGRATIONS_DIR", "")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
