package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	OTP       OTPConfig
	RateLimit RateLimitConfig
	Booking   BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
	Seed    bool
	// AdminEmail and AdminPassword create a bootstrap admin on startup.
	AdminEmail    string
	AdminPassword string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

// RedisConfig is optional. An empty Addr disables caching, seat holds
// and rate limiting.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	CacheTTLSeconds int
}

// KafkaConfig is optional. Without brokers, events are only logged.
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type RateLimitConfig struct {
	Enabled       bool
	Requests      int
	WindowSeconds int
}

type BookingConfig struct {
	SeatHoldMinutes       int
	MaxTicketsPerPurchase int
}

func (c RedisConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

func (c BookingConfig) SeatHoldTTL() time.Duration {
	return time.Duration(c.SeatHoldMinutes) * time.Minute
}

func (c RateLimitConfig) Window() time.Duration {
	return time.Duration(c.WindowSeconds) * time.Second
}

// LoadConfig reads .env (or the file given by --config), then the process
// environment, then command line flags. Later sources win.
func LoadConfig(args []string) (*Config, error) {
	v := viper.New()

	flags := pflag.NewFlagSet("movie-theater", pflag.ContinueOnError)
	flags.String("config", ".env", "path to env file")
	flags.String("port", "", "HTTP port")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("seed", false, "load sample theaters, movies and food items on startup")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	configFile, _ := flags.GetString("config")
	v.SetConfigFile(configFile)
	v.SetConfigType("env")

	v.SetDefault("APP_NAME", "movie-theater")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SEED", false)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL_SECONDS", 300)
	v.SetDefault("KAFKA_TOPIC", "theater-events")
	v.SetDefault("KAFKA_CLIENT_ID", "movie-theater")
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_REQUESTS", 120)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("SEAT_HOLD_MINUTES", 10)
	v.SetDefault("MAX_TICKETS_PER_PURCHASE", 10)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	v.AutomaticEnv()

	if f := flags.Lookup("port"); f.Changed {
		v.Set("PORT", f.Value.String())
	}
	if f := flags.Lookup("debug"); f.Changed {
		v.Set("DEBUG", f.Value.String())
	}
	if f := flags.Lookup("seed"); f.Changed {
		v.Set("SEED", f.Value.String())
	}

	config := &Config{
		App: AppConfig{
			Name:    v.GetString("APP_NAME"),
			Port:    v.GetString("PORT"),
			Debug:   v.GetBool("DEBUG"),
			LogPath: v.GetString("LOG_PATH"),
			Seed:    v.GetBool("SEED"),

			AdminEmail:    v.GetString("SEED_ADMIN_EMAIL"),
			AdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Redis: RedisConfig{
			Addr:            v.GetString("REDIS_ADDR"),
			Password:        v.GetString("REDIS_PASSWORD"),
			DB:              v.GetInt("REDIS_DB"),
			CacheTTLSeconds: v.GetInt("CACHE_TTL_SECONDS"),
		},
		Kafka: KafkaConfig{
			Brokers:  splitList(v.GetString("KAFKA_BROKERS")),
			Topic:    v.GetString("KAFKA_TOPIC"),
			ClientID: v.GetString("KAFKA_CLIENT_ID"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: v.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        v.GetInt("OTP_LENGTH"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			Requests:      v.GetInt("RATE_LIMIT_REQUESTS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Booking: BookingConfig{
			SeatHoldMinutes:       v.GetInt("SEAT_HOLD_MINUTES"),
			MaxTicketsPerPurchase: v.GetInt("MAX_TICKETS_PER_PURCHASE"),
		},
	}

	if config.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	for key, value := range map[string]int{
		"OTP_LENGTH":               config.OTP.Length,
		"SEAT_HOLD_MINUTES":        config.Booking.SeatHoldMinutes,
		"MAX_TICKETS_PER_PURCHASE": config.Booking.MaxTicketsPerPurchase,
	} {
		if value < 1 {
			return nil, fmt.Errorf("%s must be positive, got %d", key, value)
		}
	}

	return config, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
