package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Models   ModelsConfig
	Chat     ChatConfig
	Maps     MapsConfig
	Mail     MailConfig
	Redis    RedisConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN              string
	MaxConns         int32
	MinConns         int32
	MaxConnLifetime  time.Duration
	MaxConnIdleTime  time.Duration
	DialTimeout      time.Duration
	StatementTimeout time.Duration
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// ModelsConfig holds classifier artifact configuration
type ModelsConfig struct {
	// Dir is the root of the per-food artifact directories
	// (rice/, milk/, paneer/, dal/, roti/).
	Dir string

	// MilkRoomTempSlackHours is the tolerance allowed when checking that
	// cumulative room-temperature hours do not exceed total days. Kept
	// configurable rather than a buried constant.
	MilkRoomTempSlackHours float64
}

// ChatConfig holds Gemini assistant configuration
type ChatConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	HistoryMax  int
}

// MapsConfig holds Google Maps configuration
type MapsConfig struct {
	APIKey       string
	SearchRadius uint
}

// MailConfig holds SMTP notification configuration
type MailConfig struct {
	Host     string
	Port     int
	Sender   string
	Password string
}

// RedisConfig holds the optional chat-history cache configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN:              getEnv("DB_URL", ""),
			MaxConns:         getEnvAsInt32("DB_MAX_CONNS", 20),
			MinConns:         getEnvAsInt32("DB_MIN_CONNS", 5),
			MaxConnLifetime:  getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime:  getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:      getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
			StatementTimeout: getEnvAsDuration("DB_STATEMENT_TIMEOUT", 0),
		},
		Server: ServerConfig{
			HTTPAddr:        getEnv("HTTP_ADDR", ":5000"),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Models: ModelsConfig{
			Dir:                    getEnv("MODEL_DIR", "./models"),
			MilkRoomTempSlackHours: getEnvAsFloat64("MILK_ROOM_TEMP_SLACK_HOURS", 1),
		},
		Chat: ChatConfig{
			APIKey:      getEnv("GEMINI_API_KEY", ""),
			Model:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
			MaxTokens:   getEnvAsInt("GEMINI_MAX_TOKENS", 1024),
			Temperature: getEnvAsFloat32("GEMINI_TEMPERATURE", 0.4),
			Timeout:     getEnvAsDuration("GEMINI_TIMEOUT", 30*time.Second),
			HistoryMax:  getEnvAsInt("CHAT_HISTORY_MAX", 5),
		},
		Maps: MapsConfig{
			APIKey:       getEnv("GOOGLE_MAPS_API_KEY", ""),
			SearchRadius: uint(getEnvAsInt("NGO_SEARCH_RADIUS_M", 5000)),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvAsInt("SMTP_PORT", 465),
			Sender:   getEnv("EMAIL_SENDER", ""),
			Password: getEnv("EMAIL_APP_PASSWORD", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			TTL:      getEnvAsDuration("REDIS_CHAT_TTL", 24*time.Hour),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration. Only the HTTP address is hard
// required; every integration degrades gracefully when unconfigured.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return NewAppError("CONFIG_ERROR", "HTTP_ADDR is required", ErrValidation)
	}
	if c.Models.Dir == "" {
		return NewAppError("CONFIG_ERROR", "MODEL_DIR is required", ErrValidation)
	}
	if c.Models.MilkRoomTempSlackHours < 0 {
		return NewAppError("CONFIG_ERROR", "MILK_ROOM_TEMP_SLACK_HOURS cannot be negative", ErrValidation)
	}
	return nil
}
