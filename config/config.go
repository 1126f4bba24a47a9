package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	DBUser      string
	DBPassword  string
	DBHost      string
	DBPort      string
	DBName      string
	AutoMigrate bool

	JWTSecret string
	AdminPIN  string
	TokenTTL  time.Duration

	RabbitMQURL     string
	OrderExchange   string
	OrderQueue      string
	DeadLetterQueue string
	MaxPriority     int

	TelegramToken  string
	TelegramChatID int64

	WhatsAppNumber string
	OrdersLimit    int

	// Storefront side.
	APIURL                  string
	StateFile               string
	SettingsPollInterval    time.Duration
	SettingsPollVisibleOnly bool
}

// LoadConfig reads the environment, after loading a .env file from the
// working directory when one exists.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env: %v", err)
	}

	return &Config{
		Port:    getEnv("PORT", "5000"),
		GinMode: getEnv("GIN_MODE", "release"),

		DBUser:      getEnv("DB_USER", "root"),
		DBPassword:  getEnvFromFile("DB_PASSWORD_FILE", "DB_PASSWORD", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "3306"),
		DBName:      getEnv("DB_NAME", "pizzeria"),
		AutoMigrate: getEnvBool("AUTO_MIGRATE", false),

		JWTSecret: getEnvFromFile("JWT_SECRET_FILE", "JWT_SECRET", "change-me"),
		AdminPIN:  getEnvFromFile("ADMIN_PIN_FILE", "ADMIN_PIN", "2024"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 12*time.Hour),

		RabbitMQURL:     getEnv("RABBITMQ_URL", ""),
		OrderExchange:   getEnv("ORDER_EXCHANGE", "orders_exchange"),
		OrderQueue:      getEnv("ORDER_QUEUE", "orders_queue"),
		DeadLetterQueue: getEnv("DEAD_LETTER_QUEUE", "dead_letter_queue"),
		MaxPriority:     10,

		TelegramToken:  getEnvFromFile("TELEGRAM_TOKEN_FILE", "TELEGRAM_TOKEN", ""),
		TelegramChatID: int64(getEnvInt("TELEGRAM_CHAT_ID", 0)),

		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "2385999204"),
		OrdersLimit:    getEnvInt("ORDERS_LIMIT", 200),

		APIURL:                  strings.TrimRight(getEnv("API_URL", "http://localhost:5000/api"), "/"),
		StateFile:               getEnv("STATE_FILE", "storefront.json"),
		SettingsPollInterval:    getEnvDuration("SETTINGS_POLL_INTERVAL", 4*time.Second),
		SettingsPollVisibleOnly: getEnvBool("SETTINGS_POLL_VISIBLE_ONLY", true),
	}
}

// EventsEnabled reports whether a broker is configured.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
		log.Printf("Warning: %s points to an unreadable file, falling back to %s", fileKey, envKey)
	}
	return getEnv(envKey, defaultValue)
}

func getEnvInt(key string, defaultValue int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %d", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvBool(key string, defaultValue bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("Warning: invalid %s=%q, using %v", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s=%q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return v
}
