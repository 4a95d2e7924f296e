package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// AllowedOrigins restricts CORS and websocket origins; empty allows any.
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`
	// TrustedProxies lists proxy IPs/CIDRs whose X-Forwarded-For is honoured.
	TrustedProxies []string `mapstructure:"TRUSTED_PROXIES"`

	// Store selects the repository backend: "mongo" or "memory".
	Store string `mapstructure:"STORE"`

	// MongoDB configuration.
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	MongoTransactions bool   `mapstructure:"MONGO_TRANSACTIONS"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisLockDB   int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Booking coordination.
	BookingLockTTL time.Duration `mapstructure:"BOOKING_LOCK_TTL"`

	// Notification delivery.
	NotifyQueueEnabled  bool   `mapstructure:"NOTIFY_QUEUE_ENABLED"`
	NotifyMaxRetry      int    `mapstructure:"NOTIFY_MAX_RETRY"`
	NotifyConcurrency   int    `mapstructure:"NOTIFY_CONCURRENCY"`
	RabbitURL           string `mapstructure:"RABBIT_URL"`
	RabbitExchange      string `mapstructure:"RABBIT_EXCHANGE"`
	FirebaseCredentials string `mapstructure:"FIREBASE_CREDENTIALS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if IsProduction() && AppConfig.JWTSecret == "" {
		log.Fatalf("JWT_SECRET must be set in production")
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("ALLOWED_ORIGINS", []string{})
	viper.SetDefault("TRUSTED_PROXIES", []string{})
	viper.SetDefault("STORE", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "vehiclecare")
	viper.SetDefault("MONGO_TRANSACTIONS", true)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_LOCK_DB", 2)
	viper.SetDefault("REDIS_QUEUE_DB", 3)
	viper.SetDefault("BOOKING_LOCK_TTL", "10s")
	viper.SetDefault("NOTIFY_QUEUE_ENABLED", true)
	viper.SetDefault("NOTIFY_MAX_RETRY", 5)
	viper.SetDefault("NOTIFY_CONCURRENCY", 10)
	viper.SetDefault("RABBIT_URL", "")
	viper.SetDefault("RABBIT_EXCHANGE", "booking.events")
	viper.SetDefault("FIREBASE_CREDENTIALS", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
