package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr    string `mapstructure:"REDIS_ADDR"`
	RedisPass    string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLockDB  int    `mapstructure:"REDIS_LOCK_DB"`
	RedisQueueDB int    `mapstructure:"REDIS_QUEUE_DB"`

	// Telebirr gateway.
	TelebirrBaseURL   string `mapstructure:"TELEBIRR_BASE_URL"`
	TelebirrAPIKey    string `mapstructure:"TELEBIRR_API_KEY"`
	TelebirrAPISecret string `mapstructure:"TELEBIRR_API_SECRET"`
	TelebirrShortCode string `mapstructure:"TELEBIRR_SHORT_CODE"`
	TelebirrTimeoutS  int    `mapstructure:"TELEBIRR_TIMEOUT_SECONDS"`

	// Payment reconciliation sweep.
	ReconcileIntervalMin int `mapstructure:"RECONCILE_INTERVAL_MINUTES"`
	ReconcileMinAgeMin   int `mapstructure:"RECONCILE_MIN_AGE_MINUTES"`

	// Firebase service account for FCM pushes.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
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

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "dimple")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_LOCK_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("TELEBIRR_BASE_URL", "https://api.telebirr.com/v1")
	viper.SetDefault("TELEBIRR_TIMEOUT_SECONDS", 10)
	viper.SetDefault("RECONCILE_INTERVAL_MINUTES", 5)
	viper.SetDefault("RECONCILE_MIN_AGE_MINUTES", 15)
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
