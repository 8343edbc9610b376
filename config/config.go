package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	JWTTTLHours       int    `mapstructure:"JWT_TTL_HOURS"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSAllowOrigins  string `mapstructure:"CORS_ALLOW_ORIGINS"`
	Timezone          string `mapstructure:"TIMEZONE"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisOTPDB    int    `mapstructure:"REDIS_OTP_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Pagination.
	PaginationDefaultLimit int `mapstructure:"PAGINATION_DEFAULT_LIMIT"`
	PaginationMaxLimit     int `mapstructure:"PAGINATION_MAX_LIMIT"`

	// Domain switches.
	MatchingEnforceCapability     bool   `mapstructure:"MATCHING_ENFORCE_CAPABILITY"`
	RatingRequireCompletedBooking bool   `mapstructure:"RATING_REQUIRE_COMPLETED_BOOKING"`
	RatingReconcileCron           string `mapstructure:"RATING_RECONCILE_CRON"`
	NotifyBookingChanges          bool   `mapstructure:"NOTIFY_BOOKING_CHANGES"`

	// OTP / SMS.
	OTPTTLMinutes  int    `mapstructure:"OTP_TTL_MINUTES"`
	OTPLength      int    `mapstructure:"OTP_LENGTH"`
	OTPMaxAttempts int    `mapstructure:"OTP_MAX_ATTEMPTS"`
	SMSEnabled     bool   `mapstructure:"SMS_ENABLED"`
	SMSGatewayURL  string `mapstructure:"SMS_GATEWAY_URL"`
	SMSAPIKey      string `mapstructure:"SMS_API_KEY"`
	SMSSenderID    string `mapstructure:"SMS_SENDER_ID"`

	// Firebase Cloud Messaging.
	FCMEnabled              bool   `mapstructure:"FCM_ENABLED"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`

	// Cloudinary document storage.
	CloudinaryCloudName string `mapstructure:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `mapstructure:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `mapstructure:"CLOUDINARY_API_SECRET"`
	CloudinaryFolder    string `mapstructure:"CLOUDINARY_FOLDER"`

	// Bootstrap admin.
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
	AdminName     string `mapstructure:"ADMIN_NAME"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("CORS_ALLOW_ORIGINS", "*")
	v.SetDefault("TIMEZONE", "Asia/Kolkata")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL_HOURS", 24*7)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "homeserve")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_OTP_DB", 1)
	v.SetDefault("REDIS_QUEUE_DB", 2)

	v.SetDefault("PAGINATION_DEFAULT_LIMIT", 10)
	v.SetDefault("PAGINATION_MAX_LIMIT", 100)

	v.SetDefault("MATCHING_ENFORCE_CAPABILITY", true)
	v.SetDefault("RATING_REQUIRE_COMPLETED_BOOKING", true)
	v.SetDefault("RATING_RECONCILE_CRON", "@every 5m")
	v.SetDefault("NOTIFY_BOOKING_CHANGES", false)

	v.SetDefault("OTP_TTL_MINUTES", 5)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("SMS_ENABLED", false)
	v.SetDefault("SMS_GATEWAY_URL", "")
	v.SetDefault("SMS_API_KEY", "")
	v.SetDefault("SMS_SENDER_ID", "HMSRVE")

	v.SetDefault("FCM_ENABLED", false)
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "config/firebase.json")

	v.SetDefault("CLOUDINARY_CLOUD_NAME", "")
	v.SetDefault("CLOUDINARY_API_KEY", "")
	v.SetDefault("CLOUDINARY_API_SECRET", "")
	v.SetDefault("CLOUDINARY_FOLDER", "homeserve/providers")

	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_NAME", "Administrator")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// AllowedOrigins splits CORS_ALLOW_ORIGINS on commas.
func AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(AppConfig.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
