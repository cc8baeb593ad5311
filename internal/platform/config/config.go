package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Refresh Token Config
	RefreshTokenExpiryDuration time.Duration

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`

	// First admin account, created at startup when no user with that name exists.
	BootstrapAdminUsername string
	BootstrapAdminPassword string

	// Gateways. An empty address disables the backend.
	RedisURL       string
	StatsCacheTTL  time.Duration
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	ReceiptURLTTL  time.Duration
	KafkaBrokers   []string
	KafkaTopic     string

	// HTTP
	RateLimit          string
	CORSAllowedOrigins []string

	// Business rules
	Rules BusinessRules
}

// BusinessRules are the tunable thresholds and policies of the consistency rules.
type BusinessRules struct {
	DebtSyncOnSourceEdit     bool
	RequireDistinctApprovers bool
	DebtOverdueDays          int
	OrderStallDays           int
	LargeDebtThreshold       decimal.Decimal
}

// DefaultBusinessRules returns the thresholds the system ships with.
func DefaultBusinessRules() BusinessRules {
	return BusinessRules{
		DebtOverdueDays:    30,
		OrderStallDays:     14,
		LargeDebtThreshold: decimal.NewFromInt(10000),
	}
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "business-management-app")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("BOOTSTRAP_ADMIN_USERNAME", "")
	viper.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("STATS_CACHE_TTL", "60s")
	viper.SetDefault("MINIO_ENDPOINT", "")
	viper.SetDefault("MINIO_ACCESS_KEY", "")
	viper.SetDefault("MINIO_SECRET_KEY", "")
	viper.SetDefault("MINIO_BUCKET", "receipts")
	viper.SetDefault("MINIO_USE_SSL", false)
	viper.SetDefault("RECEIPT_URL_TTL", "15m")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TASK_TOPIC", "business.events")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("DEBT_SYNC_ON_SOURCE_EDIT", false)
	viper.SetDefault("REQUIRE_DISTINCT_APPROVERS", false)
	viper.SetDefault("DEBT_OVERDUE_DAYS", 30)
	viper.SetDefault("ORDER_STALL_DAYS", 14)
	viper.SetDefault("LARGE_DEBT_THRESHOLD", "10000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = parseDurationOr("JWT_EXPIRY_DURATION", time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.RefreshTokenExpiryDuration = parseDurationOr("REFRESH_TOKEN_EXPIRY_DURATION", 7*24*time.Hour)

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google sign-in will not function.")
	}

	cfg.BootstrapAdminUsername = viper.GetString("BOOTSTRAP_ADMIN_USERNAME")
	cfg.BootstrapAdminPassword = viper.GetString("BOOTSTRAP_ADMIN_PASSWORD")

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.StatsCacheTTL = parseDurationOr("STATS_CACHE_TTL", time.Minute)
	cfg.MinioEndpoint = viper.GetString("MINIO_ENDPOINT")
	cfg.MinioAccessKey = viper.GetString("MINIO_ACCESS_KEY")
	cfg.MinioSecretKey = viper.GetString("MINIO_SECRET_KEY")
	cfg.MinioBucket = viper.GetString("MINIO_BUCKET")
	cfg.MinioUseSSL = viper.GetBool("MINIO_USE_SSL")
	cfg.ReceiptURLTTL = parseDurationOr("RECEIPT_URL_TTL", 15*time.Minute)
	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaTopic = viper.GetString("KAFKA_TASK_TOPIC")

	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))

	cfg.Rules = DefaultBusinessRules()
	cfg.Rules.DebtSyncOnSourceEdit = viper.GetBool("DEBT_SYNC_ON_SOURCE_EDIT")
	cfg.Rules.RequireDistinctApprovers = viper.GetBool("REQUIRE_DISTINCT_APPROVERS")
	if days := viper.GetInt("DEBT_OVERDUE_DAYS"); days > 0 {
		cfg.Rules.DebtOverdueDays = days
	}
	if days := viper.GetInt("ORDER_STALL_DAYS"); days > 0 {
		cfg.Rules.OrderStallDays = days
	}
	if threshold, err := decimal.NewFromString(viper.GetString("LARGE_DEBT_THRESHOLD")); err == nil {
		cfg.Rules.LargeDebtThreshold = threshold
	} else {
		log.Printf("Warning: Invalid LARGE_DEBT_THRESHOLD. Defaulting to %s.\n", cfg.Rules.LargeDebtThreshold)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	return cfg, nil
}
