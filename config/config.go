package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // business timezone must resolve in minimal containers

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	S3       S3Config
	Metrics  MetricsConfig
	Policy   SchedulingPolicy
}

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig only carries the verification secret; tokens are issued by the identity service.
type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// Enabled reports whether a redis host is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type RabbitMQConfig struct {
	URL   string
	Queue string
}

func (c RabbitMQConfig) Enabled() bool {
	return c.URL != ""
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type MetricsConfig struct {
	Path string
}

// SchedulingPolicy holds the business knobs of the booking and sales engine.
// Defaults are overridden by the TOML file named in POLICY_FILE, when present.
type SchedulingPolicy struct {
	BusinessTimezone          string  `toml:"business_timezone"`
	MembershipDiscountRate    float64 `toml:"membership_discount_rate"`
	RequireEndWithinShift     bool    `toml:"require_end_within_shift"`
	EnforceInventoryAtBooking bool    `toml:"enforce_inventory_at_booking"`
	ReconcileEnabled          bool    `toml:"reconcile_enabled"`
	ReconcileSchedule         string  `toml:"reconcile_schedule"`
}

// DefaultPolicy 기본 예약/매출 정책
func DefaultPolicy() SchedulingPolicy {
	return SchedulingPolicy{
		BusinessTimezone:          "Asia/Seoul",
		MembershipDiscountRate:    0.10,
		RequireEndWithinShift:     false,
		EnforceInventoryAtBooking: true,
		ReconcileEnabled:          false,
		ReconcileSchedule:         "*/30 * * * *",
	}
}

// Location resolves BusinessTimezone, falling back to UTC for unknown zones.
func (p SchedulingPolicy) Location() *time.Location {
	if p.BusinessTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(p.BusinessTimezone)
	if err != nil {
		log.Printf("Unknown business timezone %s, using UTC", p.BusinessTimezone)
		return time.UTC
	}
	return loc
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "admin"),
			Password: getEnv("DB_PASSWORD", "1234"),
			DBName:   getEnv("DB_NAME", "hairable"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key"),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0")),
			LockTTL:  parseDuration(getEnv("REDIS_LOCK_TTL", "10s")),
		},
		RabbitMQ: RabbitMQConfig{
			URL:   getEnv("RABBITMQ_URL", ""),
			Queue: getEnv("RABBITMQ_QUEUE", "reservation.events"),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-northeast-2"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Metrics: MetricsConfig{
			Path: getEnv("METRICS_PATH", "/metrics"),
		},
	}

	policy, err := LoadPolicy(getEnv("POLICY_FILE", "policy.toml"))
	if err != nil {
		return nil, err
	}
	config.Policy = policy

	return config, nil
}

// LoadPolicy layers the TOML file at path over DefaultPolicy. A missing file is not an error.
func LoadPolicy(path string) (SchedulingPolicy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return policy, nil
	}
	if _, err := toml.DecodeFile(path, &policy); err != nil {
		return policy, fmt.Errorf("failed to decode policy file %s: %w", path, err)
	}
	if policy.MembershipDiscountRate < 0 || policy.MembershipDiscountRate >= 1 {
		return policy, fmt.Errorf("membership_discount_rate must be in [0, 1), got %v", policy.MembershipDiscountRate)
	}
	return policy, nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default 10s", s)
		return 10 * time.Second
	}
	return duration
}

func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using 0", s)
		return 0
	}
	return n
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
