package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, secrets)
// - default: Values common across all environments (timezone, TTLs, schedules)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Cookie  CookieConfig
	Booking BookingConfig
	Sweeper SweeperConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Outbox  OutboxConfig
	Payment PaymentConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kolkata"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5.5*60*60
}

type JWTConfig struct {
	Secret               string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenDuration  time.Duration `envconfig:"JWT_ACCESS_TOKEN_DURATION" default:"15m"`
	RefreshTokenDuration time.Duration `envconfig:"JWT_REFRESH_TOKEN_DURATION" default:"168h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"true"`
	SameSite string `envconfig:"COOKIE_SAMESITE" default:"Lax"`
}

// BookingConfig holds the reservation hold and pricing knobs.
// Wall-clock slot times are interpreted in TimeZone.
type BookingConfig struct {
	ReservationTTL       time.Duration `envconfig:"BOOKING_RESERVATION_TTL" default:"15m"`
	MaxReservationTTL    time.Duration `envconfig:"BOOKING_MAX_RESERVATION_TTL" default:"2h"`
	TimeZone             string        `envconfig:"BOOKING_TIMEZONE" default:"Asia/Kolkata"`
	ChatHourlyRateCents  int64         `envconfig:"BOOKING_CHAT_HOURLY_RATE_CENTS" default:"50000"`
	CallHourlyRateCents  int64         `envconfig:"BOOKING_CALL_HOURLY_RATE_CENTS" default:"80000"`
	VideoHourlyRateCents int64         `envconfig:"BOOKING_VIDEO_HOURLY_RATE_CENTS" default:"100000"`
	SweepOnRead          bool          `envconfig:"BOOKING_SWEEP_ON_READ" default:"true"`
}

type SweeperConfig struct {
	Enabled    bool          `envconfig:"SWEEPER_ENABLED" default:"true"`
	Schedule   string        `envconfig:"SWEEPER_SCHEDULE" default:"@every 5m"`
	BatchSize  int32         `envconfig:"SWEEPER_BATCH_SIZE" default:"500"`
	LockTTL    time.Duration `envconfig:"SWEEPER_LOCK_TTL" default:"4m"`
	CronSecret string        `envconfig:"CRON_SECRET" required:"true"`
}

// RedisConfig is optional: an empty Addr disables the distributed sweeper lock.
type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:""`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

// KafkaConfig is optional: no brokers disables the outbox dispatcher.
type KafkaConfig struct {
	Brokers            []string `envconfig:"KAFKA_BROKERS" default:""`
	NotificationsTopic string   `envconfig:"KAFKA_NOTIFICATIONS_TOPIC" default:"mentoring.notifications"`
}

type OutboxConfig struct {
	Schedule    string `envconfig:"OUTBOX_SCHEDULE" default:"@every 10s"`
	BatchSize   int32  `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	MaxAttempts int32  `envconfig:"OUTBOX_MAX_ATTEMPTS" default:"5"`
}

type PaymentConfig struct {
	WebhookSecret string `envconfig:"PAYMENT_WEBHOOK_SECRET" required:"true"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func (c BookingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_TIMEZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

func (c KafkaConfig) Enabled() bool {
	for _, b := range c.Brokers {
		if b != "" {
			return true
		}
	}
	return false
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 10,
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:3000"},
			AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
			MaxAge:       time.Hour,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
		JWT: JWTConfig{
			Secret:               "test-secret",
			AccessTokenDuration:  15 * time.Minute,
			RefreshTokenDuration: 24 * time.Hour,
		},
		Cookie: CookieConfig{
			Secure:   false,
			SameSite: "Lax",
		},
		Booking: BookingConfig{
			ReservationTTL:       15 * time.Minute,
			MaxReservationTTL:    2 * time.Hour,
			TimeZone:             "Asia/Kolkata",
			ChatHourlyRateCents:  50000,
			CallHourlyRateCents:  80000,
			VideoHourlyRateCents: 100000,
			SweepOnRead:          true,
		},
		Sweeper: SweeperConfig{
			Enabled:    false, // Tests trigger sweeps explicitly
			Schedule:   "@every 5m",
			BatchSize:  500,
			LockTTL:    4 * time.Minute,
			CronSecret: "test-cron-secret",
		},
		Kafka: KafkaConfig{
			NotificationsTopic: "mentoring.notifications",
		},
		Outbox: OutboxConfig{
			Schedule:    "@every 10s",
			BatchSize:   100,
			MaxAttempts: 5,
		},
		Payment: PaymentConfig{
			WebhookSecret: "test-payment-secret",
		},
	}
}
