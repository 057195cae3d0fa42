package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Telegram TelegramConfig
	Notify   NotifyConfig
	Redis    RedisConfig
	AMQP     AMQPConfig
	Reminder ReminderConfig
	Admin    AdminConfig
	Venue    VenueConfig
}

type AppConfig struct {
	Name          string
	Port          string
	Debug         bool
	LogPath       string
	LogLevel      string
	DispatchLanes int `validate:"min=1,max=256"`
}

type DatabaseConfig struct {
	Host     string `validate:"required"`
	Port     string
	Name     string `validate:"required"`
	User     string
	Password string
	MaxConns int32
	// statements slower than this are logged; 0 disables
	SlowQuery time.Duration
}

type TelegramConfig struct {
	Token string `validate:"required"`
	// self-hosted Bot API server; empty means api.telegram.org
	APIURL         string `validate:"omitempty,url"`
	WebAppURL      string `validate:"omitempty,url"`
	RatePerSecond  float64
	PollingTimeout int
}

type NotifyConfig struct {
	// Destinations are chat ids ("-100123", "tg:-100123") or broker
	// exchanges ("amqp:staff_notifications").
	Destinations    []string
	EchoSourceChat  bool
	Parallelism     int `validate:"min=1"`
	ErrorExcerptLen int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AMQPConfig struct {
	URL string
}

type ReminderConfig struct {
	Enabled bool
	Delay   time.Duration
	QueueDB int
}

type AdminConfig struct {
	// bcrypt hash of the operator API bearer token; empty disables the API
	TokenHash string
}

type VenueConfig struct {
	AssetsDir string
	File      string
}

// LoadConfig reads config.env/.env into the process environment (values
// already present win) and assembles the Config from it.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load("config.env")
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault("APP_NAME", "venue-bot")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("DISPATCH_LANES", 16)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "venue")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_SLOW_QUERY_MS", 200)
	v.SetDefault("TELEGRAM_RATE_PER_SEC", 25)
	v.SetDefault("TELEGRAM_POLL_TIMEOUT", 30)
	v.SetDefault("NOTIFY_ECHO_SOURCE_CHAT", true)
	v.SetDefault("NOTIFY_PARALLELISM", 4)
	v.SetDefault("NOTIFY_ERROR_EXCERPT", 300)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REMINDER_ENABLED", false)
	v.SetDefault("REMINDER_DELAY_MINUTES", 120)
	v.SetDefault("REMINDER_QUEUE_DB", 1)
	v.SetDefault("ASSETS_DIR", "assets")
	v.SetDefault("VENUE_FILE", "assets/venue.yaml")

	config := &Config{
		App: AppConfig{
			Name:          v.GetString("APP_NAME"),
			Port:          v.GetString("HTTP_PORT"),
			Debug:         v.GetBool("DEBUG"),
			LogPath:       v.GetString("LOG_PATH"),
			LogLevel:      v.GetString("LOG_LEVEL"),
			DispatchLanes: v.GetInt("DISPATCH_LANES"),
		},
		Database: DatabaseConfig{
			Host:      v.GetString("DB_HOST"),
			Port:      v.GetString("DB_PORT"),
			Name:      v.GetString("DB_NAME"),
			User:      v.GetString("DB_USER"),
			Password:  v.GetString("DB_PASS"),
			MaxConns:  v.GetInt32("DB_MAX_CONNS"),
			SlowQuery: time.Duration(v.GetInt("DB_SLOW_QUERY_MS")) * time.Millisecond,
		},
		Telegram: TelegramConfig{
			Token:          v.GetString("BOT_TOKEN"),
			APIURL:         strings.TrimRight(v.GetString("TELEGRAM_API_URL"), "/"),
			WebAppURL:      strings.TrimSpace(v.GetString("WEBAPP_URL")),
			RatePerSecond:  v.GetFloat64("TELEGRAM_RATE_PER_SEC"),
			PollingTimeout: v.GetInt("TELEGRAM_POLL_TIMEOUT"),
		},
		Notify: NotifyConfig{
			Destinations:    SplitList(v.GetString("NOTIFY_DESTINATIONS")),
			EchoSourceChat:  v.GetBool("NOTIFY_ECHO_SOURCE_CHAT"),
			Parallelism:     v.GetInt("NOTIFY_PARALLELISM"),
			ErrorExcerptLen: v.GetInt("NOTIFY_ERROR_EXCERPT"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		AMQP: AMQPConfig{
			URL: v.GetString("AMQP_URL"),
		},
		Reminder: ReminderConfig{
			Enabled: v.GetBool("REMINDER_ENABLED"),
			Delay:   time.Duration(v.GetInt("REMINDER_DELAY_MINUTES")) * time.Minute,
			QueueDB: v.GetInt("REMINDER_QUEUE_DB"),
		},
		Admin: AdminConfig{
			TokenHash: v.GetString("ADMIN_TOKEN_HASH"),
		},
		Venue: VenueConfig{
			AssetsDir: v.GetString("ASSETS_DIR"),
			File:      v.GetString("VENUE_FILE"),
		},
	}

	if errs := ValidateStruct(config); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %s", FormatValidationErrors(errs))
	}
	if config.Reminder.Enabled && config.Redis.Addr == "" {
		return nil, fmt.Errorf("invalid config: REMINDER_ENABLED requires REDIS_ADDR")
	}

	return config, nil
}
