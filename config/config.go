package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type (
	APP struct {
		Name                  string        `env:"SERVICE_NAME" envDefault:"fileshare"`
		Host                  string        `env:"SERVICE_HOST"`
		Port                  string        `env:"SERVICE_PORT" envDefault:"8080"`
		Env                   string        `env:"SERVICE_ENV" envDefault:"debug"`
		JWTSecret             string        `env:"SERVICE_JWT_SECRET,notEmpty"`
		JWTTTL                time.Duration `env:"SERVICE_JWT_TTL" envDefault:"1h"`
		MaxUploadSize         int64         `env:"SERVICE_MAX_UPLOAD_SIZE" envDefault:"10485760"`
		DisplayUTCOffsetHours int           `env:"SERVICE_DISPLAY_UTC_OFFSET_HOURS" envDefault:"7"`
	}
	DB struct {
		Driver     string `env:"DB_DRIVER" envDefault:"sqlite"`
		User       string `env:"POSTGRES_USER"`
		Password   string `env:"POSTGRES_PASSWORD"`
		Name       string `env:"POSTGRES_DB"`
		Host       string `env:"POSTGRES_HOST"`
		Port       string `env:"POSTGRES_PORT" envDefault:"5432"`
		SSLMode    string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
		SQLitePath string `env:"SQLITE_PATH" envDefault:"fileshare.db"`
	}
	Storage struct {
		Dir string `env:"STORAGE_DIR" envDefault:"uploads"`
	}
	Link struct {
		TTL time.Duration `env:"LINK_TTL" envDefault:"12h"`
	}
	Drop struct {
		Enabled           bool     `env:"DROP_ENABLED" envDefault:"true"`
		Catalog           string   `env:"DROP_CATALOG" envDefault:"uploaded_files.json"`
		AllowedExtensions []string `env:"DROP_ALLOWED_EXTENSIONS" envDefault:".jpg,.jpeg,.png,.gif,.pdf,.txt" envSeparator:","`
	}
	MQ struct {
		User         string `env:"RABBITMQ_USER"`
		Password     string `env:"RABBITMQ_PASSWORD"`
		Vhost        string `env:"RABBITMQ_VHOST"`
		Host         string `env:"RABBITMQ_HOST"`
		AmqpPort     string `env:"RABBITMQ_AMQP_PORT" envDefault:"5672"`
		Exchange     string `env:"RABBITMQ_EXCHANGE" envDefault:"fileshare.events"`
		ExchangeType string `env:"RABBITMQ_EXCHANGE_TYPE" envDefault:"topic"`
		QueueName    string `env:"RABBITMQ_QUEUE_NAME" envDefault:"fileshare.orphans"`
	}
	Cache struct {
		UsersSize int           `env:"CACHE_USERS_SIZE" envDefault:"1024"`
		UsersTTL  time.Duration `env:"CACHE_USERS_TTL" envDefault:"5m"`
	}
	Reconcile struct {
		Interval     time.Duration `env:"RECONCILE_INTERVAL" envDefault:"10m"`
		PendingAfter time.Duration `env:"RECONCILE_PENDING_AFTER" envDefault:"1h"`
	}
	Admin struct {
		Username    string `env:"ADMIN_USERNAME" envDefault:"admin"`
		Password    string `env:"ADMIN_PASSWORD"`
		DisplayName string `env:"ADMIN_DISPLAY_NAME" envDefault:"Администратор"`
	}

	Config struct {
		App       APP
		DB        DB
		Storage   Storage
		Link      Link
		Drop      Drop
		MQ        MQ
		Cache     Cache
		Reconcile Reconcile
		Admin     Admin
	}
)

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DB.Driver)
	}
	if cfg.Link.TTL <= 0 {
		return Config{}, fmt.Errorf("LINK_TTL must be positive")
	}

	for i, ext := range cfg.Drop.AllowedExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Drop.AllowedExtensions[i] = ext
	}

	return cfg, nil
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s?sslmode=%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
		c.DB.SSLMode,
	), nil
}

// MigrateURL is DBDSN in the scheme golang-migrate's pgx/v5 driver registers.
func (c Config) MigrateURL() (string, error) {
	dsn, err := c.DBDSN()
	if err != nil {
		return "", err
	}
	return "pgx5://" + strings.TrimPrefix(dsn, "postgres://"), nil
}

func (c Config) SQLiteDSN() string {
	return fmt.Sprintf(
		"file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite",
		c.DB.SQLitePath,
	)
}

func (c Config) MQEnabled() bool { return c.MQ.Host != "" }

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}

// DisplayLocation is the fixed zone upload and expiry timestamps are rendered in.
func (c Config) DisplayLocation() *time.Location {
	h := c.App.DisplayUTCOffsetHours
	return time.FixedZone(fmt.Sprintf("UTC%+d", h), h*3600)
}
