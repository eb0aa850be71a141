package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read when no explicit config path is given and the file exists.
const DefaultFile = "config.yaml"

// Config holds the whole application configuration.
type Config struct {
	Server    Server    `yaml:"server"`
	Store     Store     `yaml:"store"`
	Nutrition Nutrition `yaml:"nutrition"`
	Order     Order     `yaml:"order"`
	Log       Log       `yaml:"log"`
	Session   Session   `yaml:"session"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

// Store holds the connection parameters of the backing store. None of these
// values are ever logged.
type Store struct {
	// URL, when set, is used as-is and overrides every other field.
	URL       string `yaml:"url"`
	Account   string `yaml:"account"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	Role      string `yaml:"role"`
	Warehouse string `yaml:"warehouse"`
	Database  string `yaml:"database"`
	Schema    string `yaml:"schema"`
	SSLMode   string `yaml:"sslmode"`

	CatalogTable string `yaml:"catalog_table"`
	OrdersTable  string `yaml:"orders_table"`

	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	MaxOpenConns   int           `yaml:"max_open_conns"`
	MaxIdleConns   int           `yaml:"max_idle_conns"`
}

type Nutrition struct {
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	Concurrency int           `yaml:"concurrency"`
}

type Order struct {
	MaxSelections int `yaml:"max_selections"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	// File is the diagnostic sink; errors with stack traces land here.
	File string `yaml:"file"`
}

type Session struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// Default returns the configuration used when nothing else is supplied.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Store: Store{
			Account:        "localhost:5432",
			Database:       "smoothies",
			Schema:         "public",
			SSLMode:        "disable",
			CatalogTable:   "fruit_options",
			OrdersTable:    "orders",
			ConnectTimeout: 5 * time.Second,
			MaxOpenConns:   10,
			MaxIdleConns:   2,
		},
		Nutrition: Nutrition{
			BaseURL:     "https://my.smoothiefroot.com/api/fruit",
			Timeout:     5 * time.Second,
			Concurrency: 5,
		},
		Order: Order{MaxSelections: 5},
		Log: Log{
			Level:  "info",
			Format: "json",
			File:   "app.log",
		},
		Session: Session{TTL: 2 * time.Hour},
	}
}

// Load builds the configuration: .env is loaded into the environment first,
// then defaults, then the YAML file at path (or DefaultFile when path is empty
// and that file exists), then environment overrides.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Server.Addr, "SMOOTHIE_ADDR")

	setString(&cfg.Store.URL, "DATABASE_URL")
	setString(&cfg.Store.Account, "STORE_ACCOUNT")
	setString(&cfg.Store.User, "STORE_USER")
	setString(&cfg.Store.Password, "STORE_PASSWORD")
	setString(&cfg.Store.Role, "STORE_ROLE")
	setString(&cfg.Store.Warehouse, "STORE_WAREHOUSE")
	setString(&cfg.Store.Database, "STORE_DATABASE")
	setString(&cfg.Store.Schema, "STORE_SCHEMA")
	setString(&cfg.Store.SSLMode, "STORE_SSLMODE")

	setString(&cfg.Nutrition.BaseURL, "NUTRITION_BASE_URL")
	if err := setDuration(&cfg.Nutrition.Timeout, "NUTRITION_TIMEOUT"); err != nil {
		return err
	}
	if err := setInt(&cfg.Nutrition.Concurrency, "NUTRITION_CONCURRENCY"); err != nil {
		return err
	}

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Log.File, "LOG_FILE")

	setString(&cfg.Session.Secret, "SESSION_SECRET")
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

// Validate reports the first configuration value the application cannot run with.
func (c Config) Validate() error {
	if c.Order.MaxSelections <= 0 {
		return errors.New("order.max_selections must be positive")
	}
	if c.Nutrition.Concurrency <= 0 {
		return errors.New("nutrition.concurrency must be positive")
	}
	if c.Nutrition.Timeout <= 0 {
		return errors.New("nutrition.timeout must be positive")
	}
	u, err := url.Parse(c.Nutrition.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("nutrition.base_url %q is not an absolute URL", c.Nutrition.BaseURL)
	}
	if c.Store.CatalogTable == "" || c.Store.OrdersTable == "" {
		return errors.New("store.catalog_table and store.orders_table are required")
	}
	return nil
}
