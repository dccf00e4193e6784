// Package config содержит логику чтения конфигурации сервера склада и консоли.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress = "localhost:8001"
	defaultSMTPPort   = 587
	defaultAPIBaseURL = "http://127.0.0.1:8001/ap/v1"
	defaultTimeout    = 10 * time.Second
)

// Config содержит параметры конфигурации сервера склада.
type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DatabaseURI   string `env:"DATABASE_URI"`
	SessionSecret string `env:"SESSION_SECRET"`
	StockPolicy   string `env:"STOCK_POLICY"`
	Debug         bool   `env:"DEBUG"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"`
}

// Console содержит параметры консоли.
type Console struct {
	APIBaseURL     string        `env:"API_BASE_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	Email          string        `env:"CONSOLE_EMAIL"`
	Password       string        `env:"CONSOLE_PASSWORD"`
	StockPolicy    string        `env:"STOCK_POLICY"`
	AtomicReceive  bool          `env:"ATOMIC_RECEIVE"`
	Debug          bool          `env:"DEBUG"`
}

// Parse считывает конфигурацию сервера из файла .env, флагов командной строки
// и переменных окружения. Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	loadDotEnv()

	cfg := &Config{SMTPPort: defaultSMTPPort}

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.SessionSecret, "s", "", "session cookie signing secret")
	flag.StringVar(&cfg.StockPolicy, "p", "replace", "stock policy on receive: replace or increment")
	flag.BoolVar(&cfg.Debug, "v", false, "development logging")

	flag.Parse()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.DatabaseURI == "" {
		return nil, errors.New("database URI is required")
	}

	return cfg, nil
}

// ParseConsole считывает конфигурацию консоли. Позиционные аргументы
// остаются в flag.Args().
func ParseConsole() (*Console, error) {
	loadDotEnv()

	cfg := &Console{}

	flag.StringVar(&cfg.APIBaseURL, "u", defaultAPIBaseURL, "inventory API base URL")
	flag.DurationVar(&cfg.RequestTimeout, "t", defaultTimeout, "request timeout")
	flag.StringVar(&cfg.Email, "e", "", "login email")
	flag.StringVar(&cfg.StockPolicy, "p", "replace", "stock policy for step-by-step receive (-atomic=false): replace or increment")
	flag.BoolVar(&cfg.AtomicReceive, "atomic", true, "receive purchase orders in one server transaction")
	flag.BoolVar(&cfg.Debug, "v", false, "development logging")

	flag.Parse()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}

	return cfg, nil
}

// loadDotEnv загружает .env из рабочего каталога, если он есть.
// Уже заданные переменные окружения не перезаписываются.
func loadDotEnv() {
	_ = godotenv.Load()
}
