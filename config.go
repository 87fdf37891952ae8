package main

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/caarlos0/env/v11"
)

type DatabaseConfig struct {
	Host     string `env:"DB_HOST"     envDefault:"localhost"`
	Port     int    `env:"DB_PORT"     envDefault:"5432"`
	User     string `env:"DB_USER"     envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"     envDefault:"splitwise"`
	SSLMode  string `env:"DB_SSLMODE"  envDefault:"disable"`
}

// ConnString builds a postgres URL, escaping the credentials.
func (c DatabaseConfig) ConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:     "/" + c.Name,
		RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
	}
	return u.String()
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"  envDefault:"smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT"  envDefault:"587"`
	Username string `env:"GMAIL_USER"`
	Password string `env:"GMAIL_PASS"`
	From     string `env:"MAIL_FROM"`
}

type Config struct {
	Port           int      `env:"PORT"                 envDefault:"5000"`
	JWTSecret      string   `env:"JWT_SECRET,required,notEmpty"`
	RabbitMQURL    string   `env:"RABBITMQ_URL"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	LogLevel       string   `env:"LOG_LEVEL"            envDefault:"info"`

	Database DatabaseConfig
	SMTP     SMTPConfig
}

func (c Config) ListenAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

// loadConfig reads the configuration from the environment once at startup.
func loadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
