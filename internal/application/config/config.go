package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Debug       bool   `env:"DEBUG" envDefault:"false"`
	Port        string `env:"PORT" envDefault:"3000"`
	MetricsPort string `env:"METRICS_PORT" envDefault:"9090"`
	Domain      string `env:"DOMAIN" envDefault:"http://localhost:3000"`
	JWTSecret   string `env:"JWT_SECRET,required"`

	Postgres PostgresConfig
}

type PostgresConfig struct {
	URL string `env:"POSTGRES_URL"`

	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	Name     string `env:"POSTGRES_NAME" envDefault:"commune"`
	SSL      string `env:"POSTGRES_SSL" envDefault:"disable"`
}

func (p *PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}

	return fmt.Sprintf("postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.Name,
		p.SSL,
	)
}

func New() (*Config, error) {
	c, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return &c, nil
}
