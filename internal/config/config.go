package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string `env:"APP_ENV" env-default:"local"`
	HTTPServer HTTPServer
	Database   Database
	Auth       Auth
	RabbitMQ   RabbitMQ
}

type HTTPServer struct {
	Address     string        `env:"SERVER_ADDR" env-default:"localhost:8080"`
	Timeout     time.Duration `env:"SERVER_TIMEOUT" env-default:"4s"`
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
}

type Database struct {
	URL string `env:"DATABASE_URL" env-default:""`
}

type Auth struct {
	Secret string `env:"AUTH_SECRET" env-default:"aksumer-api"`
	// Expire is the access token lifetime in seconds.
	Expire int64 `env:"AUTH_EXPIRE" env-default:"36000"`
}

type RabbitMQ struct {
	// URL is empty when event publishing is disabled.
	URL       string `env:"RABBITMQ_URL" env-default:""`
	QueueName string `env:"RABBITMQ_QUEUE" env-default:"user_events"`
}

// TokenTTL returns the configured token lifetime as a duration.
func (a Auth) TokenTTL() time.Duration {
	return time.Duration(a.Expire) * time.Second
}

// MustLoad reads configuration from the process environment, consulting an
// optional .env file first. It panics on unparseable values, failing the
// process at startup.
func MustLoad() *Config {
	_ = godotenv.Load()

	var cfg Config

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("Failed to read config: " + err.Error())
	}

	return &cfg
}
