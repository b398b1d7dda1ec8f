package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	PGDSN string `envconfig:"PG_DSN" required:"true"`
	// JWT
	JWTSecret    string `envconfig:"JWT_SECRET" required:"true"`
	JWTExpireMin int    `envconfig:"JWT_EXPIRE_MIN" default:"60"`
	// Network
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
	// RabbitMQ; empty URL disables event publishing
	RabbitURL      string `envconfig:"RABBIT_URL" default:""`
	EventsExchange string `envconfig:"EVENTS_EXCHANGE" default:"skillswap.exchange"`
	NotifyQueue    string `envconfig:"NOTIFY_QUEUE" default:"skillswap.notify.q"`
	// Redis; empty addr disables the discovery cache
	RedisAddr string `envconfig:"REDIS_ADDR" default:""`
	// Tracing; empty endpoint disables the exporter
	OTELEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:""`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
