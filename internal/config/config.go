package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// HTTP
	APIPort        string   `envconfig:"API_PORT" default:"8080"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173"`

	// Database
	DatabaseDSN string `envconfig:"DATABASE_DSN" required:"true"`

	// Redis
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	// JWT
	JWTSecret       string `envconfig:"JWT_SECRET" required:"true"`
	RefreshExpireHr int    `envconfig:"REFRESH_EXPIRE_HR" default:"168"`

	// Rate limiting for /auth routes
	AuthRateRPS   float64 `envconfig:"AUTH_RATE_RPS" default:"5"`
	AuthRateBurst int     `envconfig:"AUTH_RATE_BURST" default:"10"`

	// Notifications
	SMSAPIURL    string `envconfig:"SMS_API_URL" default:"https://textbelt.com/text"`
	SMSAPIKey    string `envconfig:"SMS_API_KEY"`
	SMTPHost     string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`

	// Publish pipeline upstreams
	SummarizerURL string `envconfig:"SUMMARIZER_URL"`
	ImageGenURL   string `envconfig:"IMAGE_GEN_URL"`
	ContentAPIKey string `envconfig:"CONTENT_API_KEY"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
