package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every environment-driven setting for the server.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"8000"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	RedisAddr   string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	JWTSecret        string `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL   int    `envconfig:"ACCESS_TOKEN_TTL_MIN" default:"15"`
	RefreshTokenTTL  int    `envconfig:"REFRESH_TOKEN_TTL_HR" default:"168"`
	CookieMaxAgeDays int    `envconfig:"COOKIE_MAX_AGE_DAYS" default:"7"`

	SMTP       SMTPConfig
	Twilio     TwilioConfig
	Zoom       ZoomConfig
	Cloudinary CloudinaryConfig

	AdminEmail string `envconfig:"ADMIN_EMAIL"`
}

type SMTPConfig struct {
	Host string `envconfig:"SMTP_HOST"`
	Port int    `envconfig:"SMTP_PORT" default:"587"`
	User string `envconfig:"EMAIL_USER"`
	Pass string `envconfig:"EMAIL_PASS"`
}

type TwilioConfig struct {
	AccountSID string `envconfig:"TWILIO_ACCOUNT_SID"`
	AuthToken  string `envconfig:"TWILIO_AUTH_TOKEN"`
	FromNumber string `envconfig:"TWILIO_PHONE_NUMBER"`
}

type ZoomConfig struct {
	ClientID     string `envconfig:"ZOOM_CLIENT_ID"`
	ClientSecret string `envconfig:"ZOOM_CLIENT_SECRET"`
	AccountID    string `envconfig:"ZOOM_ACCOUNT_ID"`
}

type CloudinaryConfig struct {
	CloudName string `envconfig:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `envconfig:"CLOUDINARY_API_KEY"`
	APISecret string `envconfig:"CLOUDINARY_API_SECRET"`
}

// Load reads .env (if present) and the process environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Validate methods on the third-party blocks fail fast with a descriptive
// error at call time, so a feature that is never used can stay unconfigured.

func (s SMTPConfig) Validate() error {
	if s.Host == "" || s.User == "" || s.Pass == "" {
		return fmt.Errorf("SMTP is not configured: SMTP_HOST, EMAIL_USER and EMAIL_PASS are required")
	}
	return nil
}

func (t TwilioConfig) Validate() error {
	if t.AccountSID == "" || t.AuthToken == "" || t.FromNumber == "" {
		return fmt.Errorf("Twilio is not configured: TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER are required")
	}
	return nil
}

func (z ZoomConfig) Validate() error {
	if z.ClientID == "" || z.ClientSecret == "" || z.AccountID == "" {
		return fmt.Errorf("Zoom is not configured: ZOOM_CLIENT_ID, ZOOM_CLIENT_SECRET and ZOOM_ACCOUNT_ID are required")
	}
	return nil
}

func (c CloudinaryConfig) Validate() error {
	if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
		return fmt.Errorf("Cloudinary is not configured: CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	return nil
}
