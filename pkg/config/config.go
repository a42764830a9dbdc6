package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8080"`
	Env  string `envconfig:"ENV" default:"development"`

	PostgresURL   string `envconfig:"POSTGRES_CONN_STR" required:"true"`
	MongoURI      string `envconfig:"MONGO_URI"`
	MongoDatabase string `envconfig:"MONGO_DATABASE" default:"story_creator"`
	AutoMigrate   bool   `envconfig:"AUTO_MIGRATE" default:"true"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	FirebaseCredentialsPath string `envconfig:"FIREBASE_CREDENTIALS_PATH"`

	SessionSecret string `envconfig:"SESSION_SECRET" required:"true"`
	SessionDir    string `envconfig:"SESSION_DIR"`
	SessionMaxAge int    `envconfig:"SESSION_MAX_AGE" default:"604800"`

	ResetTokenSecret string        `envconfig:"RESET_TOKEN_SECRET" required:"true"`
	ResetTokenTTL    time.Duration `envconfig:"RESET_TOKEN_TTL" default:"1h"`
	BaseURL          string        `envconfig:"BASE_URL" default:"http://localhost:8080"`

	UploadDir string `envconfig:"UPLOAD_DIR" default:"static/uploads"`

	SMTPHost     string `envconfig:"SMTP_HOST"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	MailFrom     string `envconfig:"MAIL_FROM" default:"no-reply@story-creator.local"`

	GeoAPIKey   string        `envconfig:"CSC_API_KEY"`
	GeoBaseURL  string        `envconfig:"CSC_BASE_URL" default:"https://api.countrystatecity.in/v1"`
	GeoCacheTTL time.Duration `envconfig:"GEO_CACHE_TTL" default:"24h"`

	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING"`
	LogOutput   string `envconfig:"LOG_OUTPUT"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config from env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
