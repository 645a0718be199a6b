package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	LeadStoreFile   = "file"
	LeadStoreSQLite = "sqlite"
)

type Config struct {
	Server struct {
		// Port the HTTP server listens on
		Port string `env:"PORT" envDefault:"5000"`

		// Directory holding the built frontend (index.html, assets/...)
		DistDir string `env:"DIST_DIR" envDefault:"dist"`

		// Allowed CORS origins, "*" allows any
		CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`

		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	}

	Leads struct {
		// Where leads are persisted: "file" (JSON lines) or "sqlite"
		Store string `env:"LEAD_STORE" envDefault:"file"`

		// Directory for the JSON-lines files
		Dir string `env:"LEAD_DIR" envDefault:"data/leads"`

		// SQLite database path when Store is "sqlite"
		DBPath string `env:"LEAD_DB_PATH" envDefault:"data/leads.db"`

		// Number of pending batches held in memory
		QueueSize int `env:"LEAD_QUEUE_SIZE" envDefault:"100"`

		// Maximum number of retries for a failed batch
		MaxRetries int `env:"LEAD_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in milliseconds
		RetryDelayMs int `env:"LEAD_RETRY_DELAY_MS" envDefault:"500"`
	}

	Contact ContactInfo

	// Optional YAML file overriding the built-in market areas
	MarketAreasPath string `env:"MARKET_AREAS_PATH"`
}

// ContactInfo is returned with every API response.
type ContactInfo struct {
	Phone    string `env:"CONTACT_PHONE" envDefault:"+34624737299" json:"phone"`
	Email    string `env:"CONTACT_EMAIL" envDefault:"contact@esklenchen.com" json:"email"`
	WhatsApp string `env:"CONTACT_WHATSAPP" envDefault:"https://wa.me/34624737299" json:"whatsapp"`
}

// LoadConfig reads the configuration from the environment. Variables from
// envFiles (default ".env") are loaded first when the files exist; they never
// override variables that are already set.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that env defaults cannot guard.
func (c *Config) Validate() error {
	switch c.Leads.Store {
	case LeadStoreFile, LeadStoreSQLite:
	default:
		return fmt.Errorf("unknown lead store %q", c.Leads.Store)
	}
	if c.Leads.QueueSize <= 0 {
		return fmt.Errorf("lead queue size must be positive, got %d", c.Leads.QueueSize)
	}
	if c.Leads.MaxRetries < 0 {
		return fmt.Errorf("lead max retries must not be negative, got %d", c.Leads.MaxRetries)
	}
	if len(c.Server.CORSOrigins) == 0 {
		return errors.New("at least one CORS origin is required")
	}
	return nil
}
