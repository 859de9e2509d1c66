package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Token store backends.
const (
	TokenStoreKeyring = "keyring"
	TokenStoreFile    = "file"
	TokenStoreMemory  = "memory"
	TokenStoreNone    = "none"
)

// Config holds all configuration for the CLI
type Config struct {
	// Directus Configuration
	Directus DirectusConfig

	// Local state Configuration
	State StateConfig

	// Logging Configuration
	Logging LoggingConfig

	// Any non-empty NO_COLOR disables colour (https://no-color.org)
	NoColorRaw string `env:"NO_COLOR"`
	NoColor    bool
}

// DirectusConfig identifies the backend and its administrator role
type DirectusConfig struct {
	URL           string        `env:"DIRECTUS_URL" envDefault:"http://localhost:8055"`
	ProjectID     string        `env:"DIRECTUS_PROJECT_ID" envDefault:"your-project-id"`
	AdminRoleID   string        `env:"DIRECTUS_ADMIN_ROLE_ID" envDefault:"3e935259-a0ca-416f-9807-4d11d6ff8466"`
	AdminRoleName string        `env:"DIRECTUS_ADMIN_ROLE_NAME" envDefault:"Administrator"`
	Timeout       time.Duration `env:"DIRECTUS_TIMEOUT" envDefault:"0s"` // 0 disables the timeout
}

// StateConfig says where the token and the cached user are kept
type StateConfig struct {
	TokenStore string `env:"DIRECTUS_TOKEN_STORE" envDefault:"keyring"`
	Dir        string `env:"DIRECTUS_STATE_DIR"` // defaults to ~/.config/directus-crud
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"warn"`
	Format string `env:"LOG_FORMAT" envDefault:"console"` // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	cfg.NoColor = cfg.NoColorRaw != ""

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot.
func (c *Config) Validate() error {
	c.Directus.URL = strings.TrimRight(c.Directus.URL, "/")
	if c.Directus.URL == "" {
		return fmt.Errorf("config: DIRECTUS_URL is empty")
	}
	if !strings.HasPrefix(c.Directus.URL, "http://") && !strings.HasPrefix(c.Directus.URL, "https://") {
		return fmt.Errorf("config: DIRECTUS_URL must start with http:// or https://, got %q", c.Directus.URL)
	}
	if c.Directus.Timeout < 0 {
		return fmt.Errorf("config: DIRECTUS_TIMEOUT must not be negative")
	}

	switch c.State.TokenStore {
	case TokenStoreKeyring, TokenStoreFile, TokenStoreMemory, TokenStoreNone:
	default:
		return fmt.Errorf("config: invalid DIRECTUS_TOKEN_STORE '%s', must be one of: keyring, file, memory, none", c.State.TokenStore)
	}
	return nil
}
