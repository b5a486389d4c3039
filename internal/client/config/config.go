package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/aliaskeeper/internal/validate"
)

// Config holds runtime settings for the aliaskeeper CLI.
//
// Units: RequestTimeout is a time.Duration; RequestsPerSecond may be
// fractional and a value <= 0 disables throttling.
type Config struct {
	DatabasePath      string        `env:"DB_PATH"             validate:"required"`
	GatewayURL        string        `env:"GATEWAY_URL"         validate:"required,url"`
	Domain            string        `env:"DOMAIN"              validate:"required,hostname"`
	RequestTimeout    time.Duration `env:"REQUEST_TIMEOUT"     validate:"gt=0"`
	RequestsPerSecond float64       `env:"REQUESTS_PER_SECOND"`
	RequestBurst      int           `env:"REQUEST_BURST"       validate:"gte=1"`
	LogLevel          string        `env:"LOG_LEVEL"           validate:"oneof=debug info warn warning error"`
	VaultPassphrase   string        `env:"VAULT_PASSPHRASE"`
	Platform          string        `env:"PLATFORM"            validate:"oneof=chromium firefox"`
	Backup            BackupConfig  `envPrefix:"BACKUP_"`
}

// BackupConfig points at the S3 bucket used by backup and restore. An empty
// Bucket disables both commands. Endpoint selects an S3-compatible service
// (MinIO, LocalStack) and switches to path-style addressing.
type BackupConfig struct {
	Bucket          string `env:"BUCKET"            json:"bucket"`
	Region          string `env:"REGION"            json:"region"`
	Endpoint        string `env:"ENDPOINT"          json:"endpoint"`
	AccessKeyID     string `env:"ACCESS_KEY_ID"     json:"access_key_id"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY" json:"secret_access_key"`
	Prefix          string `env:"PREFIX"            json:"prefix"`
}

// Enabled reports whether a bucket is configured.
func (b BackupConfig) Enabled() bool { return b.Bucket != "" }

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "aliaskeeper.db"
	c.GatewayURL = "https://quack.duckduckgo.com/api"
	c.Domain = "duck.com"
	c.RequestTimeout = 15 * time.Second
	c.RequestsPerSecond = 1
	c.RequestBurst = 3
	c.LogLevel = "info"
	c.Platform = "chromium"
	c.Backup = BackupConfig{Region: "us-east-1", Prefix: "aliaskeeper"}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load builds a Config from defaults, then the JSON file named by -c/-config
// in args, then a .env file in the working directory, then ALIASKEEPER_*
// environment variables, then the flags in args. Later sources take
// precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
