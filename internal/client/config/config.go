package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/carTloyal123/shoppi/internal/cryptox"
)

// Config holds runtime settings for the shoppi client.
type Config struct {
	ServerEndpointAddr string        `env:"SHOPPI_SERVER_ADDR"`
	RequestTimeout     time.Duration `env:"SHOPPI_REQUEST_TIMEOUT"`
	OperationTimeout   time.Duration `env:"SHOPPI_OPERATION_TIMEOUT"`
	StorePath          string        `env:"SHOPPI_STORE_PATH"`
	// StoreKey is a hex encoded AES key. Empty leaves the store unsealed.
	StoreKey          string        `env:"SHOPPI_STORE_KEY"`
	DigestScheme      string        `env:"SHOPPI_DIGEST_SCHEME"`
	VerifyLocalDigest bool          `env:"SHOPPI_VERIFY_LOCAL_DIGEST"`
	RevalidateAfter   time.Duration `env:"SHOPPI_REVALIDATE_AFTER"`
	LogLevel          string        `env:"SHOPPI_LOG_LEVEL"`
	// CheckInterval is how often the CLI pings the backend. Zero disables it.
	CheckInterval time.Duration `env:"SHOPPI_CHECK_INTERVAL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
	c.OperationTimeout = 30 * time.Second
	c.StorePath = "shoppi.db"
	c.StoreKey = ""
	c.DigestScheme = cryptox.SchemeArgon2id
	c.VerifyLocalDigest = true
	c.RevalidateAfter = 24 * time.Hour
	c.LogLevel = "info"
	c.CheckInterval = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones. It panics on malformed input.
func LoadConfig() *Config {
	return load(os.Args[1:])
}

func load(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, args)
	parseEnv(cfg)
	parseFlags(cfg, args)
	return cfg
}

// StoreKeyBytes decodes StoreKey. It returns nil when no key is set.
func (c *Config) StoreKeyBytes() ([]byte, error) {
	if c.StoreKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(c.StoreKey)
	if err != nil {
		return nil, fmt.Errorf("store key: %w", err)
	}
	switch len(key) {
	case 16, 24, 32:
		return key, nil
	default:
		return nil, fmt.Errorf("store key: want 16, 24 or 32 bytes, got %d", len(key))
	}
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.ServerEndpointAddr == "" {
		errs = append(errs, errors.New("server address is required"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if _, err := cryptox.NewHasher(c.DigestScheme); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.StoreKeyBytes(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
