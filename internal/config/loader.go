package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config.yaml"

// Load reads configuration from CONFIG_PATH (fallback ./config.yaml) and
// the environment. Priority: ENV > YAML > env-default tags. A missing
// fallback file is not an error; a missing explicit CONFIG_PATH is.
//
// Secrets may also be mounted as files: AUTH_JWT_SECRET_FILE,
// TUNNEL_SHARED_SECRET_FILE and STORAGE_PRIVATE_KEY_FILE override the
// corresponding values.
func Load() (*Config, error) {
	path, explicit := os.LookupEnv("CONFIG_PATH")
	if path == "" {
		path, explicit = defaultConfigPath, false
	}
	return load(path, explicit)
}

func load(path string, explicit bool) (*Config, error) {
	var cfg Config

	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	case explicit:
		return nil, fmt.Errorf("config: file %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	if err := cfg.readSecretFiles(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

func (c *Config) readSecretFiles() error {
	secrets := []struct {
		env string
		dst *string
	}{
		{"AUTH_JWT_SECRET_FILE", &c.Auth.JWTSecret},
		{"TUNNEL_SHARED_SECRET_FILE", &c.Tunnel.SharedSecret},
		{"STORAGE_PRIVATE_KEY_FILE", &c.Storage.PrivateKey},
	}
	for _, s := range secrets {
		path := os.Getenv(s.env)
		if path == "" {
			continue
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%s: %w", s.env, err)
		}
		value := strings.TrimRight(string(raw), "\r\n")
		if value == "" {
			return fmt.Errorf("%s: %w", s.env, errEmptySecretFile)
		}
		*s.dst = value
	}
	return nil
}

var errEmptySecretFile = errors.New("secret file is empty")
