package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abdidvp/sonarfix/internal/domain"
)

// FileName is the config file looked up in the working directory.
const FileName = ".sonarfix.yaml"

const envFileName = ".env"

// Environment variables that override the config file.
const (
	EnvServerURL = "SONAR_URL"
	EnvUser      = "SONAR_USER"
	EnvPassword  = "SONAR_PASSWORD"
	EnvToken     = "SONAR_TOKEN"
)

var _ domain.ConfigLoader = (*YAMLLoader)(nil)

// YAMLLoader implements domain.ConfigLoader by reading .sonarfix.yaml and
// the environment.
type YAMLLoader struct {
	lookupEnv func(string) (string, bool)
	dotenv    bool
}

// New creates a YAMLLoader reading the process environment.
func New() *YAMLLoader { return &YAMLLoader{lookupEnv: os.LookupEnv, dotenv: true} }

// NewWithEnv creates a YAMLLoader reading variables from env instead of the
// process environment. A .env file is not consulted.
func NewWithEnv(env map[string]string) *YAMLLoader {
	return &YAMLLoader{lookupEnv: func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}}
}

// Load reads .sonarfix.yaml from dir and applies environment overrides.
// Returns DefaultConfig plus overrides if the file does not exist.
func (l *YAMLLoader) Load(dir string) (domain.Config, error) {
	return l.LoadFile(filepath.Join(dir, FileName))
}

// LoadFile is Load for an explicit config path. A .env file next to the
// config is loaded first; variables already set in the process win.
func (l *YAMLLoader) LoadFile(path string) (domain.Config, error) {
	if l.dotenv {
		_ = godotenv.Load(filepath.Join(filepath.Dir(path), envFileName)) // optional
	}

	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return domain.Config{}, err
	default:
		var fileCfg domain.Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return domain.Config{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
		}
		// Validate before merging to catch typos in the user's raw input.
		if err := fileCfg.Validate(); err != nil {
			return domain.Config{}, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
		}
		cfg = cfg.Merge(fileCfg)
	}

	return l.applyEnv(cfg), nil
}

// applyEnv overlays non-empty environment values. A token authenticates as
// the user with an empty password, which is how the server accepts tokens.
func (l *YAMLLoader) applyEnv(c domain.Config) domain.Config {
	if v, ok := l.lookupEnv(EnvServerURL); ok && v != "" {
		c.ServerURL = v
	}
	if v, ok := l.lookupEnv(EnvUser); ok && v != "" {
		c.User = v
	}
	if v, ok := l.lookupEnv(EnvPassword); ok && v != "" {
		c.Password = v
	}
	if v, ok := l.lookupEnv(EnvToken); ok && v != "" {
		c.User = v
		c.Password = ""
	}
	return c
}
