package domain

import (
	"fmt"
	"time"
)

// Defaults used when neither the config file nor the environment set a value.
const (
	DefaultServerURL    = "http://localhost:9000"
	DefaultOutputPrefix = "codefix-issues-output-"
	DefaultOutputDir    = "."
)

// Config holds tool configuration loaded from .sonarfix.yaml, the
// environment and command-line flags, in increasing precedence.
type Config struct {
	ServerURL    string        `yaml:"server_url"    json:"server_url,omitempty"`
	User         string        `yaml:"user"          json:"user,omitempty"`
	Password     string        `yaml:"password"      json:"-"`
	Project      string        `yaml:"project"       json:"project,omitempty"`
	Folder       string        `yaml:"folder"        json:"folder,omitempty"`
	Branch       string        `yaml:"branch"        json:"branch,omitempty"`
	Severity     string        `yaml:"severity"      json:"severity,omitempty"`
	OutputPrefix string        `yaml:"output_prefix" json:"output_prefix,omitempty"`
	OutputDir    string        `yaml:"output_dir"    json:"output_dir,omitempty"`
	HTTPTimeout  time.Duration `yaml:"http_timeout"  json:"http_timeout,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		ServerURL:    DefaultServerURL,
		OutputPrefix: DefaultOutputPrefix,
		OutputDir:    DefaultOutputDir,
	}
}

// Validate checks the config for invalid values and returns a descriptive error.
func (c Config) Validate() error {
	if c.Severity != "" && !IsValidSeverity(c.Severity) {
		return fmt.Errorf("unknown severity %q (valid: INFO, MINOR, MAJOR, CRITICAL, BLOCKER)", c.Severity)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative (got %s)", c.HTTPTimeout)
	}
	return nil
}

// Criteria returns the filter a pipeline run uses.
func (c Config) Criteria() FilterCriteria {
	return FilterCriteria{
		ServerURL:    c.ServerURL,
		User:         c.User,
		Password:     c.Password,
		Project:      c.Project,
		Folder:       c.Folder,
		Branch:       c.Branch,
		Severity:     c.Severity,
		OutputPrefix: c.OutputPrefix,
	}
}

// Merge overlays the non-zero fields of override on c.
func (c Config) Merge(override Config) Config {
	result := c
	setString(&result.ServerURL, override.ServerURL)
	setString(&result.User, override.User)
	setString(&result.Password, override.Password)
	setString(&result.Project, override.Project)
	setString(&result.Folder, override.Folder)
	setString(&result.Branch, override.Branch)
	setString(&result.Severity, override.Severity)
	setString(&result.OutputPrefix, override.OutputPrefix)
	setString(&result.OutputDir, override.OutputDir)
	if override.HTTPTimeout != 0 {
		result.HTTPTimeout = override.HTTPTimeout
	}
	return result
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
