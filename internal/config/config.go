// Package config loads the generator runtime settings and per-project descriptors.
package config

import (
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/diagram-to-project/generator/internal/registry"
	"github.com/diagram-to-project/generator/internal/result"
)

// EnvPrefix is prepended to environment overrides: DIAGRAMGEN_SERVER_ADDR=:9000.
const EnvPrefix = "DIAGRAMGEN"

// Config is the runtime configuration of the generator.
type Config struct {
	OutputRoot string `mapstructure:"output_root"`
	VerifyJava bool   `mapstructure:"verify_java"`
	RunScripts bool   `mapstructure:"run_scripts"`

	Server  ServerConfig  `mapstructure:"server"`
	Client  ClientConfig  `mapstructure:"client"`
	Project ProjectConfig `mapstructure:"project"`
	Log     LogConfig     `mapstructure:"log"`
	History HistoryConfig `mapstructure:"history"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ClientConfig configures the generated client.
type ClientConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// ProjectConfig holds defaults for projects without a descriptor.
type ProjectConfig struct {
	GroupID           string `mapstructure:"group_id"`
	JavaVersion       string `mapstructure:"java_version"`
	SpringBootVersion string `mapstructure:"spring_boot_version"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// HistoryConfig configures the run history store. An empty path disables it.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

var defaults = map[string]any{
	"output_root":                 "generated-projects",
	"verify_java":                 false,
	"run_scripts":                 true,
	"server.addr":                 ":8085",
	"client.base_url":             "http://localhost:8080",
	"project.group_id":            "com.example",
	"project.java_version":        "17",
	"project.spring_boot_version": "3.2.0",
	"log.level":                   "info",
	"history.path":                "generated-projects/history.db",
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		OutputRoot: "generated-projects",
		RunScripts: true,
		Server:     ServerConfig{Addr: ":8085"},
		Client:     ClientConfig{BaseURL: "http://localhost:8080"},
		Project: ProjectConfig{
			GroupID:           "com.example",
			JavaVersion:       "17",
			SpringBootVersion: "3.2.0",
		},
		Log:     LogConfig{Level: "info"},
		History: HistoryConfig{Path: "generated-projects/history.db"},
	}
}

// LoadConfig reads the configuration. With an empty path it looks for generator.yaml,
// .json or .toml in the working directory and in $HOME/.diagram-generator; a missing
// file leaves the defaults. Environment variables with the DIAGRAMGEN_ prefix win.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("generator")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".diagram-generator"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, result.NewError(result.ConfigError, "reading config", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, result.NewError(result.ConfigError, "decoding config", err)
	}
	return &cfg, nil
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputRoot) == "" {
		return &ConfigError{Field: "output_root", Message: "must not be empty"}
	}
	if c.Server.Addr == "" {
		return &ConfigError{Field: "server.addr", Message: "must not be empty"}
	}
	u, err := url.Parse(c.Client.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: "client.base_url", Message: "must be an absolute http(s) URL"}
	}
	if c.Project.GroupID == "" {
		return &ConfigError{Field: "project.group_id", Message: "must not be empty"}
	}
	if !logLevels[strings.ToLower(c.Log.Level)] {
		return &ConfigError{Field: "log.level", Message: "must be debug, info, warn or error"}
	}
	return nil
}

// ProjectFor returns the project settings for name built from the configured defaults.
func (c *Config) ProjectFor(name string) registry.Project {
	return registry.Project{
		Name:              name,
		GroupID:           c.Project.GroupID,
		JavaVersion:       c.Project.JavaVersion,
		SpringBootVersion: c.Project.SpringBootVersion,
		BaseURL:           c.Client.BaseURL,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// ErrorCode implements result.Coder.
func (e *ConfigError) ErrorCode() result.Code {
	return result.ConfigError
}
