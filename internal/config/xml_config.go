// Package config provides XML-based configuration for the portal server.
package config

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// FileName is the configuration file expected next to the executable.
const FileName = "AuthentiQPortal.config"

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"AuthentiQPortal"`

	Server     ServerConfig     `xml:"Server"`
	Simulation SimulationConfig `xml:"Simulation"`
	Session    SessionConfig    `xml:"Session"`
	Advanced   AdvancedConfig   `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// SimulationConfig holds the fixed delays of the simulated workflows
type SimulationConfig struct {
	UploadDelayMs    int `xml:"UploadDelayMs"`
	VerifyDelayMs    int `xml:"VerifyDelayMs"`
	PreloaderDelayMs int `xml:"PreloaderDelayMs"`
}

// SessionConfig bounds the in-memory visit store
type SessionConfig struct {
	VisitTimeoutMinutes    int `xml:"VisitTimeoutMinutes"`
	CleanupIntervalMinutes int `xml:"CleanupIntervalMinutes"`
	MaxVisits              int `xml:"MaxVisits"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
	VerboseErrors        bool   `xml:"VerboseErrors"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8080,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "32M",
		},
		Simulation: SimulationConfig{
			UploadDelayMs:    3000,
			VerifyDelayMs:    3000,
			PreloaderDelayMs: 2000,
		},
		Session: SessionConfig{
			VisitTimeoutMinutes:    30,
			CleanupIntervalMinutes: 5,
			MaxVisits:              1000,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from XML file, creating it with defaults
// when missing. Environment variables override file values.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := xml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentOverrides()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadDotEnv loads variables from a .env file into the environment. A
// missing file is not an error; variables already set are kept.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- AuthentiQ Portal Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects settings the server cannot run with
func (c *AppConfig) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	if c.Simulation.UploadDelayMs < 0 || c.Simulation.VerifyDelayMs < 0 || c.Simulation.PreloaderDelayMs < 0 {
		return errors.New("simulation delays must not be negative")
	}
	if c.Session.CleanupIntervalMinutes <= 0 || c.Session.VisitTimeoutMinutes <= 0 {
		return errors.New("visit timeout and cleanup interval must be positive")
	}
	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	overrideInt("PORT", &c.Server.Port)
	overrideInt("UPLOAD_DELAY_MS", &c.Simulation.UploadDelayMs)
	overrideInt("VERIFY_DELAY_MS", &c.Simulation.VerifyDelayMs)
	overrideInt("PRELOADER_DELAY_MS", &c.Simulation.PreloaderDelayMs)

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}
}

func overrideInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// UploadDelay is the simulated institution upload time
func (c *AppConfig) UploadDelay() time.Duration {
	return time.Duration(c.Simulation.UploadDelayMs) * time.Millisecond
}

// VerifyDelay is the simulated verifier processing time
func (c *AppConfig) VerifyDelay() time.Duration {
	return time.Duration(c.Simulation.VerifyDelayMs) * time.Millisecond
}

// PreloaderDelay is how long the landing preloader is shown
func (c *AppConfig) PreloaderDelay() time.Duration {
	return time.Duration(c.Simulation.PreloaderDelayMs) * time.Millisecond
}

// VisitTimeout is how long an idle visit is kept
func (c *AppConfig) VisitTimeout() time.Duration {
	return time.Duration(c.Session.VisitTimeoutMinutes) * time.Minute
}

// CleanupInterval is how often idle visits are swept
func (c *AppConfig) CleanupInterval() time.Duration {
	return time.Duration(c.Session.CleanupIntervalMinutes) * time.Minute
}
