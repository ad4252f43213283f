package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DemoToken is the token of the demo user seeded into an in-memory backend
// that has no seed file.
const DemoToken = "demo-token"

// Store drivers understood by the local backend.
const (
	StoreMemory  = "memory"
	StoreSurreal = "surreal"
)

// Provider exposes configuration values to the rest of the application.
// Components depend on this interface rather than on the concrete struct.
type Provider interface {
	GetAddr() string
	GetAPIBaseURL() string
	GetAPIToken() string
	GetAPITimeout() time.Duration
	GetEmbeddedAPI() bool
	GetAPIAddr() string
	GetStoreDriver() string
	GetSeedFile() string
	GetSessionSecret() string
	GetDBURL() string
	GetDBNs() string
	GetDBDb() string
	GetDBUser() string
	GetDBPass() string
}

// Config holds all configuration for the application.
type Config struct {
	Addr          string
	APIBaseURL    string
	APIToken      string
	APITimeout    time.Duration
	EmbeddedAPI   bool
	APIAddr       string
	StoreDriver   string
	SeedFile      string
	SessionSecret string

	DBUrl  string
	DBNs   string
	DBDb   string
	DBUser string
	DBPass string
}

// New loads configuration from the environment, reading a .env file first
// when one is present.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching
// .env files.
func FromEnv() (*Config, error) {
	timeout, err := durationEnv("MESTO_API_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	embedded, err := boolEnv("MESTO_EMBEDDED_API", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Addr:          stringEnv("MESTO_ADDR", ":3000"),
		APIBaseURL:    strings.TrimRight(os.Getenv("MESTO_API_URL"), "/"),
		APIToken:      os.Getenv("MESTO_API_TOKEN"),
		APITimeout:    timeout,
		EmbeddedAPI:   embedded,
		APIAddr:       stringEnv("MESTO_API_ADDR", ":3001"),
		StoreDriver:   stringEnv("MESTO_STORE", StoreMemory),
		SeedFile:      os.Getenv("MESTO_SEED_FILE"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		DBUrl:         os.Getenv("SURREAL_URL"),
		DBUser:        os.Getenv("SURREAL_USER"),
		DBPass:        os.Getenv("SURREAL_PASS"),
		DBNs:          os.Getenv("SURREAL_NS"),
		DBDb:          os.Getenv("SURREAL_DB"),
	}

	if cfg.EmbeddedAPI {
		if err := cfg.pointAtEmbeddedAPI(); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// pointAtEmbeddedAPI fills the client settings the app needs to reach the
// API it serves itself. Explicit settings are kept.
func (c *Config) pointAtEmbeddedAPI() error {
	if c.APIBaseURL == "" {
		_, port, err := net.SplitHostPort(c.Addr)
		if err != nil {
			return fmt.Errorf("MESTO_ADDR %q: %w", c.Addr, err)
		}
		c.APIBaseURL = "http://" + net.JoinHostPort("localhost", port) + "/api"
	}
	if c.APIToken == "" && c.StoreDriver == StoreMemory && c.SeedFile == "" {
		c.APIToken = DemoToken
	}
	return nil
}

// Validate checks the combinations of settings that cannot work together.
func (c *Config) Validate() error {
	if c.APITimeout <= 0 {
		return fmt.Errorf("MESTO_API_TIMEOUT must be a positive duration")
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StoreSurreal:
		if c.DBUrl == "" || c.DBNs == "" || c.DBDb == "" {
			return fmt.Errorf("MESTO_STORE=surreal requires SURREAL_URL, SURREAL_NS and SURREAL_DB")
		}
	default:
		return fmt.Errorf("unknown MESTO_STORE %q", c.StoreDriver)
	}
	return nil
}

func (c *Config) GetAddr() string              { return c.Addr }
func (c *Config) GetAPIBaseURL() string        { return c.APIBaseURL }
func (c *Config) GetAPIToken() string          { return c.APIToken }
func (c *Config) GetAPITimeout() time.Duration { return c.APITimeout }
func (c *Config) GetEmbeddedAPI() bool         { return c.EmbeddedAPI }
func (c *Config) GetAPIAddr() string           { return c.APIAddr }
func (c *Config) GetStoreDriver() string       { return c.StoreDriver }
func (c *Config) GetSeedFile() string          { return c.SeedFile }
func (c *Config) GetSessionSecret() string     { return c.SessionSecret }
func (c *Config) GetDBURL() string             { return c.DBUrl }
func (c *Config) GetDBNs() string              { return c.DBNs }
func (c *Config) GetDBDb() string              { return c.DBDb }
func (c *Config) GetDBUser() string            { return c.DBUser }
func (c *Config) GetDBPass() string            { return c.DBPass }

func stringEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func boolEnv(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
