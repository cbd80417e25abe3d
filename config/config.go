package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type Config struct {
	AppName     string `envconfig:"APP_NAME" default:"solar-resource-api"`
	AppVersion  string `envconfig:"APP_VERSION" default:"1.0.0"`
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	Port        string `envconfig:"PORT" default:"8080"`
	MetricsPort string `envconfig:"METRICS_PORT" default:"9091"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`

	SolarAPIs []SolarAPIConfig `yaml:"solar_apis"`
	Geocoder  GeocoderConfig   `yaml:"geocoder"`
	Cache     CacheConfig      `yaml:"cache"`
}

type SolarAPIConfig struct {
	Name    string `yaml:"name"`
	APIKey  string `yaml:"api_key,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
	Timeout int    `yaml:"timeout,omitempty"` // seconds
}

type GeocoderConfig struct {
	Enabled   bool   `yaml:"enabled"`
	BaseURL   string `yaml:"base_url,omitempty"`
	UserAgent string `yaml:"user_agent,omitempty"`
	CacheSize int    `yaml:"cache_size,omitempty"`
}

type CacheConfig struct {
	Size       int `yaml:"size,omitempty"`
	TTLMinutes int `yaml:"ttl_minutes,omitempty"`
}

func NewConfig() *Config {
	return NewConfigFromFile("config/config.yaml")
}

func NewConfigFromFile(path string) *Config {
	var cnf Config

	// Read from YAML file first
	if yamlData, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(yamlData, &cnf); err != nil {
			panic(fmt.Sprintf("failed to parse YAML config: %v", err))
		}
	}

	// Override with environment variables
	if err := envconfig.Process("", &cnf); err != nil {
		panic(fmt.Errorf("error environment variable parsing: %w", err))
	}

	cnf.applyDefaults()

	return &cnf
}

func (c *Config) applyDefaults() {
	if c.Cache.Size <= 0 {
		c.Cache.Size = 256
	}
	if c.Cache.TTLMinutes <= 0 {
		c.Cache.TTLMinutes = 60
	}
	if c.Geocoder.CacheSize <= 0 {
		c.Geocoder.CacheSize = 1000
	}
	if c.Geocoder.UserAgent == "" {
		c.Geocoder.UserAgent = c.AppName + "/" + c.AppVersion
	}
}

// GetSolarAPIByName returns the provider config with the given name.
func (c *Config) GetSolarAPIByName(name string) (*SolarAPIConfig, bool) {
	for i := range c.SolarAPIs {
		if c.SolarAPIs[i].Name == name {
			return &c.SolarAPIs[i], true
		}
	}
	return nil, false
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
