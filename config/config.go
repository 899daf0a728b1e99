package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const DefaultFile = "config/config.yaml"

type Config struct {
	AppName    string          `envconfig:"APP_NAME" yaml:"app_name"`
	AppVersion string          `envconfig:"APP_VERSION" yaml:"app_version"`
	AppEnv     string          `envconfig:"APP_ENV" yaml:"app_env"`
	Port       string          `envconfig:"PORT" yaml:"port"`
	LogLevel   string          `envconfig:"LOG_LEVEL" yaml:"log_level"`
	SentryDSN  string          `envconfig:"SENTRY_DSN" yaml:"sentry_dsn"`
	Provider   ProviderConfig  `envconfig:"PROVIDER" yaml:"provider"`
	Dashboard  DashboardConfig `envconfig:"DASHBOARD" yaml:"dashboard"`
	Chart      ChartConfig     `envconfig:"CHART" yaml:"chart"`
}

// ProviderConfig describes the forecast provider. Timeout bounds a single request.
type ProviderConfig struct {
	BaseURL   string        `envconfig:"BASE_URL" yaml:"base_url"`
	AppID     string        `envconfig:"APP_ID" yaml:"app_id"`
	AppSecret string        `envconfig:"APP_SECRET" yaml:"app_secret"`
	Timeout   time.Duration `envconfig:"TIMEOUT" yaml:"timeout"`
	RPS       float64       `envconfig:"RPS" yaml:"rps"`
	Burst     int           `envconfig:"BURST" yaml:"burst"`
}

type DashboardConfig struct {
	RefreshInterval time.Duration `envconfig:"REFRESH_INTERVAL" yaml:"refresh_interval"`
	SearchDebounce  time.Duration `envconfig:"SEARCH_DEBOUNCE" yaml:"search_debounce"`
	DefaultCityID   string        `envconfig:"DEFAULT_CITY_ID" yaml:"default_city_id"`
	DiscardStale    bool          `envconfig:"DISCARD_STALE" yaml:"discard_stale"`
	CitiesFile      string        `envconfig:"CITIES_FILE" yaml:"cities_file"`
}

type ChartConfig struct {
	Title      string `envconfig:"TITLE" yaml:"title"`
	Mount      string `envconfig:"MOUNT" yaml:"mount"`
	Decoration bool   `envconfig:"DECORATION" yaml:"decoration"`
}

// Default returns the configuration used when neither the file nor the
// environment says otherwise.
func Default() *Config {
	return &Config{
		AppName:    "weather-dashboard",
		AppVersion: "1.0.0",
		AppEnv:     "development",
		Port:       "8080",
		LogLevel:   "info",
		Provider: ProviderConfig{
			BaseURL: "http://v1.yiketianqi.com",
			Timeout: 30 * time.Second,
			RPS:     1,
			Burst:   5,
		},
		Dashboard: DashboardConfig{
			RefreshInterval: time.Hour,
			SearchDebounce:  700 * time.Millisecond,
			DefaultCityID:   "101020100",
		},
		Chart: ChartConfig{
			Title:      "一周天气",
			Mount:      "container",
			Decoration: true,
		},
	}
}

// NewConfig loads .env, the YAML file named by CONFIG_FILE (config/config.yaml
// by default) and the environment, and panics on an invalid result.
func NewConfig() *Config {
	// a missing .env is fine
	_ = godotenv.Load()

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = DefaultFile
	}

	cnf, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("error loading configuration: %w", err))
	}

	return cnf
}

// Load applies defaults, then the YAML file at path if it exists, then
// environment variables, and validates the result.
func Load(path string) (*Config, error) {
	cnf := Default()

	// Read from YAML file first
	if yamlData, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(yamlData, cnf); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read YAML config: %w", err)
	}

	// Override with environment variables
	if err := envconfig.Process("", cnf); err != nil {
		return nil, fmt.Errorf("error environment variable parsing: %w", err)
	}

	if err := cnf.Validate(); err != nil {
		return nil, err
	}

	return cnf, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.AppName == "" {
		errs = append(errs, errors.New("app_name is required"))
	}
	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	if c.Provider.AppID == "" {
		errs = append(errs, errors.New("provider.app_id is required"))
	}
	if c.Provider.AppSecret == "" {
		errs = append(errs, errors.New("provider.app_secret is required"))
	}
	if c.Provider.Timeout < 0 {
		errs = append(errs, errors.New("provider.timeout must not be negative"))
	}
	if c.Dashboard.RefreshInterval <= 0 {
		errs = append(errs, errors.New("dashboard.refresh_interval must be positive"))
	}
	if c.Dashboard.SearchDebounce <= 0 {
		errs = append(errs, errors.New("dashboard.search_debounce must be positive"))
	}
	if c.Dashboard.DefaultCityID == "" {
		errs = append(errs, errors.New("dashboard.default_city_id is required"))
	}
	if c.Chart.Mount == "" {
		errs = append(errs, errors.New("chart.mount is required"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
