package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set.
const DefaultPath = "configs/config.yaml"

// Config 应用配置
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Dataset struct {
		Path string `yaml:"path" env:"DATASET_PATH"`
	} `yaml:"dataset"`

	Database struct {
		Path string `yaml:"path" env:"DB_PATH"`
	} `yaml:"database"`

	Model struct {
		Kind      string        `yaml:"kind" env:"MODEL_KIND"`
		Path      string        `yaml:"path" env:"MODEL_PATH"`
		PythonBin string        `yaml:"python_bin" env:"MODEL_PYTHON_BIN"`
		Script    string        `yaml:"script" env:"MODEL_SCRIPT"`
		Timeout   time.Duration `yaml:"timeout" env:"MODEL_TIMEOUT"`
	} `yaml:"model"`

	RateLimit struct {
		Requests int           `yaml:"requests" env:"RATE_LIMIT_REQUESTS"`
		Window   time.Duration `yaml:"window" env:"RATE_LIMIT_WINDOW"`
	} `yaml:"rate_limit"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// Load 加载配置: defaults, then the YAML file at path if it exists, then
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Path returns the config file location from CONFIG_PATH or the default.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return DefaultPath
}

func setDefaults(cfg *Config) {
	cfg.Server.Port = "8080"
	cfg.Server.Mode = "release"

	cfg.Dataset.Path = "data/customer_booking.csv"
	cfg.Database.Path = ":memory:"

	cfg.Model.Kind = "forest"
	cfg.Model.Path = "models/flight_demand_forest.json"
	cfg.Model.PythonBin = "python3"
	cfg.Model.Script = "scripts/predict.py"
	cfg.Model.Timeout = 10 * time.Second

	cfg.RateLimit.Requests = 60
	cfg.RateLimit.Window = time.Minute

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "json"
}

// Validate checks the values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server mode %q", c.Server.Mode)
	}

	switch c.Model.Kind {
	case "forest", "python":
	default:
		return fmt.Errorf("unknown model kind %q", c.Model.Kind)
	}
	if c.Model.Path == "" {
		return fmt.Errorf("model path is required")
	}
	if c.Model.Timeout <= 0 {
		return fmt.Errorf("model timeout must be positive")
	}

	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit requests and window must be positive")
	}

	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Logging.Format)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Server.Port
}
