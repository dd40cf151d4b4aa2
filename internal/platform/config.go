package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileName is looked up at the project root.
const ConfigFileName = "hexa.yaml"

// Config mirrors hexa.yaml. Values support ${ENV} expansion so secrets can
// stay out of the file.
type Config struct {
	Adapter     string `yaml:"adapter"`
	Path        string `yaml:"path"`
	EventBuffer int    `yaml:"event_buffer"`
	ReadOnly    bool   `yaml:"read_only"`
	SystemDir   string `yaml:"system_dir"`

	Redis RedisConfig `yaml:"redis"`

	Payment struct {
		Provider string       `yaml:"provider"`
		Stripe   StripeConfig `yaml:"stripe"`
	} `yaml:"payment"`

	Notifier struct {
		Provider string         `yaml:"provider"`
		SendGrid SendGridConfig `yaml:"sendgrid"`
	} `yaml:"notifier"`

	HTTP HTTPConfig `yaml:"http"`
}

// RedisConfig configures the redis adapter.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// StripeConfig configures the stripe payment adapter.
type StripeConfig struct {
	Endpoint      string  `yaml:"endpoint"`
	APIKey        string  `yaml:"api_key"`
	Currency      string  `yaml:"currency"`
	RatePerSecond float64 `yaml:"rate_per_second"`
}

// SendGridConfig configures the sendgrid notifier.
type SendGridConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// HTTPConfig configures `hexa serve`.
type HTTPConfig struct {
	Addr         string        `yaml:"addr"`
	RequestLimit int           `yaml:"request_limit"`
	Window       time.Duration `yaml:"window"`
}

// LoadConfig reads a configuration file. A relative Path inside it is
// resolved against the file's directory.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}

	if cfg.Path != "" && !filepath.IsAbs(cfg.Path) && isFileAdapter(cfg.Adapter) {
		cfg.Path = filepath.Join(filepath.Dir(path), cfg.Path)
	}
	return cfg, nil
}
