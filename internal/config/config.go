package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// Config drives the chanwatch command.
type Config struct {
	APIBase         string   `yaml:"api_base"`
	UserAgent       string   `yaml:"user_agent"`
	Boards          []string `yaml:"boards" validate:"required,min=1,dive,required"`
	Query           string   `yaml:"query"`
	FetchThreads    bool     `yaml:"fetch_threads"`
	IntervalSeconds int      `yaml:"interval_seconds" validate:"omitempty,min=10"`
	MetricsAddr     string   `yaml:"metrics_addr"`
	LogLevel        string   `yaml:"log_level"`
	LogJSON         bool     `yaml:"log_json"`
}

// Interval returns the catalog poll interval.
func (c *Config) Interval() time.Duration {
	if c.IntervalSeconds == 0 {
		return time.Minute
	}
	return time.Duration(c.IntervalSeconds) * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)

	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

// MustLoad reads and validates the config file, panicking on any problem.
func MustLoad(configPath string) *Config {
	var cfg Config
	mustLoadPath(configPath, &cfg)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(&cfg); err != nil {
		panic("invalid config: " + err.Error())
	}

	return &cfg
}
