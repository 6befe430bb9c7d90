package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP struct {
		Port int `yaml:"port"`
	} `yaml:"http"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Channel  string `yaml:"channel"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Shop struct {
		WatchIntervalSeconds int           `yaml:"watch_interval_seconds"`
		Roster               []RosterEntry `yaml:"roster"`
	} `yaml:"shop"`

	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   int64  `yaml:"chat_id"`
	} `yaml:"telegram"`

	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
		Burst     int `yaml:"burst"`
	} `yaml:"rate_limit"`
}

// RosterEntry declares one staff member and their login.
type RosterEntry struct {
	ID       string `yaml:"id"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// Default returns a config usable without any file on disk.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/barberline.db"
	}
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8090
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Shop.WatchIntervalSeconds <= 0 {
		c.Shop.WatchIntervalSeconds = 1
	}
	if len(c.Shop.Roster) == 0 {
		c.Shop.Roster = defaultRoster()
	}
}

func (c *Config) WatchInterval() time.Duration {
	return time.Duration(c.Shop.WatchIntervalSeconds) * time.Second
}

func defaultRoster() []RosterEntry {
	return []RosterEntry{
		{ID: "charles", Username: "charles", Password: "barbershop2026", Name: "Charles"},
		{ID: "guilherme", Username: "guilherme", Password: "barbershop2026", Name: "Guilherme"},
		{ID: "paulo", Username: "paulo", Password: "barbershop2026", Name: "Paulo"},
	}
}
