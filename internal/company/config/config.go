// Package config loads service configuration from a YAML file with
// COMPANYDIR_* environment variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort    int      `mapstructure:"http_port"`
	Environment string   `mapstructure:"environment"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	DB    DBConfig    `mapstructure:"db"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	// GroupID enables the audit consumer when non-empty.
	GroupID string `mapstructure:"group_id"`
}

// IsDevelopment reports whether the service runs in development mode, which
// controls how much error detail reaches API clients.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads the config file at path (optional) and applies environment
// overrides such as COMPANYDIR_DB_HOST.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("http_port", 8080)
	v.SetDefault("environment", "development")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "companydir")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "company.events")

	v.SetEnvPrefix("COMPANYDIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
