package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	Server     ServerConfig
	Database   PostgresConfig
	Simulator  SimulatorConfig
	Dispatcher DispatcherConfig
	Hub        HubConfig
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Host            string        `mapstructure:"host"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type SimulatorConfig struct {
	ProbeCount int           `mapstructure:"probe_count"`
	Interval   time.Duration `mapstructure:"interval"`
}

type DispatcherConfig struct {
	PollInterval       time.Duration `mapstructure:"poll_interval"`
	FailureProbability float64       `mapstructure:"failure_probability"`
	ExecDelayBase      time.Duration `mapstructure:"exec_delay_base"`
	ExecDelayPerUnit   time.Duration `mapstructure:"exec_delay_per_unit"`
	ExecDelayMax       time.Duration `mapstructure:"exec_delay_max"`
}

type HubConfig struct {
	SubscriberBuffer int `mapstructure:"subscriber_buffer"`
}

// Load initializes configuration from environment variables and config file
func Load() (*Config, error) {
	viper.SetEnvPrefix("FIELDHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	viper.AutomaticEnv()

	// Set defaults
	setDefaults()

	// Load config file if exists
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.port", 5000)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "fieldhub")
	viper.SetDefault("database.dbname", "fieldhub")
	viper.SetDefault("database.sslmode", "disable")

	// Simulator defaults
	viper.SetDefault("simulator.probe_count", 4)
	viper.SetDefault("simulator.interval", "10s")

	// Dispatcher defaults
	viper.SetDefault("dispatcher.poll_interval", "3s")
	viper.SetDefault("dispatcher.failure_probability", 0.05)
	viper.SetDefault("dispatcher.exec_delay_base", "2s")
	viper.SetDefault("dispatcher.exec_delay_per_unit", "200ms")
	viper.SetDefault("dispatcher.exec_delay_max", "15s")

	// Hub defaults
	viper.SetDefault("hub.subscriber_buffer", 64)
}

func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if config.Simulator.ProbeCount < 1 {
		return fmt.Errorf("simulator probe_count must be at least 1")
	}
	if config.Simulator.Interval <= 0 {
		return fmt.Errorf("simulator interval must be positive")
	}
	if config.Dispatcher.PollInterval <= 0 {
		return fmt.Errorf("dispatcher poll_interval must be positive")
	}
	if config.Dispatcher.FailureProbability < 0 || config.Dispatcher.FailureProbability > 1 {
		return fmt.Errorf("dispatcher failure_probability must be in [0,1]")
	}
	return nil
}
