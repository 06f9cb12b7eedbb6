package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Data     DataConfig     `mapstructure:"data"`
	Backtest BacktestConfig `mapstructure:"backtest"`
	Search   SearchConfig   `mapstructure:"search"`
}

// AppConfig contains application-level settings
type AppConfig struct {
	Name      string `mapstructure:"name"`
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // "json" or "console"
}

// DataConfig locates the price history and controls synthetic series
type DataConfig struct {
	PricePath  string  `mapstructure:"price_path"`
	SeriesKey  string  `mapstructure:"series_key"`
	VolumeSeed int64   `mapstructure:"volume_seed"`
	VolumeBase float64 `mapstructure:"volume_base"`
}

// BacktestConfig contains simulation settings
type BacktestConfig struct {
	InitialCapital float64 `mapstructure:"initial_capital"`
}

// SearchConfig contains optimizer settings
type SearchConfig struct {
	Metric     string `mapstructure:"metric"`
	TopK       int    `mapstructure:"top_k"`
	Workers    int    `mapstructure:"workers"`
	Iterations int    `mapstructure:"iterations"`
	Seed       int64  `mapstructure:"seed"`
	OutputPath string `mapstructure:"output_path"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("ETFQUANT")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; using defaults and environment variables
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "etfquant")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "console")

	// Data defaults
	v.SetDefault("data.price_path", "data/daily_values.json")
	v.SetDefault("data.series_key", "")
	v.SetDefault("data.volume_seed", 42)
	v.SetDefault("data.volume_base", 1e6)

	// Backtest defaults
	v.SetDefault("backtest.initial_capital", 100000.0)

	// Search defaults
	v.SetDefault("search.metric", "total_return")
	v.SetDefault("search.top_k", 30)
	v.SetDefault("search.workers", 0) // 0 means NumCPU
	v.SetDefault("search.iterations", 3000)
	v.SetDefault("search.seed", 1)
	v.SetDefault("search.output_path", "")
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Backtest.InitialCapital <= 0 {
		return fmt.Errorf("backtest.initial_capital must be positive, got %v", c.Backtest.InitialCapital)
	}
	if c.Search.TopK < 0 {
		return fmt.Errorf("search.top_k must not be negative, got %d", c.Search.TopK)
	}
	if c.Search.Iterations < 0 {
		return fmt.Errorf("search.iterations must not be negative, got %d", c.Search.Iterations)
	}
	if c.Data.VolumeBase <= 0 {
		return fmt.Errorf("data.volume_base must be positive, got %v", c.Data.VolumeBase)
	}
	switch c.App.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("app.log_format must be json or console, got %q", c.App.LogFormat)
	}
	return nil
}
