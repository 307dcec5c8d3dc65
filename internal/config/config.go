package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/influxdata/lpbatch/lineprotocol"
)

// Config holds all configuration for the lpbatch commands
type Config struct {
	Influx InfluxConfig
	Batch  BatchConfig
	File   FileConfig
	Log    LogConfig
}

// InfluxConfig describes the InfluxDB 1.x write endpoint.
type InfluxConfig struct {
	URL             string
	Database        string
	RetentionPolicy string
	Consistency     lineprotocol.Consistency
	Username        string
	Password        string
	Gzip            bool
	Timeout         time.Duration
}

type BatchConfig struct {
	Size int
	// Tags are added to every point that doesn't set them itself.
	Tags map[string]string
}

// FileConfig controls the rotating output file.
type FileConfig struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type LogConfig struct {
	Level  string
	Format string // json or console
}

// Load loads configuration from environment and config file
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("LPBATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("lpbatch")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/lpbatch/")
	v.AddConfigPath("$HOME/.lpbatch/")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	consistency, err := lineprotocol.ParseConsistency(v.GetString("influx.consistency"))
	if err != nil {
		return nil, fmt.Errorf("invalid influx.consistency: %w", err)
	}
	size := v.GetInt("batch.size")
	if size <= 0 {
		return nil, fmt.Errorf("invalid batch.size %d: must be positive", size)
	}
	timeout := v.GetDuration("influx.timeout")
	if timeout < 0 {
		return nil, fmt.Errorf("invalid influx.timeout %v: must not be negative", timeout)
	}

	cfg := &Config{
		Influx: InfluxConfig{
			URL:             strings.TrimRight(v.GetString("influx.url"), "/"),
			Database:        v.GetString("influx.database"),
			RetentionPolicy: v.GetString("influx.retention_policy"),
			Consistency:     consistency,
			Username:        v.GetString("influx.username"),
			Password:        v.GetString("influx.password"),
			Gzip:            v.GetBool("influx.gzip"),
			Timeout:         timeout,
		},
		Batch: BatchConfig{
			Size: size,
			Tags: v.GetStringMapString("batch.tags"),
		},
		File: FileConfig{
			Path:       v.GetString("file.path"),
			MaxSizeMB:  v.GetInt("file.max_size_mb"),
			MaxBackups: v.GetInt("file.max_backups"),
			MaxAgeDays: v.GetInt("file.max_age_days"),
			Compress:   v.GetBool("file.compress"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("influx.url", "http://localhost:8086")
	v.SetDefault("influx.database", "")
	v.SetDefault("influx.retention_policy", "")
	v.SetDefault("influx.consistency", "")
	v.SetDefault("influx.username", "")
	v.SetDefault("influx.password", "")
	v.SetDefault("influx.gzip", false)
	v.SetDefault("influx.timeout", "30s")

	v.SetDefault("batch.size", 5000)
	v.SetDefault("batch.tags", map[string]string{})

	v.SetDefault("file.path", "points.lp")
	v.SetDefault("file.max_size_mb", 100)
	v.SetDefault("file.max_backups", 10)
	v.SetDefault("file.max_age_days", 28)
	v.SetDefault("file.compress", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
