package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/psort"
	"github.com/hupe1980/psort/codec"
)

// Config defines configuration for the psort CLI.
type Config struct {
	MaxWorkers  int         `yaml:"max_workers"`
	Threshold   int         `yaml:"threshold"`
	SpawnCutoff int         `yaml:"spawn_cutoff"`
	Input       string      `yaml:"input"`
	Output      string      `yaml:"output"`
	Format      string      `yaml:"format"`
	Compression string      `yaml:"compression"`
	MemoryLimit int64       `yaml:"memory_limit"`
	IOLimit     int64       `yaml:"io_limit"`
	Timing      bool        `yaml:"timing"`
	Log         LogConfig   `yaml:"log"`
	S3          S3Config    `yaml:"s3"`
	MinIO       MinIOConfig `yaml:"minio"`
}

// LogConfig defines log output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// S3Config configures s3:// locations.
type S3Config struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Prefix   string `yaml:"prefix"`
}

// MinIOConfig configures minio:// locations.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
	Region    string `yaml:"region"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Threshold:   psort.DefaultThreshold,
		Input:       "-",
		Output:      "-",
		Format:      "text",
		Compression: "auto",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		MinIO: MinIOConfig{
			Endpoint: "localhost:9000",
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string sizes.
type yamlConfig struct {
	MaxWorkers  int         `yaml:"max_workers"`
	Threshold   int         `yaml:"threshold"`
	SpawnCutoff int         `yaml:"spawn_cutoff"`
	Input       string      `yaml:"input"`
	Output      string      `yaml:"output"`
	Format      string      `yaml:"format"`
	Compression string      `yaml:"compression"`
	MemoryLimit string      `yaml:"memory_limit"`
	IOLimit     string      `yaml:"io_limit"`
	Timing      bool        `yaml:"timing"`
	Log         LogConfig   `yaml:"log"`
	S3          S3Config    `yaml:"s3"`
	MinIO       MinIOConfig `yaml:"minio"`
}

// ParseSize parses a byte size such as "512MiB", "2GB" or "1048576".
func ParseSize(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, err
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("size %q too large", s)
	}
	return int64(n), nil
}

// LoadFromFile loads configuration from a YAML file on top of Default.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.MaxWorkers != 0 {
		cfg.MaxWorkers = yc.MaxWorkers
	}
	if yc.Threshold != 0 {
		cfg.Threshold = yc.Threshold
	}
	if yc.SpawnCutoff != 0 {
		cfg.SpawnCutoff = yc.SpawnCutoff
	}
	if yc.Input != "" {
		cfg.Input = yc.Input
	}
	if yc.Output != "" {
		cfg.Output = yc.Output
	}
	if yc.Format != "" {
		cfg.Format = yc.Format
	}
	if yc.Compression != "" {
		cfg.Compression = yc.Compression
	}
	if yc.MemoryLimit != "" {
		size, err := ParseSize(yc.MemoryLimit)
		if err != nil {
			return Config{}, fmt.Errorf("parse memory_limit: %w", err)
		}
		cfg.MemoryLimit = size
	}
	if yc.IOLimit != "" {
		size, err := ParseSize(yc.IOLimit)
		if err != nil {
			return Config{}, fmt.Errorf("parse io_limit: %w", err)
		}
		cfg.IOLimit = size
	}
	cfg.Timing = yc.Timing
	if yc.Log.Level != "" {
		cfg.Log.Level = yc.Log.Level
	}
	if yc.Log.Format != "" {
		cfg.Log.Format = yc.Log.Format
	}
	cfg.S3 = yc.S3
	if yc.MinIO.Endpoint != "" {
		cfg.MinIO.Endpoint = yc.MinIO.Endpoint
	}
	cfg.MinIO.AccessKey = yc.MinIO.AccessKey
	cfg.MinIO.SecretKey = yc.MinIO.SecretKey
	cfg.MinIO.Secure = yc.MinIO.Secure
	cfg.MinIO.Region = yc.MinIO.Region

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the PSORT_ prefix.
func (c *Config) LoadFromEnv() error {
	for _, iv := range []struct {
		name string
		dst  *int
	}{
		{"PSORT_MAX_WORKERS", &c.MaxWorkers},
		{"PSORT_THRESHOLD", &c.Threshold},
		{"PSORT_SPAWN_CUTOFF", &c.SpawnCutoff},
	} {
		if v := os.Getenv(iv.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("parse %s: %w", iv.name, err)
			}
			*iv.dst = n
		}
	}

	for _, sv := range []struct {
		name string
		dst  *int64
	}{
		{"PSORT_MEMORY_LIMIT", &c.MemoryLimit},
		{"PSORT_IO_LIMIT", &c.IOLimit},
	} {
		if v := os.Getenv(sv.name); v != "" {
			size, err := ParseSize(v)
			if err != nil {
				return fmt.Errorf("parse %s: %w", sv.name, err)
			}
			*sv.dst = size
		}
	}

	for _, s := range []struct {
		name string
		dst  *string
	}{
		{"PSORT_INPUT", &c.Input},
		{"PSORT_OUTPUT", &c.Output},
		{"PSORT_FORMAT", &c.Format},
		{"PSORT_COMPRESSION", &c.Compression},
		{"PSORT_LOG_LEVEL", &c.Log.Level},
		{"PSORT_LOG_FORMAT", &c.Log.Format},
		{"PSORT_S3_REGION", &c.S3.Region},
		{"PSORT_S3_ENDPOINT", &c.S3.Endpoint},
		{"PSORT_S3_PREFIX", &c.S3.Prefix},
		{"PSORT_MINIO_ENDPOINT", &c.MinIO.Endpoint},
		{"PSORT_MINIO_ACCESS_KEY", &c.MinIO.AccessKey},
		{"PSORT_MINIO_SECRET_KEY", &c.MinIO.SecretKey},
	} {
		if v := os.Getenv(s.name); v != "" {
			*s.dst = v
		}
	}

	if v := os.Getenv("PSORT_TIMING"); v != "" {
		c.Timing = v == "true" || v == "1"
	}
	if v := os.Getenv("PSORT_MINIO_SECURE"); v != "" {
		c.MinIO.Secure = v == "true" || v == "1"
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := psort.ValidateMaxWorkers(c.MaxWorkers); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Threshold < 0 {
		return errors.New("config: threshold must not be negative")
	}
	if c.SpawnCutoff < 0 {
		return errors.New("config: spawn_cutoff must not be negative")
	}
	if c.Input == "" {
		return errors.New("config: input is required")
	}
	if c.Output == "" {
		return errors.New("config: output is required")
	}
	if _, err := codec.ByName(c.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !strings.EqualFold(c.Compression, "auto") {
		if _, err := codec.CompressionByName(c.Compression); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	if c.MemoryLimit < 0 {
		return errors.New("config: memory_limit must not be negative")
	}
	if c.IOLimit < 0 {
		return errors.New("config: io_limit must not be negative")
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("config: log level: %w", err)
	}
	return level, nil
}
