package logging

import (
	"os"

	"github.com/Station-Manager/errors"
	"gopkg.in/yaml.v3"
)

// Config is the logging configuration surface consumed by Service. It is
// typically loaded from a YAML file by the hosting process; zero values are
// filled in by ApplyDefaults.
type Config struct {
	// ServiceName is stamped on every record and on every RequestContext
	// installed by the boundary adapters.
	ServiceName string `yaml:"service_name" validate:"required"`

	// Level is the minimum emitted level: trace, debug, info, warn, error,
	// fatal or panic.
	Level string `yaml:"level" validate:"required,oneof=trace debug info warn error fatal panic"`

	WithTimestamp  bool `yaml:"with_timestamp"`
	SkipFrameCount int  `yaml:"skip_frame_count" validate:"gte=0,lte=16"`

	ConsoleLogging bool `yaml:"console_logging"`
	FileLogging    bool `yaml:"file_logging"`

	// RelLogFileDir is the log directory relative to the working directory.
	RelLogFileDir     string `yaml:"rel_log_file_dir"`
	LogFileMaxBackups int    `yaml:"log_file_max_backups" validate:"gte=0"`
	LogFileMaxAgeDays int    `yaml:"log_file_max_age_days" validate:"gte=0"`
	LogFileMaxSizeMB  int    `yaml:"log_file_max_size_mb" validate:"gte=0"`

	// EnableCorrelation gates the boundary adapters. When false they still
	// run but install an empty identifier and never touch the header.
	EnableCorrelation bool `yaml:"enable_correlation"`

	// ShutdownTimeoutMS bounds how long Close waits for in-flight log
	// operations to drain.
	ShutdownTimeoutMS      int  `yaml:"shutdown_timeout_ms" validate:"gte=0"`
	ShutdownTimeoutWarning bool `yaml:"shutdown_timeout_warning"`
}

// DefaultConfig returns the configuration used when the hosting process
// supplies nothing: console logging at info level, correlation enabled.
func DefaultConfig() Config {
	return Config{
		ServiceName:       DefaultServiceName,
		Level:             "info",
		WithTimestamp:     true,
		ConsoleLogging:    true,
		RelLogFileDir:     "logs",
		LogFileMaxBackups: 5,
		LogFileMaxAgeDays: 7,
		LogFileMaxSizeMB:  10,
		EnableCorrelation: true,
		ShutdownTimeoutMS: 500,
	}
}

// ApplyDefaults fills zero-valued fields so a partially specified file still
// yields a usable configuration.
func (c *Config) ApplyDefaults() {
	def := DefaultConfig()
	if c.ServiceName == emptyString {
		c.ServiceName = def.ServiceName
	}
	if c.Level == emptyString {
		c.Level = def.Level
	}
	if c.RelLogFileDir == emptyString {
		c.RelLogFileDir = def.RelLogFileDir
	}
	if c.LogFileMaxBackups == 0 {
		c.LogFileMaxBackups = def.LogFileMaxBackups
	}
	if c.LogFileMaxAgeDays == 0 {
		c.LogFileMaxAgeDays = def.LogFileMaxAgeDays
	}
	if c.LogFileMaxSizeMB == 0 {
		c.LogFileMaxSizeMB = def.LogFileMaxSizeMB
	}
	if c.ShutdownTimeoutMS == 0 {
		c.ShutdownTimeoutMS = def.ShutdownTimeoutMS
	}
}

// LoadConfig reads a YAML configuration file, applies defaults and validates
// the result. Note that EnableCorrelation, ConsoleLogging and WithTimestamp
// default to false when the file omits them; use DefaultConfig for the
// no-file case.
func LoadConfig(path string) (*Config, error) {
	const op errors.Op = "logging.LoadConfig"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(op).Err(err).Msg("failed to read config file")
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.New(op).Err(err).Msg("failed to parse config file")
	}
	cfg.ApplyDefaults()

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
