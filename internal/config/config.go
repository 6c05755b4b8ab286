package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Report    ReportConfig    `yaml:"report" envconfig:"REPORT"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output console"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	InputFile string `yaml:"input_file" envconfig:"INPUT_FILE" validate:"required"`
	OutputDir string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required"`
	LogsDir   string `yaml:"logs_dir" envconfig:"LOGS_DIR"`
}

// AnalysisConfig holds the cleaning policy and aggregation parameters.
// Ages outside [MinAge, MaxAge] are removed, never clamped.
type AnalysisConfig struct {
	MinAge      int `yaml:"min_age" envconfig:"MIN_AGE" validate:"gte=0"`
	MaxAge      int `yaml:"max_age" envconfig:"MAX_AGE" validate:"gtefield=MinAge"`
	AgeBinWidth int `yaml:"age_bin_width" envconfig:"AGE_BIN_WIDTH" validate:"gte=1,lte=100"`
}

// ReportConfig selects which report artifacts are produced
type ReportConfig struct {
	Formats []string `yaml:"formats" envconfig:"FORMATS" validate:"min=1,dive,oneof=text csv json xlsx"`
	Title   string   `yaml:"title" envconfig:"TITLE"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	ServiceName   string  `yaml:"service_name" envconfig:"SERVICE_NAME"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	TraceFile     string  `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// Load builds the configuration from defaults, an optional YAML file, a
// .env file in the working directory and NOSHOW_* environment variables,
// in increasing order of precedence. An empty configFile searches the
// default locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	} else if _, err := os.Stat(configFile); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configFile, err)
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", DotEnvFile, err)
	}

	// Fields without a matching variable are left untouched
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file on cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadDotEnv loads a .env file when present. Variables already set in the
// process environment win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return godotenv.Load(path)
}

// Validate checks field constraints and normalizes values
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Format = strings.ToLower(c.Logging.Format)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	for i, f := range c.Report.Formats {
		c.Report.Formats[i] = strings.ToLower(strings.TrimSpace(f))
	}

	if err := validator.New().Struct(c); err != nil {
		return err
	}

	return nil
}

// WantsFormat reports whether the given report format is enabled
func (c *Config) WantsFormat(format string) bool {
	for _, f := range c.Report.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	for _, location := range ConfigFileLocations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/noshow.log",
		},
		Paths: PathsConfig{
			InputFile: DefaultInputFile,
			OutputDir: "reports",
			LogsDir:   "logs",
		},
		Analysis: AnalysisConfig{
			MinAge:      DefaultMinAge,
			MaxAge:      DefaultMaxAge,
			AgeBinWidth: DefaultAgeBinWidth,
		},
		Report: ReportConfig{
			Formats: []string{FormatText},
			Title:   DefaultReportTitle,
		},
		Telemetry: TelemetryConfig{
			ServiceName:   AppName,
			Environment:   "development",
			EnableTracing: false,
			EnableMetrics: true,
			SampleRatio:   1.0,
		},
	}
}
