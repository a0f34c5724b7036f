package osm2gpx

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

var (
	// ErrInvalidConfig is returned when configuration does not pass validation
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Configuration Parameters of single extraction run
type Configuration struct {
	Input         string           `mapstructure:"input"`
	Output        string           `mapstructure:"output"`
	Expression    string           `mapstructure:"expression"`
	DefaultName   string           `mapstructure:"name"`
	Format        string           `mapstructure:"format"`
	Workers       int              `mapstructure:"workers"`
	MaxIterations int              `mapstructure:"max_iterations"`
	CacheSize     int              `mapstructure:"cache_size"`
	Procs         int              `mapstructure:"procs"`
	MetricsFile   string           `mapstructure:"metrics_file"`
	Log           LogConfiguration `mapstructure:"log"`
}

// LogConfiguration Logger settings
type LogConfiguration struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetConfigurationDefaults registers default values for every known key
func SetConfigurationDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("expression", "")
	v.SetDefault("name", "")
	v.SetDefault("format", "gpx")
	v.SetDefault("workers", 1)
	v.SetDefault("max_iterations", DefaultMaxIterations)
	v.SetDefault("cache_size", 0)
	v.SetDefault("procs", 4)
	v.SetDefault("metrics_file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadConfiguration reads configuration from given viper instance.
// Config file (if any) and environment variables (OSM2GPX_LOG_LEVEL -> log.level) are taken into account
func LoadConfiguration(v *viper.Viper, configFile string) (*Configuration, error) {
	SetConfigurationDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "Can't read config file '%s'", configFile)
		}
	} else {
		v.SetConfigName("osm2gpx")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "Can't read config file 'osm2gpx.yaml'")
			}
		}
	}

	v.SetEnvPrefix("OSM2GPX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "Can't unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that required fields are present and sane. Every problem is reported at once
func (cfg *Configuration) Validate() error {
	var errs []string

	if cfg.Input == "" {
		errs = append(errs, "input (OSM file) is required")
	} else if _, err := GuessFileFormat(cfg.Input); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.Output == "" {
		errs = append(errs, "output is required")
	}
	if cfg.Expression == "" {
		errs = append(errs, "expression is required")
	} else if _, err := ParseExpression(cfg.Expression); err != nil {
		errs = append(errs, err.Error())
	}
	if _, err := ParseOutputFormat(cfg.Format); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Sprintf("workers must be positive, got %d", cfg.Workers))
	}
	if cfg.MaxIterations <= 0 {
		errs = append(errs, fmt.Sprintf("max_iterations must be positive, got %d", cfg.MaxIterations))
	}
	if cfg.CacheSize < 0 {
		errs = append(errs, fmt.Sprintf("cache_size must not be negative, got %d", cfg.CacheSize))
	}
	if cfg.Procs <= 0 {
		errs = append(errs, fmt.Sprintf("procs must be positive, got %d", cfg.Procs))
	}
	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("log.level must be one of debug / info / warn / error, got '%s'", cfg.Log.Level))
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("log.format must be one of text / json, got '%s'", cfg.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(errs, "\n  - "))
	}
	return nil
}

func (cfg *Configuration) String() string {
	return fmt.Sprintf(`
Extraction parameters:
	input: '%s'
	output: '%s'
	expression: '%s'
	default name: '%s'
	format: '%s'
	workers: %d
	max_iterations: %d
	cache_size: %d
	procs: %d
	metrics_file: '%s'
	`,
		cfg.Input,
		cfg.Output,
		cfg.Expression,
		cfg.DefaultName,
		cfg.Format,
		cfg.Workers,
		cfg.MaxIterations,
		cfg.CacheSize,
		cfg.Procs,
		cfg.MetricsFile,
	)
}
