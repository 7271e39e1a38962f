// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/inkfold/bindery/api/schemas"
)

// Config is the root of the application configuration tree. It is populated
// by Viper from (in increasing precedence) built-in defaults, an optional
// YAML config file, BINDERY_* environment variables, and command line flags.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Impose     ImposeConfig     `mapstructure:"impose" yaml:"impose"`
	Jobs       JobsConfig       `mapstructure:"jobs" yaml:"jobs"`
	Flashcards FlashcardsConfig `mapstructure:"flashcards" yaml:"flashcards"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// ImposeConfig carries the imposition defaults applied when neither a job
// file nor a command line flag overrides them. The string fields hold the
// wire names understood by the schema parsers, so a config file and a job
// file always agree on spelling.
type ImposeConfig struct {
	Binding        string `mapstructure:"binding" yaml:"binding"`
	Arrangement    string `mapstructure:"arrangement" yaml:"arrangement"`
	Paper          string `mapstructure:"paper" yaml:"paper"`
	Orientation    string `mapstructure:"orientation" yaml:"orientation"`
	Format         string `mapstructure:"format" yaml:"format"`
	Scaling        string `mapstructure:"scaling" yaml:"scaling"`
	ValidateInputs bool   `mapstructure:"validate_inputs" yaml:"validate_inputs"`
}

// JobsConfig tunes the background job dispatcher used by watch mode.
type JobsConfig struct {
	Debounce      time.Duration `mapstructure:"debounce" yaml:"debounce"`
	ShutdownGrace time.Duration `mapstructure:"shutdown_grace" yaml:"shutdown_grace"`
}

// FlashcardsConfig holds the layout defaults for the flashcard sheet
// generator.
type FlashcardsConfig struct {
	Paper           string  `mapstructure:"paper" yaml:"paper"`
	Columns         int     `mapstructure:"columns" yaml:"columns"`
	Rows            int     `mapstructure:"rows" yaml:"rows"`
	CardWidthMM     float64 `mapstructure:"card_width_mm" yaml:"card_width_mm"`
	CardHeightMM    float64 `mapstructure:"card_height_mm" yaml:"card_height_mm"`
	MarginMM        float64 `mapstructure:"margin_mm" yaml:"margin_mm"`
	RowSpacingMM    float64 `mapstructure:"row_spacing_mm" yaml:"row_spacing_mm"`
	ColumnSpacingMM float64 `mapstructure:"column_spacing_mm" yaml:"column_spacing_mm"`
	FontFamily      string  `mapstructure:"font_family" yaml:"font_family"`
	FontSize        float64 `mapstructure:"font_size" yaml:"font_size"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "bindery")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Impose --
	v.SetDefault("impose.binding", "Signature")
	v.SetDefault("impose.arrangement", "Quarto")
	v.SetDefault("impose.paper", "Letter")
	v.SetDefault("impose.orientation", "Portrait")
	v.SetDefault("impose.format", "DoubleSided")
	v.SetDefault("impose.scaling", "Fit")
	v.SetDefault("impose.validate_inputs", true)

	// -- Jobs --
	v.SetDefault("jobs.debounce", "500ms")
	v.SetDefault("jobs.shutdown_grace", "5s")

	// -- Flashcards --
	v.SetDefault("flashcards.paper", "Letter")
	v.SetDefault("flashcards.columns", 3)
	v.SetDefault("flashcards.rows", 2)
	v.SetDefault("flashcards.card_width_mm", 63.5)
	v.SetDefault("flashcards.card_height_mm", 88.9)
	v.SetDefault("flashcards.margin_mm", 10.0)
	v.SetDefault("flashcards.row_spacing_mm", 5.0)
	v.SetDefault("flashcards.column_spacing_mm", 5.0)
	v.SetDefault("flashcards.font_family", "Helvetica")
	v.SetDefault("flashcards.font_size", 12.0)
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// DefaultConfigDir returns the per-user configuration directory searched for
// a config file when none is given on the command line. An empty string is
// returned when the home directory cannot be determined.
func DefaultConfigDir() string {
	home, err := homedir.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bindery")
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.Impose.Validate(); err != nil {
		return fmt.Errorf("impose configuration invalid: %w", err)
	}
	if err := c.Jobs.Validate(); err != nil {
		return fmt.Errorf("jobs configuration invalid: %w", err)
	}
	if err := c.Flashcards.Validate(); err != nil {
		return fmt.Errorf("flashcards configuration invalid: %w", err)
	}
	return nil
}

// Validate checks that every impose default names a choice the schema
// parsers understand.
func (i *ImposeConfig) Validate() error {
	if _, err := schemas.ParseBindingType(i.Binding); err != nil {
		return fmt.Errorf("impose.binding: %w", err)
	}
	if _, err := schemas.ParseArrangement(i.Arrangement); err != nil {
		return fmt.Errorf("impose.arrangement: %w", err)
	}
	if _, err := schemas.ParsePaperSize(i.Paper); err != nil {
		return fmt.Errorf("impose.paper: %w", err)
	}
	if _, err := schemas.ParseOrientation(i.Orientation); err != nil {
		return fmt.Errorf("impose.orientation: %w", err)
	}
	if _, err := schemas.ParseOutputFormat(i.Format); err != nil {
		return fmt.Errorf("impose.format: %w", err)
	}
	if _, err := schemas.ParseScalingMode(i.Scaling); err != nil {
		return fmt.Errorf("impose.scaling: %w", err)
	}
	return nil
}

// Seed builds the imposition configuration that a job starts from before
// job files and flags are layered on top. Margin, mark, and numbering
// defaults come from the schema layer; this only applies the app-level
// choices.
func (i *ImposeConfig) Seed() (schemas.ImpositionConfig, error) {
	cfg := schemas.DefaultImpositionConfig()

	binding, err := schemas.ParseBindingType(i.Binding)
	if err != nil {
		return cfg, fmt.Errorf("impose.binding: %w", err)
	}
	arrangement, err := schemas.ParseArrangement(i.Arrangement)
	if err != nil {
		return cfg, fmt.Errorf("impose.arrangement: %w", err)
	}
	paper, err := schemas.ParsePaperSize(i.Paper)
	if err != nil {
		return cfg, fmt.Errorf("impose.paper: %w", err)
	}
	orientation, err := schemas.ParseOrientation(i.Orientation)
	if err != nil {
		return cfg, fmt.Errorf("impose.orientation: %w", err)
	}
	format, err := schemas.ParseOutputFormat(i.Format)
	if err != nil {
		return cfg, fmt.Errorf("impose.format: %w", err)
	}
	scaling, err := schemas.ParseScalingMode(i.Scaling)
	if err != nil {
		return cfg, fmt.Errorf("impose.scaling: %w", err)
	}

	cfg.Binding = binding
	cfg.Arrangement = arrangement
	cfg.Paper = paper
	cfg.Orientation = orientation
	cfg.OutputFormat = format
	cfg.Scaling = scaling
	return cfg, nil
}

// Validate checks the job dispatcher settings.
func (j *JobsConfig) Validate() error {
	if j.Debounce <= 0 {
		return fmt.Errorf("debounce must be a positive duration")
	}
	if j.ShutdownGrace <= 0 {
		return fmt.Errorf("shutdown_grace must be a positive duration")
	}
	return nil
}

// Validate checks the flashcard layout settings.
func (f *FlashcardsConfig) Validate() error {
	if _, err := schemas.ParsePaperSize(f.Paper); err != nil {
		return fmt.Errorf("flashcards.paper: %w", err)
	}
	if f.Columns < 1 || f.Rows < 1 {
		return fmt.Errorf("flashcards.columns and flashcards.rows must be at least 1")
	}
	if f.CardWidthMM <= 0 || f.CardHeightMM <= 0 {
		return fmt.Errorf("flashcards.card_width_mm and flashcards.card_height_mm must be positive")
	}
	if f.MarginMM < 0 || f.RowSpacingMM < 0 || f.ColumnSpacingMM < 0 {
		return fmt.Errorf("flashcards margins and spacing must not be negative")
	}
	if f.FontSize <= 0 {
		return fmt.Errorf("flashcards.font_size must be positive")
	}
	return nil
}
