package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/vphpersson/typeddict_generation/pkg/types/identifier"
)

/*
Settings are merged with the following precedence (highest to lowest priority):

1. Command-line flags and the positional schema path
2. Environment variables prefixed with TYPEDDICT_ (e.g. TYPEDDICT_ROOT_NAME)
3. The config file given with --config, or .typeddict.{yaml,json,toml} in the working directory
4. Default values
*/

const (
	EnvPrefix  = "TYPEDDICT"
	configName = ".typeddict"

	KeySchemaPath = "schema_path"
	KeyOutputPath = "output_path"
	KeyRootName   = "root_name"
	KeyLogLevel   = "log_level"
	KeyLogFile    = "log_file"

	// StdoutPath as the output path writes the stub to standard output.
	StdoutPath = "-"
)

var ErrValidation = errors.New("config validation error")

type Config struct {
	SchemaPath string `mapstructure:"schema_path" json:"schema_path" validate:"required" jsonschema:"required,description=Path to the JSON Schema document (JSON or YAML)"`
	OutputPath string `mapstructure:"output_path" json:"output_path" validate:"required" jsonschema:"description=Path of the generated stub file; - writes to standard output,default=-"`
	RootName   string `mapstructure:"root_name" json:"root_name" validate:"required,python_identifier" jsonschema:"required,description=Name of the root type"`
	LogLevel   string `mapstructure:"log_level" json:"log_level" validate:"oneof=DEBUG INFO WARN ERROR" jsonschema:"enum=DEBUG,enum=INFO,enum=WARN,enum=ERROR,default=INFO"`
	LogFile    string `mapstructure:"log_file" json:"log_file,omitempty" jsonschema:"description=File to append log records to instead of standard error"`
}

var defaults = map[string]any{
	KeySchemaPath: "",
	KeyOutputPath: StdoutPath,
	KeyRootName:   "",
	KeyLogLevel:   "INFO",
	KeyLogFile:    "",
}

// NewViper returns a viper instance reading TYPEDDICT_-prefixed environment variables, with a default
// for every key so that the environment is consulted when unmarshalling.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return v
}

func readConfigFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("viper read in config (%s): %w", configFile, err)
		}
		return nil
	}

	v.SetConfigName(configName)
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &notFoundError) {
			return nil
		}
		return fmt.Errorf("viper read in config: %w", err)
	}

	return nil
}

// Load reads the optional config file into v and returns the validated configuration. configFile
// may be empty, in which case a missing default config file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := readConfigFile(v, configFile); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("viper unmarshal: %w", err)
	}
	cfg.LogLevel = strings.ToUpper(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func newValidator() (*validator.Validate, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	err := validate.RegisterValidation("python_identifier", func(fl validator.FieldLevel) bool {
		return identifier.IsValid(fl.Field().String())
	})
	if err != nil {
		return nil, fmt.Errorf("register validation: %w", err)
	}
	return validate, nil
}

func (c *Config) Validate() error {
	validate, err := newValidator()
	if err != nil {
		return fmt.Errorf("new validator: %w", err)
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// WritesToStdout reports whether the stub goes to standard output rather than to a file.
func (c *Config) WritesToStdout() bool {
	return c.OutputPath == StdoutPath
}
