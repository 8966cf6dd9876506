package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	"go.uber.org/multierr"
	yaml "gopkg.in/yaml.v3"
)

// AppName names the program in logs and temporary files.
const AppName = "gomlayout"

//go:embed config.yaml
var defaultConfig []byte

type (
	ViewportConfig struct {
		Width  float64 `yaml:"width" validate:"gt=0"`
		Height float64 `yaml:"height" validate:"gt=0"`
	}

	LayoutConfig struct {
		Viewport          ViewportConfig `yaml:"viewport"`
		Scale             float64        `yaml:"scale" validate:"gt=0"`
		InlineStyles      bool           `yaml:"inline_styles"`
		PruneDeclarations bool           `yaml:"prune_declarations"`
		// UserAgentStylesheet replaces the built-in user-agent sheet.
		UserAgentStylesheet string   `yaml:"user_agent_stylesheet" validate:"omitempty,file"`
		UserStylesheets     []string `yaml:"user_stylesheets" validate:"dive,required"`
		ResourcePaths       []string `yaml:"resource_paths" validate:"dive,dir"`
	}

	DumpConfig struct {
		Verbose bool `yaml:"verbose"`
		Indent  int  `yaml:"indent" validate:"gte=0"`
	}

	RenderConfig struct {
		Title    string `yaml:"title"`
		Author   string `yaml:"author"`
		Compress bool   `yaml:"compress"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Layout  LayoutConfig  `yaml:"layout"`
		Dump    DumpConfig    `yaml:"dump"`
		Render  RenderConfig  `yaml:"render"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// Only fields defined above are accepted, so yaml.Unmarshal cannot be
	// used directly.
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := Validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Validate checks cfg against its field constraints, reporting every
// failing field.
func Validate(cfg *Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(cfg)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var all error
	for _, fe := range verrs {
		all = multierr.Append(all, fmt.Errorf("%s: value %v does not satisfy %q", fe.Namespace(), fe.Value(), fe.ActualTag()))
	}
	return all
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of the embedded defaults and performs
// validation.
func LoadConfiguration(path string) (*Config, error) {
	haveFile := len(path) > 0

	cfg, err := unmarshalConfig(defaultConfig, &Config{}, !haveFile)
	if err != nil {
		return nil, annotate("failed to process default configuration", err)
	}
	if !haveFile {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, annotate("failed to process configuration file", err)
	}
	return cfg, nil
}

// annotate prefixes every error combined in err with msg, keeping them
// separate so multierr.Errors still reports each one.
func annotate(msg string, err error) error {
	var all error
	for _, e := range multierr.Errors(err) {
		all = multierr.Append(all, fmt.Errorf("%s: %w", msg, e))
	}
	return all
}

// Prepare returns the default configuration file.
func Prepare() []byte {
	return bytes.Clone(defaultConfig)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
