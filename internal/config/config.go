package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shaoshing/jscs-jsdoc/internal/existence"

	"github.com/joho/godotenv"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaSource string

const schemaURL = "jsdoc-config.schema.json"

type Config struct {
	Project struct {
		Root    string   `yaml:"root"`
		Exclude []string `yaml:"exclude"`
	} `yaml:"project"`
	JSDoc struct {
		EnforceExistence       EnforceExistence `yaml:"enforceExistence"`
		EnforceExistenceExcept []string         `yaml:"enforceExistenceExcept"`
		Verbose                bool             `yaml:"verbose"`
	} `yaml:"jsDoc"`
	Storage struct {
		Path string `yaml:"path"` // empty disables run history
	} `yaml:"storage"`
}

// EnforceExistence accepts `true` or `"exceptExports"`.
type EnforceExistence struct {
	Mode existence.Mode
}

func (e *EnforceExistence) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("enforceExistence: expected a scalar at line %d", value.Line)
	}
	switch value.Tag {
	case "!!bool":
		var b bool
		if err := value.Decode(&b); err != nil {
			return err
		}
		if !b {
			return fmt.Errorf("enforceExistence: false is not allowed at line %d", value.Line)
		}
		e.Mode = existence.ModeAll
		return nil
	case "!!str":
		mode, err := existence.ParseMode(value.Value)
		if err != nil {
			return err
		}
		e.Mode = mode
		return nil
	}
	return fmt.Errorf("enforceExistence: unsupported value %q at line %d", value.Value, value.Line)
}

func (e EnforceExistence) MarshalYAML() (interface{}, error) {
	if e.Mode == existence.ModeExceptExports {
		return e.Mode.String(), nil
	}
	return true, nil
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	cfg.Project.Root = "."
	cfg.JSDoc.EnforceExistence = EnforceExistence{Mode: existence.ModeAll}
	return cfg
}

// LoadConfig reads path, validates it against the embedded schema and applies
// environment overrides. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config
	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := Validate(file); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("JSDOC_ENFORCE_EXISTENCE"); v != "" {
		mode, err := existence.ParseMode(v)
		if err != nil {
			return fmt.Errorf("JSDOC_ENFORCE_EXISTENCE: %w", err)
		}
		cfg.JSDoc.EnforceExistence.Mode = mode
	}
	if v := os.Getenv("JSDOC_EXCEPT"); v != "" {
		cfg.JSDoc.EnforceExistenceExcept = splitList(v)
	}
	if v := os.Getenv("JSDOC_VERBOSE"); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("JSDOC_VERBOSE: %w", err)
		}
		cfg.JSDoc.Verbose = verbose
	}
	if v := os.Getenv("JSDOC_DB"); v != "" {
		cfg.Storage.Path = v
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Options converts the jsDoc section into validator options.
func (c *Config) Options() existence.Options {
	return existence.Options{
		EnforceExistence: c.JSDoc.EnforceExistence.Mode,
		Except:           existence.NewExceptSet(c.JSDoc.EnforceExistenceExcept...),
		Verbose:          c.JSDoc.Verbose,
	}
}

// Validate checks raw YAML against the configuration schema.
func Validate(raw []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	if doc == nil {
		return nil
	}

	// Round-trip through JSON so the validator sees JSON value types.
	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not representable as JSON: %w", err)
	}
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return err
	}

	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

func compiledSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaSource)); err != nil {
		return nil, err
	}
	return compiler.Compile(schemaURL)
}
