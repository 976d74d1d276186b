package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/ForteScarlet/CatCode/pkg/catcode"
)

const envPrefix = "CATCODE_"

// defaultConfig is loaded before anything else.
var defaultConfig = []byte(`namespace: CAT
format: json
vocab: ""
strict: false
exit0: false
verbose: false
`)

// Config holds the settings that may come from a file, the environment or
// the command line.
type Config struct {
	Namespace string `koanf:"namespace"`
	Format    string `koanf:"format"`
	Vocab     string `koanf:"vocab"`
	Strict    bool   `koanf:"strict"`
	Exit0     bool   `koanf:"exit0"`
	Verbose   bool   `koanf:"verbose"`
}

// configKeys are the flags that may override a configuration value.
var configKeys = map[string]bool{
	"namespace": true,
	"format":    true,
	"vocab":     true,
	"strict":    true,
	"exit0":     true,
	"verbose":   true,
}

// loadConfig layers the configuration, highest precedence last:
//  1. Hardcoded defaults
//  2. YAML config file (configPath, optional)
//  3. Environment variables (CATCODE_NAMESPACE, CATCODE_STRICT, ...)
//  4. Command-line flags that were explicitly set
func loadConfig(configPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultConfig), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if configPath != "" {
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file '%s': %w", configPath, err)
		}
	}

	// CATCODE_EXIT0 -> exit0
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var flagErr error
	flags.Visit(func(f *pflag.Flag) {
		if !configKeys[f.Name] || flagErr != nil {
			return
		}
		var value any = f.Value.String()
		if f.Value.Type() == "bool" {
			value, flagErr = flags.GetBool(f.Name)
		}
		if flagErr == nil {
			flagErr = k.Set(f.Name, value)
		}
	})
	if flagErr != nil {
		return nil, fmt.Errorf("failed to apply command-line flags: %w", flagErr)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values that have a fixed set of choices.
func (c *Config) Validate() error {
	if !catcode.IsWord(c.Namespace) {
		return fmt.Errorf("invalid namespace '%s'", c.Namespace)
	}
	switch c.Format {
	case formatJSON, formatYAML, formatCBOR:
	default:
		return fmt.Errorf("unknown format '%s' (want json, yaml or cbor)", c.Format)
	}
	return nil
}

// namespace returns the binding selected by the configuration.
func (c *Config) namespace() catcode.Namespace {
	if c.Namespace == catcode.StandardNamespace {
		return catcode.Standard()
	}
	return catcode.Wildcat(c.Namespace)
}
