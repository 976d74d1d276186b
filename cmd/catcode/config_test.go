package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ForteScarlet/CatCode/pkg/catcode"
)

func configFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("namespace", catcode.StandardNamespace, "")
	flags.String("format", formatJSON, "")
	flags.String("vocab", "", "")
	flags.Bool("strict", false, "")
	flags.Bool("exit0", false, "")
	flags.Bool("verbose", false, "")
	flags.String("input", "", "")
	require.NoError(t, flags.Parse(args))
	return flags
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catcode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("", configFlags(t))
	require.NoError(t, err)
	assert.Equal(t, &Config{Namespace: "CAT", Format: "json"}, cfg)
	assert.True(t, cfg.namespace().IsStandard())
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeConfig(t, "namespace: CQ\nformat: yaml\nstrict: true\n")

	t.Run("File", func(t *testing.T) {
		cfg, err := loadConfig(path, configFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "CQ", cfg.Namespace)
		assert.Equal(t, "yaml", cfg.Format)
		assert.True(t, cfg.Strict)
		assert.Equal(t, "CQ", cfg.namespace().Name())
	})

	t.Run("Environment over file", func(t *testing.T) {
		t.Setenv("CATCODE_FORMAT", "cbor")
		t.Setenv("CATCODE_STRICT", "false")
		cfg, err := loadConfig(path, configFlags(t))
		require.NoError(t, err)
		assert.Equal(t, "CQ", cfg.Namespace)
		assert.Equal(t, "cbor", cfg.Format)
		assert.False(t, cfg.Strict)
	})

	t.Run("Flags over environment", func(t *testing.T) {
		t.Setenv("CATCODE_FORMAT", "cbor")
		t.Setenv("CATCODE_EXIT0", "true")
		cfg, err := loadConfig(path, configFlags(t, "--format", "json", "--strict=false", "--input", "x.txt"))
		require.NoError(t, err)
		assert.Equal(t, "json", cfg.Format)
		assert.False(t, cfg.Strict)
		assert.True(t, cfg.Exit0)
	})

	t.Run("Unset flags keep lower layers", func(t *testing.T) {
		cfg, err := loadConfig(path, configFlags(t, "--verbose"))
		require.NoError(t, err)
		assert.Equal(t, "yaml", cfg.Format)
		assert.True(t, cfg.Verbose)
	})
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		args    []string
		message string
	}{
		{"Missing file", filepath.Join(t.TempDir(), "missing.yaml"), nil, "failed to read config file"},
		{"Bad YAML", writeConfig(t, "format: [\n"), nil, "failed to load config file"},
		{"Bad format", "", []string{"--format", "xml"}, "unknown format 'xml'"},
		{"Bad namespace", "", []string{"--namespace", "C Q"}, "invalid namespace 'C Q'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(tt.path, configFlags(t, tt.args...))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}
