// Config loading for the shelf CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/datashelf/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend   = "backend"
	cfgKeyDataDir   = "data_dir"
	cfgKeyModelsDir = "models_dir"
	cfgKeyNamespace = "namespace"

	defaultBackend   = types.BackendMemory
	defaultModelsDir = "models"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# datashelf CLI configuration

# Backend selection: memory or sqlite
backend: memory

# Data directory for the sqlite backend
# data_dir: .datashelf-db

# Directory scanned for model definition files
models_dir: models

# Default logical database
namespace: default
`

// loadConfig reads config.yaml from the config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (types.Config, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return types.Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyModelsDir, defaultModelsDir)
	v.SetDefault(cfgKeyNamespace, types.DefaultNamespace)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	return types.Config{
		Backend:   v.GetString(cfgKeyBackend),
		DataDir:   v.GetString(cfgKeyDataDir),
		ModelsDir: v.GetString(cfgKeyModelsDir),
		Namespace: v.GetString(cfgKeyNamespace),
	}, nil
}

// resolveConfigDir returns the config directory from flag, env, or default.
func resolveConfigDir() string {
	if configDir != "" {
		return configDir
	}
	if v := os.Getenv("DATASHELF_CONFIG_DIR"); v != "" {
		return v
	}
	return ".datashelf"
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(dir string) error {
	path := filepath.Join(dir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
