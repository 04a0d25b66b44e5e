package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ORACLE_GATEWAY_URL.
const EnvPrefix = "ORACLE"

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "oracle.toml"

// LoadConfig loads configuration from multiple sources in priority order:
// 1. Default values
// 2. Configuration file (oracle.toml), when present
// 3. Environment variables (ORACLE_ prefix)
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults first
	setDefaults(v)

	// 2. Load configuration file
	path, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := loadMainConfig(v, path); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	// 3. Set up environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Unmarshal into struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.configPath = path

	// 5. Validate the complete configuration
	if err := ValidateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// resolvePath returns the file to read. An explicit path must exist; without
// one the default file is used only if it is present.
func resolvePath(path string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return "", fmt.Errorf("config file does not exist: %s", path)
		}
		return path, nil
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile, nil
	}
	return "", nil
}

// loadMainConfig reads the configuration file into v
func loadMainConfig(v *viper.Viper, configPath string) error {
	v.SetConfigFile(configPath)
	if filepath.Ext(configPath) == "" {
		v.SetConfigType("toml")
	}
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	return nil
}

// LoadDefaultConfig loads configuration from default locations
func LoadDefaultConfig() (*Config, error) {
	return LoadConfig("")
}

// ReloadConfig reloads configuration from the same path
func ReloadConfig(existing *Config) (*Config, error) {
	return LoadConfig(existing.GetConfigPath())
}

// SaveExampleConfig writes a configuration file holding every default
func SaveExampleConfig(configPath string) error {
	v := viper.New()
	setDefaults(v)
	for _, key := range v.AllKeys() {
		v.Set(key, v.Get(key))
	}

	v.SetConfigFile(configPath)
	if err := v.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write example config: %w", err)
	}
	return nil
}
