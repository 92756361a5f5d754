package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kaptinlin/yamlls"
	"github.com/spf13/viper"
)

const (
	configDirName  = ".yamlls"
	configFileName = "config"
	configFileType = "yaml"
)

// configDir returns the path to the persistent config directory (~/.yamlls/).
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", configDirName)
	}
	return filepath.Join(home, configDirName)
}

// configFilePath returns the full path to the config file (~/.yamlls/config.yaml).
func configFilePath() string {
	return filepath.Join(configDir(), configFileName+"."+configFileType)
}

// loadConfig initializes viper to read the persistent config file and
// YAMLLS_-prefixed environment overrides. Unlike Service.Configure (the
// in-process, per-call Settings from spec section 6), this is CLI-only
// convenience state: the Kubernetes default, custom tags, and key-ordering
// check a user set on a previous invocation.
func loadConfig() {
	viper.SetConfigFile(configFilePath())
	viper.SetConfigType(configFileType)
	viper.SetEnvPrefix("YAMLLS")
	viper.AutomaticEnv()

	viper.SetDefault("kubernetes", false)
	viper.SetDefault("customTags", []string{})
	viper.SetDefault("keyOrdering", false)

	// A missing config file on first run is not an error.
	_ = viper.ReadInConfig()
}

// setConfigValue writes a single key to the persistent config file,
// creating the file and its directory if needed.
func setConfigValue(key, value string) error {
	if err := os.MkdirAll(configDir(), 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", configDir(), err)
	}

	viper.Set(key, value)

	path := configFilePath()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", path, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func settingsFromConfig() yamlls.Settings {
	return yamlls.Settings{
		Validate:     true,
		Hover:        true,
		Completion:   true,
		IsKubernetes: viper.GetBool("kubernetes"),
		CustomTags:   viper.GetStringSlice("customTags"),
		KeyOrdering:  viper.GetBool("keyOrdering"),
	}
}
