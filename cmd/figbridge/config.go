package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds the contents of .figbridge/config.yaml.
type ProjectConfig struct {
	Version string `yaml:"version"`

	// Defaults applied to transform commands when flags are absent.
	Framework string `yaml:"framework"`
	Styling   string `yaml:"styling"`
	Naming    string `yaml:"naming_convention"`

	// ToolLogPath enables JSONL tool-call logging for serve.
	ToolLogPath string `yaml:"tool_log_path"`

	// BridgeAddr is the listen address of the plugin WebSocket bridge.
	BridgeAddr string `yaml:"bridge_addr"`

	// WatchExcludes are doublestar patterns skipped in watch mode.
	WatchExcludes []string `yaml:"watch_excludes"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// loadProjectConfig reads .figbridge/config.yaml from the current directory.
// Returns nil (no error) if the file does not exist.
func loadProjectConfig() (*ProjectConfig, error) {
	data, err := os.ReadFile(".figbridge/config.yaml")
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// stringOr returns flagValue when set, then the config value, then fallback.
func stringOr(flagValue, configValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	if configValue != "" {
		return configValue
	}
	return fallback
}
