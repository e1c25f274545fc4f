package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath overrides the configuration file path.
const EnvConfigPath = "ACTTREE_CONFIG"

// GetConfigPath returns $ACTTREE_CONFIG if set, otherwise ~/.acttree/config.
func GetConfigPath() (string, error) {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".acttree", "config"), nil
}
