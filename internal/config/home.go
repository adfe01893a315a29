package config

import (
	"os"
	"path/filepath"
)

// ConfigEnvVar names the environment variable that points at a config file
const ConfigEnvVar = "GEOPREP_CONFIG"

// ResolveConfigPath returns the config file to load.
// Priority order:
//  1. explicit path (the --config flag)
//  2. GEOPREP_CONFIG environment variable
//  3. <dir>/.geoprep/config.yaml
func ResolveConfigPath(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(ConfigEnvVar); env != "" {
		return env
	}
	return filepath.Join(dir, ".geoprep", "config.yaml")
}
