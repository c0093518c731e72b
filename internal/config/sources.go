package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// UserConfigFileName is the file name looked up in the user config directory.
const UserConfigFileName = "config.toml"

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{"todo-app.toml", ".todo-app.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file in the OS-specific
// config directory.
func findUserConfigFile() string {
	path := UserConfigPath()
	if path == "" {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// UserConfigPath returns where the user-level config file is expected,
// whether or not it exists. Returns empty string if it cannot be determined.
func UserConfigPath() string {
	cfgDir := osUserConfigDir()
	if cfgDir == "" {
		return ""
	}
	return filepath.Join(cfgDir, "todo-app", UserConfigFileName)
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	default:
		// Linux/BSD: respect XDG_CONFIG_HOME or use ~/.config
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}
