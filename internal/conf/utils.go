// utils.go helper functions for configuration management
package conf

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cinelog/cinelog-go/internal/errors"
)

// GetDefaultConfigPaths returns a list of default configuration paths for the current operating system.
// It determines paths based on standard conventions for storing application configuration files.
func GetDefaultConfigPaths() ([]string, error) {
	var configPaths []string

	// Fetch the directory of the executable.
	exePath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("error fetching executable path: %w", err)
	}
	exeDir := filepath.Dir(exePath)

	// Fetch the user's home directory.
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error fetching user home directory: %w", err)
	}

	// Define default paths based on the operating system.
	switch runtime.GOOS {
	case "windows":
		// For Windows, use the executable directory and the AppData Roaming directory.
		configPaths = []string{
			exeDir,
			filepath.Join(homeDir, "AppData", "Roaming", "cinelog-go"),
		}
	default:
		// For Linux and macOS, use the XDG config directory, home directory and executable directory.
		configPaths = []string{
			filepath.Join(homeDir, ".config", "cinelog-go"),
			homeDir,
			exeDir,
		}
	}

	return configPaths, nil
}

// FindConfigFile locates the active configuration file.
func FindConfigFile() (string, error) {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryConfiguration).
			Context("operation", "find-config-paths").
			Build()
	}

	for _, path := range configPaths {
		configFilePath := filepath.Join(path, "config.yaml")
		if _, err := os.Stat(configFilePath); err == nil {
			return configFilePath, nil
		}
	}

	return "", errors.Newf("config file not found").
		Category(errors.CategoryConfiguration).
		Context("operation", "find-config-file").
		Build()
}

// GetBasePath expands a relative directory to an absolute path anchored at the
// current working directory, creating it if it does not exist.
func GetBasePath(path string) string {
	basePath := filepath.Clean(path)

	if !filepath.IsAbs(basePath) {
		wd, err := os.Getwd()
		if err == nil {
			basePath = filepath.Join(wd, basePath)
		}
	}

	// Create the directory if it doesn't exist
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		_ = os.MkdirAll(basePath, 0o755)
	}

	return basePath
}
