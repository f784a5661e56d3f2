// Package logfinder resolves the location of the Warframe EE.log file.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnvLogPath is the environment variable name for specifying the log file.
const EnvLogPath = "EELOG_PATH"

// LogFileName is the name of the log file inside the game's data directory.
const LogFileName = "EE.log"

// Sentinel errors.
var (
	ErrEnvNotSet       = errors.New("LOCALAPPDATA environment variable not found")
	ErrLogFileNotFound = errors.New("log file not found")
)

// DefaultLogPath returns %LOCALAPPDATA%\Warframe\EE.log.
// If LOCALAPPDATA is unset it is reconstructed from USERPROFILE.
// Returns ErrEnvNotSet if neither variable is available.
func DefaultLogPath() (string, error) {
	localAppData := os.Getenv("LOCALAPPDATA")
	if localAppData == "" {
		if userProfile := os.Getenv("USERPROFILE"); userProfile != "" {
			localAppData = filepath.Join(userProfile, "AppData", "Local")
		}
	}
	if localAppData == "" {
		return "", ErrEnvNotSet
	}
	return filepath.Join(localAppData, "Warframe", LogFileName), nil
}

// FindLogFile returns the log file to read.
//
// Priority:
//  1. explicit (if non-empty)
//  2. EELOG_PATH environment variable
//  3. DefaultLogPath()
//
// Returns ErrLogFileNotFound if the chosen path is not a readable regular
// file, or ErrEnvNotSet if nothing was given and no default can be built.
// The returned path has symlinks resolved.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveAndValidateLogFile(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s", ErrLogFileNotFound, explicit)
	}

	if envPath := os.Getenv(EnvLogPath); envPath != "" {
		if resolved := resolveAndValidateLogFile(envPath); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid file", ErrLogFileNotFound, EnvLogPath)
	}

	def, err := DefaultLogPath()
	if err != nil {
		return "", err
	}
	if resolved := resolveAndValidateLogFile(def); resolved != "" {
		return resolved, nil
	}
	return "", fmt.Errorf("%w: %s", ErrLogFileNotFound, def)
}

// resolveAndValidateLogFile resolves symlinks and checks the target is a
// regular file. Returns the resolved path if valid, empty string otherwise.
func resolveAndValidateLogFile(path string) string {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return ""
	}
	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return ""
	}
	return resolved
}
