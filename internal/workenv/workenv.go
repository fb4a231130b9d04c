// Package workenv resolves the directories savebox reads game data from
package workenv

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// GetDataRoot returns the root directory holding the game data tables
func GetDataRoot() string {
	// Check environment variable first
	if dataDir := os.Getenv("SAVEBOX_DATA_DIR"); dataDir != "" {
		return dataDir
	}

	// Use platform-specific defaults
	switch runtime.GOOS {
	case "darwin":
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, "Library", "Application Support", "savebox", "data")
		}
	case "linux":
		if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
			return filepath.Join(xdgData, "savebox")
		}
		if home := os.Getenv("HOME"); home != "" {
			return filepath.Join(home, ".local", "share", "savebox")
		}
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "savebox", "data")
		}
	}

	// Fallback to a data directory next to the working directory
	return filepath.Join(".", "data")
}

// UpdatedSavePath returns the path an updated copy of savePath is written to.
// "game.sav" becomes "game_new.sav"; everything after the first ".sav" is dropped.
func UpdatedSavePath(savePath string) string {
	if i := strings.Index(savePath, ".sav"); i >= 0 {
		savePath = savePath[:i]
	}
	return savePath + "_new.sav"
}

// StagingPath returns a sibling temp path used while writing target
func StagingPath(target string) string {
	dir, base := filepath.Split(target)
	return filepath.Join(dir, "."+base+".tmp")
}
