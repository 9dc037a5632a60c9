// Package where resolves the directories nutshell reads and writes.
package where

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/csams/nutshell/internal/filesystem"
)

const (
	app = "nutshell"

	// EnvConfigPath overrides the configuration directory.
	EnvConfigPath = "NUTSHELL_CONFIG_PATH"
	// EnvCachePath overrides the cache directory.
	EnvCachePath = "NUTSHELL_CACHE_PATH"
)

func ensureDir(path string) string {
	_ = filesystem.API().MkdirAll(path, os.ModePerm)
	return path
}

// Config is the configuration directory, $XDG_CONFIG_HOME/nutshell by default.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return ensureDir(filepath.Join(base, app))
}

// Cache is the directory holding the per-show episode caches.
func Cache() string {
	if custom, ok := os.LookupEnv(EnvCachePath); ok {
		return ensureDir(custom)
	}

	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, app))
}

// Logs is the directory for dated log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Temp is scratch space that does not outlive the machine session.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), app))
}

// Session is the file used to carry a requested episode across a redirect.
func Session() string {
	return filepath.Join(Temp(), "session.json")
}

// Socket is the player IPC socket for this process.
func Socket(pid int) string {
	return filepath.Join(Temp(), "mpv-"+strconv.Itoa(pid)+".sock")
}
