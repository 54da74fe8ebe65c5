package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.omoictl).
// This is the source of truth for where global config lives.
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".omoictl"), nil
}

// GetJournalPath returns the path to the local change journal database.
// Resolution order (first match wins):
// 1. Explicit config via "journal.path" (Viper/env/flag)
// 2. XDG_DATA_HOME/omoictl/journal.db (if XDG_DATA_HOME is set)
// 3. Global fallback: ~/.omoictl/journal.db
func GetJournalPath() string {
	if path := viper.GetString("journal.path"); path != "" {
		return path
	}

	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "omoictl", "journal.db")
	}

	dir, err := GetGlobalConfigDir()
	if err != nil {
		return "./journal.db"
	}
	return filepath.Join(dir, "journal.db")
}
