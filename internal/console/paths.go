package console

import (
	"os"
	"path/filepath"
)

const appDirName = "dsh"

// DataDir returns the directory holding the journal database and the log
// file: $XDG_CONFIG_HOME/dsh (or the OS equivalent), created on first use.
func DataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	path := filepath.Join(dir, appDirName)
	_ = os.MkdirAll(path, 0700)
	return path
}

// ConfigFilePath returns the path of the optional ~/.dshrc file.
func ConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dshrc"
	}
	return filepath.Join(home, ".dshrc")
}
