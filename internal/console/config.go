package console

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Config holds the shell settings read from ~/.dshrc. Every field has a
// working default; the file is optional.
type Config struct {
	Prompt      string
	JournalPath string
	Color       bool
	LogLevel    string
}

// DefaultConfig returns the settings used when no .dshrc exists.
func DefaultConfig() Config {
	return Config{
		Prompt:      "dsh> ",
		JournalPath: filepath.Join(DataDir(), "journal.db"),
		Color:       true,
		LogLevel:    "info",
	}
}

// LoadConfig reads key=value lines from path, skipping blanks and #
// comments. Unknown keys are ignored so older shells tolerate newer files.
// A missing file returns the defaults without error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"`)

		switch key {
		case "prompt":
			cfg.Prompt = value
		case "journal":
			cfg.JournalPath = value
		case "color":
			cfg.Color = value != "false" && value != "off" && value != "0"
		case "loglevel":
			cfg.LogLevel = value
		}
	}
	return cfg, scanner.Err()
}
