package console

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// OpenLogger creates the shell's structured logger, writing to dsh.log in
// the data directory. The dispatcher library never logs; the shell logs
// around it. The caller owns the returned closer.
func OpenLogger(dataDir, level string) (*log.Logger, io.Closer, error) {
	file, err := os.OpenFile(
		filepath.Join(dataDir, "dsh.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0600,
	)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(file)
	logger.SetReportTimestamp(true)
	logger.SetLevel(parseLogLevel(level))
	return logger, file, nil
}

func parseLogLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
