// Package logging sets up the zerolog logger for a bot run: console output
// on stderr plus a timestamped log file under the data directory, so every
// run leaves a reviewable trail.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Setup creates <dataDir>/logs/OmaOrthologBot-<yyyymmdd_HHMM>.log and returns
// a logger writing both there and to a console writer on stderr, plus a
// close function for the file.
func Setup(dataDir string) (zerolog.Logger, func() error, error) {
	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return zerolog.Nop(), nil, err
	}

	name := fmt.Sprintf("OmaOrthologBot-%s.log", time.Now().Format("20060102_15:04"))
	f, err := os.Create(filepath.Join(logDir, name))
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	logger := zerolog.New(io.MultiWriter(console, f)).With().Timestamp().Logger()
	return logger, f.Close, nil
}
