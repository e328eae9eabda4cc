package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Setup configures the standard logrus logger. An empty level means info.
func Setup(out io.Writer, level, format string) error {
	if out == nil {
		out = os.Stdout
	}

	if level == "" {
		level = log.InfoLevel.String()
	}

	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("Setup: invalid log level %q: %w", level, err)
	}

	switch strings.ToLower(format) {
	case "", FormatText:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case FormatJSON:
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("Setup: invalid log format %q", format)
	}

	log.SetOutput(out)
	log.SetLevel(lvl)

	return nil
}
