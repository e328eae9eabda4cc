package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() {
		log.SetFormatter(&log.TextFormatter{})
		log.SetLevel(log.InfoLevel)
	})

	t.Run("json output at debug level", func(t *testing.T) {
		// arrange
		out := &bytes.Buffer{}

		// act
		require.NoError(t, Setup(out, "debug", FormatJSON))
		log.WithField("symbol", "SPY").Debug("processing symbol")

		// assert
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
		require.Equal(t, "SPY", entry["symbol"])
		require.Equal(t, "debug", entry["level"])
	})

	t.Run("invalid level", func(t *testing.T) {
		require.Error(t, Setup(&bytes.Buffer{}, "loud", FormatText))
	})

	t.Run("invalid format", func(t *testing.T) {
		require.Error(t, Setup(&bytes.Buffer{}, "info", "xml"))
	})
}
