package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults without a file", func(t *testing.T) {
		// act
		cfg, err := Load("")

		// assert
		require.NoError(t, err)
		require.Equal(t, []string{"SPY", "QQQ"}, cfg.Symbols)
		require.Equal(t, 2, cfg.MinDaysToExpiration)
		require.Equal(t, 8, cfg.Schwab.StrikeCount)
		require.Equal(t, ProviderSchwab, cfg.Provider)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		// arrange
		path := writeConfig(t, `
symbols: [IWM, TSLA]
min_days_to_expiration: 5
concurrency: 4
token_store:
  type: gcs
  bucket: my-bucket
  object: tokens/schwab.json
server:
  refresh_schedule: "0 */5 9-16 * * MON-FRI"
`)

		// act
		cfg, err := Load(path)

		// assert
		require.NoError(t, err)
		require.Equal(t, []string{"IWM", "TSLA"}, cfg.Symbols)
		require.Equal(t, 5, cfg.MinDaysToExpiration)
		require.Equal(t, 4, cfg.Concurrency)
		require.Equal(t, TokenStoreGCS, cfg.TokenStore.Type)
		require.Equal(t, 8080, cfg.Server.Port)
		require.Equal(t, "0 */5 9-16 * * MON-FRI", cfg.Server.RefreshSchedule)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		// arrange
		path := writeConfig(t, "provider: schwab\n")
		t.Setenv("OSF_PROVIDER", "polygon")
		t.Setenv("PORT", "9000")
		t.Setenv("OSF_SPREADSHEET_ID", "sheet-1")

		// act
		cfg, err := Load(path)

		// assert
		require.NoError(t, err)
		require.Equal(t, ProviderPolygon, cfg.Provider)
		require.Equal(t, 9000, cfg.Server.Port)
		require.Equal(t, "sheet-1", cfg.Output.SpreadsheetID)
	})

	t.Run("invalid values", func(t *testing.T) {
		path := writeConfig(t, "min_days_to_expiration: -1\nprovider: tradier\n")

		_, err := Load(path)
		require.ErrorIs(t, err, InvalidConfigErr)
	})

	t.Run("bad integer in environment", func(t *testing.T) {
		t.Setenv("OSF_MIN_DTE", "two")

		_, err := Load("")
		require.ErrorIs(t, err, InvalidConfigErr)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}
