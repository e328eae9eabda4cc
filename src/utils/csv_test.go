package utils

import (
	"encoding/csv"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

func newTestBatch() *models.BatchResult {
	batch := models.NewBatchResult(uuid.New(), []models.StockSymbol{"SPY", "BADSYM"}, 2, time.Now())
	batch.AddSelection(&models.SymbolSelection{
		Symbol:          "SPY",
		Expiration:      models.ExpirationEntry{ExpirationDate: time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC), DaysToExpiration: 3},
		UnderlyingPrice: decimal.RequireFromString("483.12"),
		Result: models.SelectionResult{
			Calls: []string{"SPY   250117C00480000", "SPY   250117C00485000"},
			Puts:  []string{"SPY   250117P00480000"},
		},
	})
	batch.AddFailure("BADSYM", fmt.Errorf("lookup: %w", models.NotFoundErr))

	return batch
}

func TestExportToCsv(t *testing.T) {
	t.Run("one row per symbol, side and contract", func(t *testing.T) {
		// arrange
		dir := t.TempDir()
		batch := newTestBatch()
		now := time.Date(2025, 1, 14, 9, 30, 0, 0, time.UTC)

		// act
		outFile, err := ExportToCsv(dir, batch, "option_symbols", now)

		// assert
		require.NoError(t, err)
		require.Contains(t, outFile, "option_symbols_2025-01-14_09-30-00.csv")

		f, err := os.Open(outFile)
		require.NoError(t, err)
		defer f.Close()

		records, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 4)
		require.Equal(t, []string{"request_id", "symbol", "expiration_date", "option_type", "position", "option_symbol"}, records[0])
		require.Equal(t, "call", records[1][3])
		require.Equal(t, "SPY   250117C00480000", records[1][5])
		require.Equal(t, "put", records[3][3])
		require.Equal(t, "2025-01-17", records[3][2])
	})
}

func TestNewOptionSymbolRows(t *testing.T) {
	rows := NewOptionSymbolRows(newTestBatch())

	require.Len(t, rows, 3)
	for _, row := range rows {
		require.Equal(t, "SPY", row.Symbol)
	}
}
