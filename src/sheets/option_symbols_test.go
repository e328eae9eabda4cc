package sheets

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

func TestExportBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("appends one row per contract", func(t *testing.T) {
		// arrange
		var body string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, _ := io.ReadAll(r.Body)
			body = string(data)

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"spreadsheetId":"sheet-1","updates":{"updatedRows":2}}`))
		}))
		defer srv.Close()

		service, err := sheets.NewService(ctx, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
		require.NoError(t, err)

		batch := models.NewBatchResult(uuid.New(), []models.StockSymbol{"SPY"}, 2, time.Now())
		batch.AddSelection(&models.SymbolSelection{
			Symbol:     "SPY",
			Expiration: models.ExpirationEntry{ExpirationDate: time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)},
			Result:     models.SelectionResult{Calls: []string{"SPY   250117C00480000"}, Puts: []string{"SPY   250117P00480000"}},
		})

		// act
		n, err := ExportBatch(ctx, service, "sheet-1", "", batch)

		// assert
		require.NoError(t, err)
		require.Equal(t, 2, n)
		require.Contains(t, body, "SPY   250117P00480000")
	})

	t.Run("nothing to export", func(t *testing.T) {
		batch := models.NewBatchResult(uuid.New(), nil, 2, time.Now())

		n, err := ExportBatch(ctx, nil, "sheet-1", "", batch)
		require.NoError(t, err)
		require.Zero(t, n)
	})
}
