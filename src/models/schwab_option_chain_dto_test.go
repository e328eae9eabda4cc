package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const schwabChainJSON = `{
  "symbol": "SPY",
  "status": "SUCCESS",
  "underlyingPrice": 483.12,
  "callExpDateMap": {
    "2025-01-17:3": {
      "490.0": [{"putCall": "CALL", "symbol": "SPY   250117C00490000", "strikePrice": 490.0}],
      "480.0": [{"putCall": "CALL", "symbol": "SPY   250117C00480000", "strikePrice": 480.0}],
      "485.0": [
        {"putCall": "PUT", "symbol": "WRONG", "strikePrice": 485.0},
        {"putCall": "CALL", "symbol": "SPY   250117C00485000", "strikePrice": 485.0}
      ]
    },
    "2025-01-24:10": {
      "500.0": [{"putCall": "CALL", "symbol": "SPY   250124C00500000", "strikePrice": 500.0}]
    }
  },
  "putExpDateMap": {
    "2025-01-17:3": {
      "485.0": [{"putCall": "PUT", "symbol": "SPY   250117P00485000", "strikePrice": 485.0}],
      "480.0": [{"putCall": "PUT", "symbol": "SPY   250117P00480000", "strikePrice": 480.0}]
    }
  }
}`

func TestSchwabOptionChainDTO_ToModel(t *testing.T) {
	expiration := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)

	t.Run("strikes are sorted ascending and limited to the expiration", func(t *testing.T) {
		// arrange
		var dto SchwabOptionChainDTO
		require.NoError(t, json.Unmarshal([]byte(schwabChainJSON), &dto))

		// act
		snapshot, err := dto.ToModel(NewStockSymbol("spy"), expiration)

		// assert
		require.NoError(t, err)
		require.Equal(t, StockSymbol("SPY"), snapshot.Symbol)
		require.True(t, decimal.RequireFromString("483.12").Equal(snapshot.UnderlyingPrice))

		calls := snapshot.Strikes(OptionTypeCall)
		require.Len(t, calls, 3)
		require.Equal(t, "SPY   250117C00480000", calls[0].Symbol)
		require.Equal(t, "SPY   250117C00485000", calls[1].Symbol)
		require.Equal(t, "SPY   250117C00490000", calls[2].Symbol)

		puts := snapshot.Strikes(OptionTypePut)
		require.Len(t, puts, 2)
		require.True(t, puts[0].StrikePrice.Equal(decimal.NewFromInt(480)))
	})

	t.Run("failed status is not found", func(t *testing.T) {
		// arrange
		dto := SchwabOptionChainDTO{Status: "FAILED"}

		// act
		_, err := dto.ToModel(NewStockSymbol("BADSYM"), expiration)

		// assert
		require.ErrorIs(t, err, NotFoundErr)
	})

	t.Run("missing underlying price is a transport error", func(t *testing.T) {
		// arrange
		body := `{"symbol":"SPY","status":"SUCCESS","callExpDateMap":{"2025-01-17:3":{
			"470.0":[{"putCall":"CALL","symbol":"C470"}],
			"480.0":[{"putCall":"CALL","symbol":"C480"}]}}}`
		var dto SchwabOptionChainDTO
		require.NoError(t, json.Unmarshal([]byte(body), &dto))

		// act
		_, err := dto.ToModel(NewStockSymbol("SPY"), expiration)

		// assert
		require.ErrorIs(t, err, TransportErr)
		require.Equal(t, FailureKindTransport, ClassifyError(err))
	})

	t.Run("unparseable strike is a transport error", func(t *testing.T) {
		// arrange
		body := `{"symbol":"SPY","status":"SUCCESS","underlyingPrice":483.12,"callExpDateMap":{"2025-01-17:3":{
			"n/a":[{"putCall":"CALL","symbol":"C470"}]}}}`
		var dto SchwabOptionChainDTO
		require.NoError(t, json.Unmarshal([]byte(body), &dto))

		// act
		_, err := dto.ToModel(NewStockSymbol("SPY"), expiration)

		// assert
		require.ErrorIs(t, err, TransportErr)
	})

	t.Run("zero expiration keeps every expiration key", func(t *testing.T) {
		// arrange
		var dto SchwabOptionChainDTO
		require.NoError(t, json.Unmarshal([]byte(schwabChainJSON), &dto))

		// act
		snapshot, err := dto.ToModel(NewStockSymbol("SPY"), time.Time{})

		// assert
		require.NoError(t, err)
		require.Len(t, snapshot.Strikes(OptionTypeCall), 4)
	})
}

func TestSchwabExpirationChainDTO_ToModel(t *testing.T) {
	t.Run("keeps broker order", func(t *testing.T) {
		// arrange
		dto := SchwabExpirationChainDTO{
			ExpirationList: []SchwabExpirationDTO{
				{ExpirationDate: "2025-01-24", DaysToExpiration: 10, ExpirationType: "W"},
				{ExpirationDate: "2025-01-17", DaysToExpiration: 3, ExpirationType: "S", Standard: true},
			},
		}

		// act
		entries, err := dto.ToModel()

		// assert
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, 10, entries[0].DaysToExpiration)
		require.Equal(t, "2025-01-17", entries[1].String())
		require.True(t, entries[1].Standard)
	})

	t.Run("malformed date", func(t *testing.T) {
		// arrange
		dto := SchwabExpirationChainDTO{
			ExpirationList: []SchwabExpirationDTO{{ExpirationDate: "01/17/2025", DaysToExpiration: 3}},
		}

		// act
		_, err := dto.ToModel()

		// assert
		require.Error(t, err)
	})
}
