package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

type failingTokenSource struct{}

func (failingTokenSource) Token() (*oauth2.Token, error) {
	return nil, &oauth2.RetrieveError{Response: &http.Response{StatusCode: http.StatusBadRequest}}
}

func newTestSchwabClient(t *testing.T, handler http.HandlerFunc) *SchwabClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewSchwabClient(srv.URL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"}), 0)
}

func TestSchwabClient_FetchExpirationChain(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes the expiration list", func(t *testing.T) {
		// arrange
		client := newTestSchwabClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/marketdata/v1/expirationchain", r.URL.Path)
			require.Equal(t, "SPY", r.URL.Query().Get("symbol"))
			require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

			w.Write([]byte(`{"status":"SUCCESS","expirationList":[
				{"expirationDate":"2025-01-15","daysToExpiration":1,"expirationType":"W","standard":false},
				{"expirationDate":"2025-01-17","daysToExpiration":3,"expirationType":"S","standard":true}]}`))
		})

		// act
		entries, err := client.FetchExpirationChain(ctx, "spy")

		// assert
		require.NoError(t, err)
		require.Len(t, entries, 2)
		require.Equal(t, "2025-01-15", entries[0].String())
		require.Equal(t, 3, entries[1].DaysToExpiration)
	})

	t.Run("maps http statuses to errors", func(t *testing.T) {
		cases := []struct {
			status int
			err    error
		}{
			{http.StatusUnauthorized, models.AuthErr},
			{http.StatusForbidden, models.AuthErr},
			{http.StatusNotFound, models.NotFoundErr},
			{http.StatusInternalServerError, models.TransportErr},
			{http.StatusBadGateway, models.TransportErr},
		}

		for _, tc := range cases {
			client := newTestSchwabClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})

			_, err := client.FetchExpirationChain(ctx, "SPY")
			require.ErrorIs(t, err, tc.err, "status %d", tc.status)
		}
	})

	t.Run("malformed body is a transport error", func(t *testing.T) {
		client := newTestSchwabClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"expirationList":`))
		})

		_, err := client.FetchExpirationChain(ctx, "SPY")
		require.ErrorIs(t, err, models.TransportErr)
	})

	t.Run("unreachable server is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := NewSchwabClient(srv.URL, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "x"}), 0)

		_, err := client.FetchExpirationChain(ctx, "SPY")
		require.ErrorIs(t, err, models.TransportErr)
	})

	t.Run("token failure is an auth error", func(t *testing.T) {
		client := NewSchwabClient("http://127.0.0.1:1", failingTokenSource{}, 0)

		_, err := client.FetchExpirationChain(ctx, "SPY")
		require.ErrorIs(t, err, models.AuthErr)
	})
}

func TestSchwabClient_FetchOptionChain(t *testing.T) {
	ctx := context.Background()
	expiration := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)

	t.Run("requests a single expiration", func(t *testing.T) {
		// arrange
		client := newTestSchwabClient(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			require.Equal(t, "/marketdata/v1/chains", r.URL.Path)
			require.Equal(t, "ALL", q.Get("contractType"))
			require.Equal(t, "8", q.Get("strikeCount"))
			require.Equal(t, "2025-01-17", q.Get("fromDate"))
			require.Equal(t, "2025-01-17", q.Get("toDate"))

			w.Write([]byte(`{"symbol":"SPY","status":"SUCCESS","underlyingPrice":483.5,
				"callExpDateMap":{"2025-01-17:3":{
					"485.0":[{"putCall":"CALL","symbol":"SPY   250117C00485000","strikePrice":485.0}],
					"480.0":[{"putCall":"CALL","symbol":"SPY   250117C00480000","strikePrice":480.0}]}},
				"putExpDateMap":{}}`))
		})

		// act
		snapshot, err := client.FetchOptionChain(ctx, "SPY", expiration)

		// assert
		require.NoError(t, err)
		calls := snapshot.Strikes(models.OptionTypeCall)
		require.Len(t, calls, 2)
		require.Equal(t, "SPY   250117C00480000", calls[0].Symbol)
		require.Empty(t, snapshot.Strikes(models.OptionTypePut))
	})

	t.Run("failed status is not found", func(t *testing.T) {
		client := newTestSchwabClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"symbol":"BADSYM","status":"FAILED"}`))
		})

		_, err := client.FetchOptionChain(ctx, "BADSYM", expiration)
		require.ErrorIs(t, err, models.NotFoundErr)
	})

	t.Run("successful response without strikes is an empty snapshot", func(t *testing.T) {
		client := newTestSchwabClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"symbol":"SPY","status":"SUCCESS","underlyingPrice":483.5,"callExpDateMap":{},"putExpDateMap":{}}`))
		})

		snapshot, err := client.FetchOptionChain(ctx, "SPY", expiration)
		require.NoError(t, err)
		require.True(t, snapshot.IsEmpty())
	})
}
