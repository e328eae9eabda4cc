package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

const (
	SchwabBaseURL            = "https://api.schwabapi.com"
	DefaultSchwabStrikeCount = 8
)

type SchwabClient struct {
	baseURL     string
	tokenSource oauth2.TokenSource
	strikeCount int
	client      *http.Client
}

func NewSchwabClient(baseURL string, tokenSource oauth2.TokenSource, strikeCount int) *SchwabClient {
	if baseURL == "" {
		baseURL = SchwabBaseURL
	}

	if strikeCount <= 0 {
		strikeCount = DefaultSchwabStrikeCount
	}

	return &SchwabClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenSource: tokenSource,
		strikeCount: strikeCount,
		client: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *SchwabClient) FetchExpirationChain(ctx context.Context, symbol models.StockSymbol) ([]models.ExpirationEntry, error) {
	tracer := otel.Tracer("SchwabClient")
	ctx, span := tracer.Start(ctx, "FetchExpirationChain")
	defer span.End()

	q := url.Values{}
	q.Add("symbol", symbol.String())

	var dto models.SchwabExpirationChainDTO
	if err := c.get(ctx, "/marketdata/v1/expirationchain", q, &dto); err != nil {
		return nil, fmt.Errorf("FetchExpirationChain: %s: %w", symbol, err)
	}

	entries, err := dto.ToModel()
	if err != nil {
		return nil, fmt.Errorf("FetchExpirationChain: %s: %v: %w", symbol, err, models.TransportErr)
	}

	log.Debugf("fetched %d expirations for %s", len(entries), symbol)

	return entries, nil
}

func (c *SchwabClient) FetchOptionChain(ctx context.Context, symbol models.StockSymbol, expirationDate time.Time) (*models.OptionChainSnapshot, error) {
	tracer := otel.Tracer("SchwabClient")
	ctx, span := tracer.Start(ctx, "FetchOptionChain")
	defer span.End()

	date := expirationDate.Format(models.ExpirationDateLayout)

	q := url.Values{}
	q.Add("symbol", symbol.String())
	q.Add("contractType", "ALL")
	q.Add("strikeCount", fmt.Sprintf("%d", c.strikeCount))
	q.Add("fromDate", date)
	q.Add("toDate", date)

	var dto models.SchwabOptionChainDTO
	if err := c.get(ctx, "/marketdata/v1/chains", q, &dto); err != nil {
		return nil, fmt.Errorf("FetchOptionChain: %s %s: %w", symbol, date, err)
	}

	snapshot, err := dto.ToModel(symbol, expirationDate)
	if err != nil {
		return nil, fmt.Errorf("FetchOptionChain: %s %s: %w", symbol, date, err)
	}

	return snapshot, nil
}

func (c *SchwabClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	token, err := c.tokenSource.Token()
	if err != nil {
		return fmt.Errorf("failed to get access token: %v: %w", err, models.AuthErr)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %v: %w", err, models.TransportErr)
	}

	req.URL.RawQuery = query.Encode()
	req.Header.Add("Accept", "application/json")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", token.AccessToken))

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %v: %w", err, models.TransportErr)
	}

	defer res.Body.Close()

	if err := checkStatus(res); err != nil {
		return err
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode json: %v: %w", err, models.TransportErr)
	}

	return nil
}

func checkStatus(res *http.Response) error {
	switch {
	case res.StatusCode == http.StatusOK:
		return nil
	case res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden:
		return fmt.Errorf("http code %v: %w", res.Status, models.AuthErr)
	case res.StatusCode == http.StatusNotFound:
		return fmt.Errorf("http code %v: %w", res.Status, models.NotFoundErr)
	}

	return fmt.Errorf("http code %v: %w", res.Status, models.TransportErr)
}
