package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	osfmodels "github.com/jiaming2012/options-symbol-finder/src/models"
)

const polygonContractsPageLimit = 1000

// PolygonClient reads option contracts and last trades from polygon.io.
type PolygonClient struct {
	Client   *polygon.Client
	location *time.Location
	now      func() time.Time
}

func (c *PolygonClient) FetchExpirationChain(ctx context.Context, symbol osfmodels.StockSymbol) ([]osfmodels.ExpirationEntry, error) {
	tracer := otel.Tracer("PolygonClient")
	ctx, span := tracer.Start(ctx, "FetchExpirationChain")
	defer span.End()

	today := calendarDate(c.now(), c.location)

	params := models.ListOptionsContractsParams{}.
		WithUnderlyingTicker(models.EQ, symbol.String()).
		WithExpirationDate(models.GTE, models.Date(today)).
		WithLimit(polygonContractsPageLimit)

	iter := c.Client.ListOptionsContracts(ctx, params)

	seen := make(map[time.Time]bool)
	var entries []osfmodels.ExpirationEntry
	for iter.Next() {
		expiration := calendarDate(time.Time(iter.Item().ExpirationDate), time.UTC)
		if seen[expiration] {
			continue
		}

		seen[expiration] = true
		entries = append(entries, osfmodels.ExpirationEntry{
			ExpirationDate:   expiration,
			DaysToExpiration: daysBetween(today, expiration),
		})
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("FetchExpirationChain: %s: %v: %w", symbol, err, classifyPolygonErr(err))
	}

	log.Debugf("fetched %d expirations for %s from polygon", len(entries), symbol)

	return entries, nil
}

func (c *PolygonClient) FetchOptionChain(ctx context.Context, symbol osfmodels.StockSymbol, expirationDate time.Time) (*osfmodels.OptionChainSnapshot, error) {
	tracer := otel.Tracer("PolygonClient")
	ctx, span := tracer.Start(ctx, "FetchOptionChain")
	defer span.End()

	params := models.ListOptionsContractsParams{}.
		WithUnderlyingTicker(models.EQ, symbol.String()).
		WithExpirationDate(models.EQ, models.Date(calendarDate(expirationDate, time.UTC))).
		WithLimit(polygonContractsPageLimit)

	iter := c.Client.ListOptionsContracts(ctx, params)

	strikesByType := make(map[osfmodels.OptionType][]osfmodels.StrikeContract)
	for iter.Next() {
		item := iter.Item()

		optionType, err := osfmodels.ParseOptionType(item.ContractType)
		if err != nil {
			log.Debugf("FetchOptionChain: skipping %s: %v", item.Ticker, err)
			continue
		}

		strikesByType[optionType] = append(strikesByType[optionType], osfmodels.StrikeContract{
			StrikePrice: decimal.NewFromFloat(item.StrikePrice),
			Symbol:      item.Ticker,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("FetchOptionChain: %s: %v: %w", symbol, err, classifyPolygonErr(err))
	}

	trade, err := c.Client.GetLastTrade(ctx, &models.GetLastTradeParams{Ticker: symbol.String()})
	if err != nil {
		return nil, fmt.Errorf("FetchOptionChain: failed to fetch last trade for %s: %v: %w", symbol, err, classifyPolygonErr(err))
	}

	price := decimal.NewFromFloat(trade.Results.Price)
	if !price.IsPositive() {
		return nil, fmt.Errorf("FetchOptionChain: %s: underlying price %s: %w", symbol, price, osfmodels.TransportErr)
	}

	return osfmodels.NewOptionChainSnapshot(symbol, expirationDate, price, strikesByType), nil
}

func classifyPolygonErr(err error) error {
	var apiErr *models.ErrorResponse
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return osfmodels.AuthErr
		case http.StatusNotFound:
			return osfmodels.NotFoundErr
		}
	}

	return osfmodels.TransportErr
}

func calendarDate(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func NewPolygonClient(apiKey string) (*PolygonClient, error) {
	return newPolygonClient(polygon.New(apiKey))
}

func newPolygonClient(client *polygon.Client) (*PolygonClient, error) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return nil, fmt.Errorf("NewPolygonClient: failed to load location: %w", err)
	}

	return &PolygonClient{
		Client:   client,
		location: loc,
		now:      time.Now,
	}, nil
}
