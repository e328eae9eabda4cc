package finder

import (
	"context"
	"time"

	"github.com/jiaming2012/options-symbol-finder/src/models"
)

// Brokerage is the market data source the finder reads from. Errors should
// wrap models.TransportErr, models.AuthErr or models.NotFoundErr.
type Brokerage interface {
	FetchExpirationChain(ctx context.Context, symbol models.StockSymbol) ([]models.ExpirationEntry, error)
	FetchOptionChain(ctx context.Context, symbol models.StockSymbol, expirationDate time.Time) (*models.OptionChainSnapshot, error)
}
