package run

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/jiaming2012/options-symbol-finder/src/auth"
	"github.com/jiaming2012/options-symbol-finder/src/config"
	"github.com/jiaming2012/options-symbol-finder/src/finder"
	"github.com/jiaming2012/options-symbol-finder/src/models"
	"github.com/jiaming2012/options-symbol-finder/src/services"
	"github.com/jiaming2012/options-symbol-finder/src/sheets"
	"github.com/jiaming2012/options-symbol-finder/src/utils"
)

func NewTokenStore(ctx context.Context, cfg *config.Config) (auth.TokenStore, error) {
	switch cfg.TokenStore.Type {
	case config.TokenStoreFile:
		return auth.NewFileTokenStore(cfg.TokenStore.Path), nil
	case config.TokenStoreGCS:
		googleSecurityKeyJsonBase64, err := utils.GetEnv("GOOGLE_SECURITY_KEY_JSON_BASE64")
		if err != nil {
			return nil, fmt.Errorf("NewTokenStore: %w", err)
		}

		return auth.NewGCSTokenStore(ctx, googleSecurityKeyJsonBase64, cfg.TokenStore.Bucket, cfg.TokenStore.Object)
	case config.TokenStoreS3:
		return auth.NewS3TokenStore(ctx, cfg.TokenStore.Region, cfg.TokenStore.Bucket, cfg.TokenStore.Object)
	}

	return nil, fmt.Errorf("NewTokenStore: unknown token store %q", cfg.TokenStore.Type)
}

func NewSchwabOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientID, err := utils.GetEnv("SCHWAB_CLIENT_ID")
	if err != nil {
		return nil, fmt.Errorf("NewSchwabOAuthConfig: %w", err)
	}

	clientSecret, err := utils.GetEnv("SCHWAB_CLIENT_SECRET")
	if err != nil {
		return nil, fmt.Errorf("NewSchwabOAuthConfig: %w", err)
	}

	return auth.NewSchwabOAuthConfig(clientID, clientSecret, cfg.Schwab.RedirectURL), nil
}

// NewBrokerage builds the market data source named by the config.
func NewBrokerage(ctx context.Context, cfg *config.Config) (finder.Brokerage, error) {
	switch cfg.Provider {
	case config.ProviderPolygon:
		apiKey, err := utils.GetEnv("POLYGON_API_KEY")
		if err != nil {
			return nil, fmt.Errorf("NewBrokerage: %w", err)
		}

		return services.NewPolygonClient(apiKey)
	case config.ProviderSchwab:
		oauthConfig, err := NewSchwabOAuthConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("NewBrokerage: %w", err)
		}

		store, err := NewTokenStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("NewBrokerage: %w", err)
		}

		tokenSource, err := auth.NewPersistingTokenSource(ctx, oauthConfig, store)
		if err != nil {
			return nil, fmt.Errorf("NewBrokerage: run the login command first: %w", err)
		}

		log.Debugf("using schwab market data at %s", cfg.Schwab.BaseURL)

		return services.NewSchwabClient(cfg.Schwab.BaseURL, tokenSource, cfg.Schwab.StrikeCount), nil
	}

	return nil, fmt.Errorf("NewBrokerage: unknown provider %q", cfg.Provider)
}

func NewFinder(cfg *config.Config, brokerage finder.Brokerage) *finder.Finder {
	return finder.NewFinder(brokerage,
		finder.WithConcurrency(cfg.Concurrency),
		finder.WithStrikesAroundATM(cfg.StrikesAroundATM),
	)
}

func NewSheetsExporter(ctx context.Context, spreadsheetID string, sheetName string) (BatchExporter, error) {
	srv, err := sheets.NewClientFromEnv(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewSheetsExporter: %w", err)
	}

	return func(ctx context.Context, batch *models.BatchResult) (int, error) {
		return sheets.ExportBatch(ctx, srv, spreadsheetID, sheetName, batch)
	}, nil
}
