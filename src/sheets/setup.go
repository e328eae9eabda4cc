package sheets

import (
	"context"
	"encoding/base64"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/jiaming2012/options-symbol-finder/src/utils"
)

func setup(ctx context.Context, googleSecurityKeyJsonBase64 string) (*sheets.Service, error) {
	// get bytes from base64 encoded google service accounts key
	credBytes, err := base64.StdEncoding.DecodeString(googleSecurityKeyJsonBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to base64 decode googleSecurityKeyJsonBase64: %w", err)
	}

	// authenticate and get configuration
	config, err := google.JWTConfigFromJSON(credBytes, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to get config from json: %w", err)
	}

	// create new service using client
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return srv, nil
}

func NewClient(ctx context.Context, googleSecurityKeyJsonBase64 string) (*sheets.Service, error) {
	return setup(ctx, googleSecurityKeyJsonBase64)
}

func NewClientFromEnv(ctx context.Context) (*sheets.Service, error) {
	googleSecurityKeyJsonBase64, err := utils.GetEnv("GOOGLE_SECURITY_KEY_JSON_BASE64")
	if err != nil {
		return nil, fmt.Errorf("GOOGLE_SECURITY_KEY_JSON_BASE64 not set: %v", err)
	}

	return NewClient(ctx, googleSecurityKeyJsonBase64)
}
