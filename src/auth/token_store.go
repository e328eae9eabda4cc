package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/oauth2"
)

var TokenNotFoundErr = fmt.Errorf("no stored token")

// TokenStore persists the brokerage OAuth token between runs.
type TokenStore interface {
	Get(ctx context.Context) (*oauth2.Token, error)
	Put(ctx context.Context, token *oauth2.Token) error
}

func decodeToken(data []byte) (*oauth2.Token, error) {
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, TokenNotFoundErr
	}

	return &token, nil
}

func encodeToken(token *oauth2.Token) ([]byte, error) {
	if token == nil {
		return nil, fmt.Errorf("token is nil")
	}

	return json.Marshal(token)
}
