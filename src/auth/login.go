package auth

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

var MissingAuthorizationCodeErr = fmt.Errorf("redirect url has no authorization code")

// Login runs the interactive authorization code flow: the user opens the
// authorize url, signs in and pastes back the url they were redirected to.
func Login(ctx context.Context, cfg *oauth2.Config, store TokenStore, out io.Writer, readLine func(*string) error) (*oauth2.Token, error) {
	state := uuid.New().String()

	fmt.Fprintf(out, "Open the following url in a browser and sign in:\n\n%s\n\n", cfg.AuthCodeURL(state))
	fmt.Fprint(out, "Paste the url you were redirected to: ")

	var redirected string
	if err := readLine(&redirected); err != nil {
		return nil, fmt.Errorf("Login: failed to read redirect url: %w", err)
	}

	code, err := authorizationCode(redirected, state)
	if err != nil {
		return nil, fmt.Errorf("Login: %w", err)
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("Login: failed to exchange authorization code: %w", err)
	}

	if err := store.Put(ctx, token); err != nil {
		return nil, fmt.Errorf("Login: failed to store token: %w", err)
	}

	log.Infof("stored token, expires at %s", token.Expiry)

	return token, nil
}

func authorizationCode(redirected string, state string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(redirected))
	if err != nil {
		return "", fmt.Errorf("failed to parse redirect url: %w", err)
	}

	q := u.Query()
	if s := q.Get("state"); s != "" && s != state {
		return "", fmt.Errorf("state mismatch: got %s", s)
	}

	code := q.Get("code")
	if code == "" {
		return "", MissingAuthorizationCodeErr
	}

	return code, nil
}
