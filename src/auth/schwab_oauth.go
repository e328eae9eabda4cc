package auth

import "golang.org/x/oauth2"

const (
	SchwabAuthURL  = "https://api.schwabapi.com/v1/oauth/authorize"
	SchwabTokenURL = "https://api.schwabapi.com/v1/oauth/token"
)

func NewSchwabOAuthConfig(clientID, clientSecret, redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   SchwabAuthURL,
			TokenURL:  SchwabTokenURL,
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}
}
