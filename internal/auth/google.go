package auth

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// Profile is what an identity provider tells us about a user.
type Profile struct {
	Email   string
	Name    string
	Picture string
}

type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Profile, error)
}

type GoogleProvider struct {
	conf        *oauth2.Config
	client      *resty.Client
	userInfoURL string
}

func NewGoogleProvider(cfg config.GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		},
		client:      resty.New().SetTimeout(10 * time.Second),
		userInfoURL: googleUserInfoURL,
	}
}

func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.conf.AuthCodeURL(state)
}

// Exchange trades the callback code for a token and fetches the user's profile.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	tok, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return nil, errors.Wrap(err, "exchange oauth code")
	}

	var info struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}
	resp, err := g.client.R().
		SetContext(ctx).
		SetAuthToken(tok.AccessToken).
		SetResult(&info).
		Get(g.userInfoURL)
	if err != nil {
		return nil, errors.Wrap(err, "fetch google userinfo")
	}
	if resp.IsError() {
		return nil, errors.Errorf("google userinfo returned %d: %s", resp.StatusCode(), resp.String())
	}
	if strings.TrimSpace(info.Email) == "" {
		return nil, errors.New("google profile has no email")
	}
	if !info.EmailVerified {
		return nil, errors.New("google email is not verified")
	}
	return &Profile{Email: info.Email, Name: info.Name, Picture: info.Picture}, nil
}
