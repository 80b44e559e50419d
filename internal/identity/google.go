// Package identity integrates external identity providers. The rest of the
// system only ever sees a verified email plus provider id; the handshake
// itself stays behind the Verifier interface.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/AIlhomov/Ticketing-System/internal/config"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleIdentity is the result of a completed OAuth exchange.
type GoogleIdentity struct {
	GoogleID    string
	Email       string
	AccessToken string
	Expiry      time.Time
}

// GoogleVerifier exchanges an authorization code for a verified identity.
type GoogleVerifier interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*GoogleIdentity, error)
}

type googleVerifier struct {
	cfg *oauth2.Config
}

// NewGoogleVerifier builds a verifier from OAuth settings.
func NewGoogleVerifier(cfg config.OAuthConfig) GoogleVerifier {
	return &googleVerifier{
		cfg: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (v *googleVerifier) AuthCodeURL(state string) string {
	return v.cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

func (v *googleVerifier) Exchange(ctx context.Context, code string) (*GoogleIdentity, error) {
	token, err := v.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	resp, err := v.cfg.Client(ctx, token).Get(userinfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}

	var info struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.ID == "" || info.Email == "" {
		return nil, fmt.Errorf("userinfo missing id or email")
	}

	return &GoogleIdentity{
		GoogleID:    info.ID,
		Email:       info.Email,
		AccessToken: token.AccessToken,
		Expiry:      token.Expiry,
	}, nil
}
