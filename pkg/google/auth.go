package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/klokku/okc/internal/config"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
)

var ErrUnauthenticated = errors.New("not authenticated with Google Calendar")

var scopes = []string{gcal.CalendarReadonlyScope}

// Auth builds authenticated HTTP clients from the files named in the Google config.
// A service account key wins when present; otherwise the installed-app OAuth token is used.
type Auth struct {
	cfg config.Google
}

func NewAuth(cfg config.Google) *Auth {
	return &Auth{cfg: cfg}
}

func (a *Auth) HTTPClient(ctx context.Context) (*http.Client, error) {
	if fileExists(a.cfg.ServiceAccountKeyPath) {
		log.Debugf("Using Google service account key %s", a.cfg.ServiceAccountKeyPath)
		return a.serviceAccountClient(ctx)
	}

	oauthConfig, err := a.OAuthConfig()
	if err != nil {
		return nil, err
	}
	token, err := a.LoadToken()
	if err != nil {
		return nil, err
	}
	log.Debugf("Using Google OAuth token %s", a.cfg.TokenFile)
	return oauthConfig.Client(ctx, token), nil
}

func (a *Auth) serviceAccountClient(ctx context.Context) (*http.Client, error) {
	key, err := os.ReadFile(a.cfg.ServiceAccountKeyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read service account key %s: %v", ErrUnauthenticated, a.cfg.ServiceAccountKeyPath, err)
	}
	jwtConfig, err := google.JWTConfigFromJSON(key, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid service account key %s: %v", ErrUnauthenticated, a.cfg.ServiceAccountKeyPath, err)
	}
	return jwtConfig.Client(ctx), nil
}

// OAuthConfig reads the installed-app client from credentials.json.
func (a *Auth) OAuthConfig() (*oauth2.Config, error) {
	credentials, err := os.ReadFile(a.cfg.CredentialsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no OAuth client found at %s and no service account key at %s. "+
				"Download the OAuth client JSON from Google Cloud Console to %s and run `okc auth`, "+
				"or set GOOGLE_SERVICE_ACCOUNT_KEY_PATH", ErrUnauthenticated,
				a.cfg.CredentialsFile, a.cfg.ServiceAccountKeyPath, a.cfg.CredentialsFile)
		}
		return nil, fmt.Errorf("unable to read %s: %w", a.cfg.CredentialsFile, err)
	}
	oauthConfig, err := google.ConfigFromJSON(credentials, scopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid OAuth client file %s: %v", ErrUnauthenticated, a.cfg.CredentialsFile, err)
	}
	return oauthConfig, nil
}

func (a *Auth) LoadToken() (*oauth2.Token, error) {
	raw, err := os.ReadFile(a.cfg.TokenFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no token found at %s, run `okc auth` first", ErrUnauthenticated, a.cfg.TokenFile)
		}
		return nil, fmt.Errorf("unable to read %s: %w", a.cfg.TokenFile, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(raw, &token); err != nil {
		return nil, fmt.Errorf("%w: token file %s is corrupt, run `okc auth` again: %v", ErrUnauthenticated, a.cfg.TokenFile, err)
	}
	return &token, nil
}

func (a *Auth) SaveToken(token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(a.cfg.TokenFile), 0o700); err != nil {
		return fmt.Errorf("unable to create %s: %w", filepath.Dir(a.cfg.TokenFile), err)
	}
	raw, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("unable to encode token: %w", err)
	}
	if err := os.WriteFile(a.cfg.TokenFile, raw, 0o600); err != nil {
		return fmt.Errorf("unable to write %s: %w", a.cfg.TokenFile, err)
	}
	log.Debugf("Stored Google OAuth token in %s", a.cfg.TokenFile)
	return nil
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
