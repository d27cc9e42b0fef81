package google

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const callbackPath = "/callback"

type callbackResult struct {
	code string
	err  error
}

// LoginFlow runs the installed-app OAuth flow: it serves the redirect on a loopback
// port, prints the consent URL and stores the exchanged token.
type LoginFlow struct {
	auth *Auth
	port int
	out  io.Writer
}

func NewLoginFlow(auth *Auth, port int, out io.Writer) *LoginFlow {
	return &LoginFlow{auth: auth, port: port, out: out}
}

func (f *LoginFlow) Run(ctx context.Context) error {
	oauthConfig, err := f.auth.OAuthConfig()
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", f.port))
	if err != nil {
		return fmt.Errorf("unable to listen for the OAuth redirect on port %d: %w", f.port, err)
	}
	oauthConfig.RedirectURL = fmt.Sprintf("http://%s%s", listener.Addr().String(), callbackPath)

	stateNonce := uuid.New().String()
	results := make(chan callbackResult, 1)
	srv := &http.Server{
		Handler:           newCallbackRouter(stateNonce, results),
		ReadHeaderTimeout: 15 * time.Second,
	}
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("OAuth callback server failed: %v", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Tracef("Redirecting to Google auth URL with nonce: %s", stateNonce)
	authUrl := oauthConfig.AuthCodeURL(stateNonce, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(f.out, "Authorize this app by visiting this url:\n%s\n", authUrl)

	var result callbackResult
	select {
	case result = <-results:
	case <-ctx.Done():
		return ctx.Err()
	}
	if result.err != nil {
		return result.err
	}

	token, err := oauthConfig.Exchange(ctx, result.code)
	if err != nil {
		err := fmt.Errorf("unable to exchange code for token: %w", err)
		log.Error(err)
		return err
	}
	if err := f.auth.SaveToken(token); err != nil {
		return err
	}
	fmt.Fprintln(f.out, "Token stored successfully")
	return nil
}

func newCallbackRouter(stateNonce string, results chan<- callbackResult) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(callbackPath, oauthCallback(stateNonce, results)).Methods(http.MethodGet)
	return r
}

func oauthCallback(stateNonce string, results chan<- callbackResult) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.FormValue("state") != stateNonce {
			log.Warn("Ignoring OAuth callback with an unknown state")
			http.Error(w, "unknown state", http.StatusBadRequest)
			return
		}

		var result callbackResult
		if denied := r.FormValue("error"); denied != "" {
			result.err = fmt.Errorf("%w: authorization was denied: %s", ErrUnauthenticated, denied)
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, "Authorization failed, you can close this window.\n")
		} else if code := r.FormValue("code"); code == "" {
			result.err = fmt.Errorf("%w: callback did not include an authorization code", ErrUnauthenticated)
			http.Error(w, "missing code", http.StatusBadRequest)
		} else {
			result.code = code
			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, "Authorization complete, you can close this window.\n")
		}

		select {
		case results <- result:
		default:
			log.Debug("OAuth callback already handled, dropping duplicate")
		}
	}
}
