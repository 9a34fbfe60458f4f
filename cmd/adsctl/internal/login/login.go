// Package login implements the Login with Amazon authorization-code flow
// for obtaining a refresh token. It serves a localhost callback endpoint,
// hands the user the consent URL, and exchanges the returned code.
package login

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
)

// Options configures a login flow.
type Options struct {
	ClientID     string
	ClientSecret string
	AuthorizeURL string   // consent page, e.g. https://eu.account.amazon.com/ap/oa
	TokenURL     string   // token endpoint for the code exchange
	Scopes       []string // e.g. advertising::campaign_management
	Port         int      // localhost callback port; 0 picks a free one
}

// Flow is a single-use authorization-code login. Create one with New, show
// the user AuthURL, then Wait for the callback and the code exchange.
type Flow struct {
	cfg      *oauth2.Config
	state    string
	listener net.Listener
	codes    chan string
	errs     chan error
}

// New validates the options and claims the callback port. The redirect URL
// is only final after the port is bound, so the listener starts here.
func New(opts Options) (*Flow, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("client ID is required")
	}
	if opts.ClientSecret == "" {
		return nil, fmt.Errorf("client secret is required")
	}
	if opts.AuthorizeURL == "" || opts.TokenURL == "" {
		return nil, fmt.Errorf("authorize and token URLs are required")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", opts.Port))
	if err != nil {
		return nil, fmt.Errorf("failed to listen for the OAuth callback: %w", err)
	}

	return &Flow{
		cfg: &oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			Scopes:       opts.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   opts.AuthorizeURL,
				TokenURL:  opts.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
			RedirectURL: fmt.Sprintf("http://%s/callback", listener.Addr().String()),
		},
		state:    uuid.NewString(),
		listener: listener,
		codes:    make(chan string, 1),
		errs:     make(chan error, 1),
	}, nil
}

// AuthURL returns the consent URL the user must open in a browser.
func (f *Flow) AuthURL() string {
	return f.cfg.AuthCodeURL(f.state)
}

// RedirectURL returns the localhost callback URL registered with the flow.
func (f *Flow) RedirectURL() string {
	return f.cfg.RedirectURL
}

// Wait serves the callback endpoint until a code arrives or ctx is done,
// then exchanges the code for tokens. The flow is spent afterwards.
func (f *Flow) Wait(ctx context.Context) (*oauth2.Token, error) {
	router := mux.NewRouter()
	router.HandleFunc("/callback", f.handleCallback).Methods(http.MethodGet)

	server := &http.Server{Handler: router}
	go func() {
		if err := server.Serve(f.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.fail(err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	select {
	case code := <-f.codes:
		token, err := f.cfg.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("code exchange failed: %w", err)
		}
		return token, nil
	case err := <-f.errs:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (f *Flow) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errCode := query.Get("error"); errCode != "" {
		http.Error(w, "Authorization failed: "+errCode, http.StatusBadRequest)
		f.fail(fmt.Errorf("authorization denied: %s", errCode))
		return
	}

	// A mismatched state is rejected but not fatal: the flow keeps waiting
	// for the genuine redirect.
	if query.Get("state") != f.state {
		http.Error(w, "State mismatch", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		http.Error(w, "Missing authorization code", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, "<html><body><h3>Login complete.</h3><p>You can close this window and return to the terminal.</p></body></html>")

	select {
	case f.codes <- code:
	default:
	}
}

func (f *Flow) fail(err error) {
	select {
	case f.errs <- err:
	default:
	}
}
