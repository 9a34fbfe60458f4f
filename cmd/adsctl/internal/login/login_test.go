package login

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func testOptions(tokenURL string) Options {
	return Options{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		AuthorizeURL: "https://auth.test/ap/oa",
		TokenURL:     tokenURL,
		Scopes:       []string{"advertising::campaign_management"},
		Port:         0,
	}
}

// stateOf extracts the state parameter from the flow's consent URL.
func stateOf(t *testing.T, f *Flow) string {
	t.Helper()
	u, err := url.Parse(f.AuthURL())
	if err != nil {
		t.Fatalf("failed to parse auth URL: %v", err)
	}
	state := u.Query().Get("state")
	if state == "" {
		t.Fatal("auth URL has no state parameter")
	}
	return state
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{
			name: "missing client ID",
			opts: Options{ClientSecret: "s", AuthorizeURL: "https://a", TokenURL: "https://t"},
		},
		{
			name: "missing client secret",
			opts: Options{ClientID: "c", AuthorizeURL: "https://a", TokenURL: "https://t"},
		},
		{
			name: "missing endpoints",
			opts: Options{ClientID: "c", ClientSecret: "s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.opts); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFlow_AuthURL(t *testing.T) {
	f, err := New(testOptions("https://token.test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	u, err := url.Parse(f.AuthURL())
	if err != nil {
		t.Fatalf("failed to parse auth URL: %v", err)
	}

	if u.Host != "auth.test" {
		t.Errorf("auth URL host = %q, want auth.test", u.Host)
	}
	q := u.Query()
	if q.Get("client_id") != "test-client-id" {
		t.Errorf("client_id = %q", q.Get("client_id"))
	}
	if q.Get("scope") != "advertising::campaign_management" {
		t.Errorf("scope = %q", q.Get("scope"))
	}
	if q.Get("redirect_uri") != f.RedirectURL() {
		t.Errorf("redirect_uri = %q, want %q", q.Get("redirect_uri"), f.RedirectURL())
	}
	if !strings.HasPrefix(f.RedirectURL(), "http://127.0.0.1:") {
		t.Errorf("redirect URL = %q, want a localhost callback", f.RedirectURL())
	}
}

func TestFlow_Wait(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse exchange form: %v", err)
		}
		if got := r.FormValue("code"); got != "test-code" {
			t.Errorf("code = %q, want test-code", got)
		}
		if got := r.FormValue("client_id"); got != "test-client-id" {
			t.Errorf("client_id = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"access-token","refresh_token":"refresh-token","token_type":"bearer","expires_in":3600}`)
	}))
	defer tokenServer.Close()

	f, err := New(testOptions(tokenServer.URL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	state := stateOf(t, f)

	type result struct {
		refresh string
		err     error
	}
	results := make(chan result, 1)
	go func() {
		token, err := f.Wait(context.Background())
		if err != nil {
			results <- result{err: err}
			return
		}
		results <- result{refresh: token.RefreshToken}
	}()

	// Give the callback server a moment to start accepting.
	time.Sleep(20 * time.Millisecond)

	// A forged state is rejected and the flow keeps waiting.
	resp, err := http.Get(f.RedirectURL() + "?code=evil-code&state=forged")
	if err != nil {
		t.Fatalf("forged callback request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("forged state status = %d, want 400", resp.StatusCode)
	}

	// The genuine redirect completes the flow.
	resp, err = http.Get(f.RedirectURL() + "?code=test-code&state=" + state)
	if err != nil {
		t.Fatalf("callback request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("callback status = %d, want 200", resp.StatusCode)
	}

	select {
	case got := <-results:
		if got.err != nil {
			t.Fatalf("Wait returned error: %v", got.err)
		}
		if got.refresh != "refresh-token" {
			t.Errorf("refresh token = %q, want %q", got.refresh, "refresh-token")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not finish after the callback")
	}
}

func TestFlow_AuthorizationDenied(t *testing.T) {
	f, err := New(testOptions("https://token.test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	errs := make(chan error, 1)
	go func() {
		_, err := f.Wait(context.Background())
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)

	resp, err := http.Get(f.RedirectURL() + "?error=access_denied")
	if err != nil {
		t.Fatalf("callback request failed: %v", err)
	}
	resp.Body.Close()

	select {
	case err := <-errs:
		if err == nil {
			t.Fatal("expected error when authorization is denied")
		}
		if !strings.Contains(err.Error(), "access_denied") {
			t.Errorf("error = %v, want the denial reason", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not finish after the denial")
	}
}

func TestFlow_ContextCancelled(t *testing.T) {
	f, err := New(testOptions("https://token.test"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := f.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("Wait error = %v, want context.DeadlineExceeded", err)
	}
}
