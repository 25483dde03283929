package freebox

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// AccountID is the fixed login account of the Freebox web interface.
	// The firmware has exactly one admin account; only the password is
	// configurable.
	AccountID = "freebox"

	// loginPath is the login endpoint accepting form-encoded credentials.
	loginPath = "/login.php"

	// badPasswordMarker is the fixed French error string the firmware
	// embeds in the login response when the password is wrong.
	badPasswordMarker = "Mauvais mot de passe"

	// loginFormMarker identifies the login form. Protected pages never
	// contain a password input; seeing one means the firmware served the
	// login page instead of the requested content.
	loginFormMarker = `name="passwd"`

	// maxBodySize limits the response body size. The firmware's pages
	// are a few kilobytes; anything near this limit is not a status page.
	maxBodySize = 1 * 1024 * 1024 // 1MB
)

// Page is one fetched HTML document plus the identifiers needed to
// interpret it. It is transient and exists only within one reporter
// invocation.
type Page struct {
	// Path is the router page path the body came from.
	Path string

	// Body is the raw response body.
	Body []byte

	// ContentType is the Content-Type response header, used for charset
	// handling when building the text snapshot.
	ContentType string
}

// Client issues authenticated page fetches against the router.
//
// Design decision: We build the http.Client internally rather than
// accepting one because its configuration is part of this package's
// contract: no redirect following (the firmware redirects to the login
// page, and we must see that response, not chase it) and a short fixed
// timeout. Tests swap the base URL, not the transport.
type Client struct {
	// httpClient is the HTTP client used for all requests.
	httpClient *http.Client

	// baseURL is the root URL of the router's web interface, without a
	// trailing slash.
	baseURL string

	// password is the admin account secret. Read-only, never logged.
	password string

	// tokens persists the session cookie across invocations.
	tokens *TokenStore

	// scratchPath, when non-empty, receives a copy of the most recently
	// fetched raw body for post-mortem inspection. Best effort only.
	scratchPath string

	// authRetries caps re-authentication attempts within one fetch.
	authRetries int

	// state tracks the session lifecycle, for logging and tests.
	state SessionState

	// logger receives debug/warn records. Never writes to stdout.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTokenStore sets the session token store.
// The default stores nothing persistent (in-memory only is not offered;
// callers always pass a store in production, tests use a temp dir).
func WithTokenStore(store *TokenStore) Option {
	return func(c *Client) {
		c.tokens = store
	}
}

// WithScratchPath enables writing the last fetched raw body to path.
func WithScratchPath(path string) Option {
	return func(c *Client) {
		c.scratchPath = path
	}
}

// WithAuthRetries caps the re-authentication loop within one fetch.
func WithAuthRetries(n int) Option {
	return func(c *Client) {
		c.authRetries = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client for the router at baseURL.
//
// The baseURL must be an absolute http/https URL. The timeout applies
// per request; the router is on the LAN, so the caller's default is
// short and a slow answer is treated the same as no answer.
func NewClient(baseURL, password string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("invalid router base URL %q", baseURL)
	}

	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			// The login redirect must surface as a response, not be followed.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		password:    password,
		tokens:      NewTokenStore(filepath.Join(os.TempDir(), "fbxmon-session")),
		authRetries: 3,
		state:       StateNoSession,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// State returns the current session lifecycle state.
func (c *Client) State() SessionState {
	return c.state
}

// Login authenticates against the router and persists the granted
// session cookie, overwriting any prior token.
//
// A transport failure maps to ErrRouterUnreachable. A response body
// carrying the bad-password marker maps to ErrBadCredentials; both are
// fatal to the invocation and never retried here.
func (c *Client) Login(ctx context.Context) error {
	c.state = StateAuthenticating

	form := url.Values{
		"login":  {AccountID},
		"passwd": {c.password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: login: %v", ErrRouterUnreachable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: reading login response: %v", ErrRouterUnreachable, err)
	}

	if strings.Contains(string(body), badPasswordMarker) {
		return ErrBadCredentials
	}

	token := sessionCookie(resp)
	if token == "" {
		// No marker but no cookie either: the firmware did not grant a
		// session, which only happens when it refused the credentials.
		return fmt.Errorf("%w: login response carried no session cookie", ErrBadCredentials)
	}

	if err := c.tokens.Save(token); err != nil {
		return err
	}

	c.logger.Debug("login succeeded", "tokenPath", c.tokens.Path())
	return nil
}

// FetchPage fetches one router page, re-authenticating as needed.
//
// The returned page is real content: a body that turned out to be the
// login form triggers Login and a retry, at most authRetries times.
// Transport failures and credential rejections propagate immediately.
func (c *Client) FetchPage(ctx context.Context, path string) (*Page, error) {
	token, err := c.tokens.Load()
	if err != nil {
		// An unreadable token file is recoverable: log it and log in fresh.
		c.logger.Warn("failed to load session token", "error", err)
		token = ""
	}
	if token == "" {
		c.state = StateNoSession
	}

	for attempt := 0; ; attempt++ {
		page, err := c.get(ctx, path, token)
		if err != nil {
			return nil, err
		}

		if !strings.Contains(string(page.Body), loginFormMarker) {
			c.state = StateAuthenticated
			c.writeScratch(page.Body)
			return page, nil
		}

		if attempt >= c.authRetries {
			return nil, ErrSessionRejected
		}

		c.logger.Debug("session invalid, re-authenticating",
			"page", path, "attempt", attempt+1)
		if err := c.Login(ctx); err != nil {
			return nil, err
		}

		token, err = c.tokens.Load()
		if err != nil {
			return nil, err
		}
	}
}

// get issues one GET with the token attached as a cookie.
// Any transport-level failure or non-2xx status maps to ErrRouterUnreachable.
func (c *Client) get(ctx context.Context, path, token string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	if token != "" {
		req.Header.Set("Cookie", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRouterUnreachable, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The firmware signals session problems in the body, never with
		// HTTP status codes; a non-2xx means something is broken upstream.
		return nil, fmt.Errorf("%w: %s: unexpected status %d", ErrRouterUnreachable, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrRouterUnreachable, path, err)
	}

	return &Page{
		Path:        path,
		Body:        body,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// sessionCookie returns the first cookie granted by the login response
// in "name=value" form, or empty when none was set.
func sessionCookie(resp *http.Response) string {
	for _, cookie := range resp.Cookies() {
		if cookie.Name != "" {
			return cookie.Name + "=" + cookie.Value
		}
	}
	return ""
}

// writeScratch copies the raw body to the scratch path, best effort.
// Scrape failures are debugged from this file; a failed write must never
// disturb the report output.
func (c *Client) writeScratch(body []byte) {
	if c.scratchPath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.scratchPath), 0700); err != nil {
		c.logger.Warn("failed to create scratch directory", "error", err)
		return
	}
	if err := os.WriteFile(c.scratchPath, body, 0600); err != nil {
		c.logger.Warn("failed to write scratch page", "error", err)
	}
}
