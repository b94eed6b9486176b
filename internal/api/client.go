// package api implements the HTTP client for the Roost platform REST API.
//
// Every request carries a bearer token from the [session.Store] and an
// X-Request-ID. A request failing with 401 triggers exactly one refresh
// attempt against /auth/refresh followed by exactly one replay of the
// original request; a failed refresh tears the session down. No other
// endpoint is retried automatically.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/session"
	"github.com/roosthq/roost/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// refreshSpentKey marks a request context whose single refresh-and-replay
// has already been used.
type refreshSpentKey struct{}

// Client is a resty-backed client for the platform API.
type Client struct {
	http    *resty.Client
	bare    *resty.Client // auth endpoints: no bearer header, no retry
	store   *session.Store
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient builds a client from configuration. The store supplies the bearer
// token for outgoing requests and receives refreshed tokens.
func NewClient(cfg shared.APIConfig, store *session.Store, logger *log.Logger) *Client {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	base := strings.TrimSuffix(cfg.BaseURL, "/")
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	limit := rate.Inf
	burst := 1
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
		burst = int(cfg.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
	}

	c := &Client{
		store:   store,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}

	c.bare = resty.New().
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	c.http = resty.New().
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout).
		SetRetryCount(1).
		SetRetryWaitTime(0).
		SetRetryMaxWaitTime(time.Second)

	// Runs on every attempt, so a replay after refresh picks up the new token.
	c.http.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return err
		}
		req.SetHeader("X-Request-ID", shared.GenerateID())
		if tok := c.store.AccessToken(); tok != "" {
			req.SetHeader("Authorization", "Bearer "+tok)
		}
		return nil
	})

	// Retry only a 401 for which a refresh just succeeded. The condition
	// runs after every attempt, so the request carries a marker once a
	// refresh has been spent: a 401 on the replay falls through to the
	// caller without touching /auth/refresh again.
	c.http.AddRetryCondition(func(resp *resty.Response, err error) bool {
		if err != nil || resp == nil {
			return false
		}
		if resp.StatusCode() != http.StatusUnauthorized {
			return false
		}
		ctx := resp.Request.Context()
		if ctx.Value(refreshSpentKey{}) != nil {
			return false
		}
		resp.Request.SetContext(context.WithValue(ctx, refreshSpentKey{}, true))
		if refreshErr := c.refresh(ctx); refreshErr != nil {
			c.logger.Warn("token refresh failed, session cleared", "error", refreshErr)
			return false
		}
		return true
	})

	return c
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// Get issues a read request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	req := c.http.R().SetContext(ctx)
	if len(query) > 0 {
		req.SetQueryParamsFromValues(query)
	}
	return c.do(req, http.MethodGet, path, nil, out)
}

// Post issues a create request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(c.http.R().SetContext(ctx), http.MethodPost, path, body, out)
}

// Put issues an update request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(c.http.R().SetContext(ctx), http.MethodPut, path, body, out)
}

// Delete issues a delete request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(c.http.R().SetContext(ctx), http.MethodDelete, path, nil, nil)
}

func (c *Client) do(req *resty.Request, method, path string, body, out any) error {
	apiErr := new(shared.APIError)
	req.SetError(apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", shared.ErrUnreachable, method, path, err)
	}

	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return apiErr
	}

	return nil
}

// authResponse is the wire shape of /auth/login, /auth/register and
// /auth/refresh responses.
type authResponse struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	ExpiresIn    int             `json:"expiresIn"`
	User         *models.Profile `json:"user"`
}

func (a *authResponse) oauthToken() *oauth2.Token {
	tok := &oauth2.Token{AccessToken: a.Token, RefreshToken: a.RefreshToken}
	if a.ExpiresIn > 0 {
		tok.Expiry = time.Now().Add(time.Duration(a.ExpiresIn) * time.Second)
	}
	return tok
}

// Login authenticates with email and password, persisting the returned token
// and profile into the session store.
func (c *Client) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	return c.authenticate(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// Register creates an account and persists the returned session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*models.Profile, error) {
	return c.authenticate(ctx, "/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, payload map[string]string) (*models.Profile, error) {
	result := new(authResponse)
	apiErr := new(shared.APIError)

	resp, err := c.bare.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrUnreachable, err)
	}
	if resp.IsError() {
		apiErr.Status = resp.StatusCode()
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, apiErr)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: no token in response", shared.ErrAuthFailed)
	}

	if err := c.store.Set(result.oauthToken(), result.User); err != nil {
		return nil, err
	}
	return result.User, nil
}

// refresh exchanges the stored refresh token for a new access token. On any
// failure the session is torn down, returning the user to an unauthenticated
// state.
func (c *Client) refresh(ctx context.Context) error {
	rt := c.store.RefreshToken()
	if rt == "" {
		c.store.Clear()
		return shared.ErrNoRefreshToken
	}

	result := new(authResponse)
	apiErr := new(shared.APIError)

	resp, err := c.bare.R().
		SetContext(ctx).
		SetBody(map[string]string{"refreshToken": rt}).
		SetResult(result).
		SetError(apiErr).
		Post("/auth/refresh")
	if err != nil {
		c.store.Clear()
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}
	if resp.IsError() || result.Token == "" {
		c.store.Clear()
		return shared.ErrRefreshFailed
	}

	tok := result.oauthToken()
	if tok.RefreshToken == "" {
		tok.RefreshToken = rt
	}
	return c.store.UpdateToken(tok)
}
