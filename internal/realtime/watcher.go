// Package realtime implements the client side of the facility live channel:
// a websocket per watched facility delivering update and log events.
//
// The server side leaves reconnection policy to the client, so the watcher
// reconnects with capped, jittered exponential backoff and resets the delay
// after a healthy connection.
package realtime

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/shared"
)

// TokenFunc supplies the current bearer token for the handshake. Returning
// an empty string sends no Authorization header.
type TokenFunc func() string

// Watcher maintains a connection to one facility's live channel and delivers
// decoded events on a channel until the context is cancelled.
type Watcher struct {
	url    string
	token  TokenFunc
	logger *log.Logger
	base   time.Duration
	cap    time.Duration
	events chan models.FacilityEvent
	dialer *websocket.Dialer
}

// NewWatcher creates a watcher for the given endpoint URL.
func NewWatcher(endpoint string, token TokenFunc, cfg shared.RealtimeConfig, logger *log.Logger) *Watcher {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	base := time.Duration(cfg.BackoffBaseMillis) * time.Millisecond
	if base <= 0 {
		base = time.Second
	}
	backoffCap := time.Duration(cfg.BackoffCapMillis) * time.Millisecond
	if backoffCap <= 0 {
		backoffCap = 30 * time.Second
	}

	return &Watcher{
		url:    endpoint,
		token:  token,
		logger: logger,
		base:   base,
		cap:    backoffCap,
		events: make(chan models.FacilityEvent, 32),
		dialer: websocket.DefaultDialer,
	}
}

// EndpointURL derives the live channel URL for a facility from the realtime
// config, falling back to the API base URL with a websocket scheme.
func EndpointURL(cfg shared.RealtimeConfig, apiBaseURL, facilityID string) (string, error) {
	base := cfg.URL
	if base == "" {
		base = apiBaseURL
	}

	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: bad realtime URL: %v", shared.ErrInvalidConfig, err)
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("%w: unsupported scheme %q", shared.ErrInvalidConfig, u.Scheme)
	}

	u.Path = strings.TrimSuffix(u.Path, "/") + "/facilities/" + facilityID + "/live"
	return u.String(), nil
}

// Events returns the channel live events are delivered on. It is closed when
// Run returns.
func (w *Watcher) Events() <-chan models.FacilityEvent {
	return w.events
}

// Run connects and re-connects until ctx is cancelled, decoding messages into
// the events channel. Malformed messages are logged and skipped.
func (w *Watcher) Run(ctx context.Context) {
	defer close(w.events)

	delay := w.base
	for {
		if ctx.Err() != nil {
			return
		}

		header := http.Header{}
		if tok := w.token(); tok != "" {
			header.Set("Authorization", "Bearer "+tok)
		}

		conn, _, err := w.dialer.DialContext(ctx, w.url, header)
		if err != nil {
			w.logger.Warn("live channel dial failed", "url", w.url, "error", err, "retry_in", delay)
			if !sleep(ctx, jitter(delay)) {
				return
			}
			delay = nextDelay(delay, w.cap)
			continue
		}

		w.logger.Info("live channel connected", "url", w.url)
		delay = w.base

		if err := w.readLoop(ctx, conn); err != nil && ctx.Err() == nil {
			w.logger.Warn("live channel closed", "error", err)
		}
		conn.Close()

		if !sleep(ctx, jitter(delay)) {
			return
		}
		delay = nextDelay(delay, w.cap)
	}
}

func (w *Watcher) readLoop(ctx context.Context, conn *websocket.Conn) error {
	// The unblocking goroutine must not outlive its connection, or a
	// flapping channel leaks one goroutine per reconnect.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var event models.FacilityEvent
		if err := conn.ReadJSON(&event); err != nil {
			return err
		}
		if event.Type != "update" && event.Type != "log" {
			w.logger.Debug("skipping unknown live event", "type", event.Type)
			continue
		}

		select {
		case w.events <- event:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// nextDelay doubles the delay up to the cap.
func nextDelay(current, max time.Duration) time.Duration {
	next := current * 2
	if next > max {
		return max
	}
	return next
}

// jitter spreads reconnect attempts over [d/2, d).
func jitter(d time.Duration) time.Duration {
	half := d / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
