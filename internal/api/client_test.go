package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/session"
	"github.com/roosthq/roost/internal/shared"
	"golang.org/x/oauth2"
)

func newTestStore(t *testing.T) *session.Store {
	t.Helper()
	store, err := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func newTestClient(t *testing.T, baseURL string, store *session.Store) *Client {
	t.Helper()
	cfg := shared.APIConfig{BaseURL: baseURL, TimeoutSeconds: 5}
	return NewClient(cfg, store, shared.NewLogger(nil))
}

func TestClient(t *testing.T) {
	t.Run("Get", func(t *testing.T) {
		t.Run("encodes query parameters and issues one request", func(t *testing.T) {
			requests := 0
			var gotQuery url.Values
			var gotRequestID string

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				requests++
				gotQuery = r.URL.Query()
				gotRequestID = r.Header.Get("X-Request-ID")
				json.NewEncoder(w).Encode([]models.Farm{{ID: "f1", Name: "Sunrise"}})
			}))
			defer srv.Close()

			store := newTestStore(t)
			client := newTestClient(t, srv.URL, store)

			query := url.Values{}
			query.Set("search", "sun")
			query.Set("active", "true")

			var farms []models.Farm
			if err := client.Get(context.Background(), "/farms", query, &farms); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			if requests != 1 {
				t.Errorf("expected exactly one request, got %d", requests)
			}
			if gotQuery.Get("search") != "sun" || gotQuery.Get("active") != "true" {
				t.Errorf("expected query parameters encoded, got %v", gotQuery)
			}
			if gotRequestID == "" {
				t.Error("expected X-Request-ID header")
			}
			if len(farms) != 1 || farms[0].Name != "Sunrise" {
				t.Errorf("expected decoded farm list, got %+v", farms)
			}
		})

		t.Run("attaches bearer token when session is active", func(t *testing.T) {
			var gotAuth string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotAuth = r.Header.Get("Authorization")
				w.Write([]byte(`[]`))
			}))
			defer srv.Close()

			store := newTestStore(t)
			store.Set(&oauth2.Token{AccessToken: "tok-1"}, nil)
			client := newTestClient(t, srv.URL, store)

			var out []models.Farm
			if err := client.Get(context.Background(), "/farms", nil, &out); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if gotAuth != "Bearer tok-1" {
				t.Errorf("expected bearer header, got %q", gotAuth)
			}
		})

		t.Run("surfaces server message on failure", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusConflict)
				w.Write([]byte(`{"message":"farm name already taken"}`))
			}))
			defer srv.Close()

			client := newTestClient(t, srv.URL, newTestStore(t))

			err := client.Get(context.Background(), "/farms", nil, &[]models.Farm{})
			if err == nil {
				t.Fatal("expected error")
			}

			var apiErr *shared.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %T", err)
			}
			if apiErr.Status != http.StatusConflict {
				t.Errorf("expected status 409, got %d", apiErr.Status)
			}
			if apiErr.Message != "farm name already taken" {
				t.Errorf("expected server message, got %q", apiErr.Message)
			}
			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Error("expected error to map to ErrAPIRequest")
			}
		})

		t.Run("maps transport failures to ErrUnreachable", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
			srv.Close() // refuse connections

			client := newTestClient(t, srv.URL, newTestStore(t))
			err := client.Get(context.Background(), "/farms", nil, &[]models.Farm{})
			if !errors.Is(err, shared.ErrUnreachable) {
				t.Errorf("expected ErrUnreachable, got %v", err)
			}
		})
	})

	t.Run("Refresh flow", func(t *testing.T) {
		t.Run("expired token is refreshed once and the request replayed", func(t *testing.T) {
			listCalls := 0
			refreshCalls := 0

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/auth/refresh":
					refreshCalls++
					var body map[string]string
					json.NewDecoder(r.Body).Decode(&body)
					if body["refreshToken"] != "refresh-1" {
						w.WriteHeader(http.StatusUnauthorized)
						return
					}
					json.NewEncoder(w).Encode(map[string]any{"token": "fresh", "expiresIn": 3600})
				case "/chickens":
					listCalls++
					if r.Header.Get("Authorization") != "Bearer fresh" {
						w.WriteHeader(http.StatusUnauthorized)
						w.Write([]byte(`{"message":"token expired"}`))
						return
					}
					json.NewEncoder(w).Encode([]models.Chicken{{ID: "c1", Tag: "A-001"}})
				default:
					w.WriteHeader(http.StatusNotFound)
				}
			}))
			defer srv.Close()

			store := newTestStore(t)
			store.Set(&oauth2.Token{AccessToken: "stale", RefreshToken: "refresh-1"}, nil)
			client := newTestClient(t, srv.URL, store)

			var chickens []models.Chicken
			if err := client.Get(context.Background(), "/chickens", nil, &chickens); err != nil {
				t.Fatalf("expected success after refresh, got %v", err)
			}

			if refreshCalls != 1 {
				t.Errorf("expected exactly one refresh call, got %d", refreshCalls)
			}
			if listCalls != 2 {
				t.Errorf("expected original request plus one replay, got %d", listCalls)
			}
			if store.AccessToken() != "fresh" {
				t.Errorf("expected refreshed token persisted, got %q", store.AccessToken())
			}
			if len(chickens) != 1 {
				t.Errorf("expected chicken list, got %+v", chickens)
			}
			// Refresh keeps the old refresh token when the server omits one.
			if store.RefreshToken() != "refresh-1" {
				t.Errorf("expected refresh token retained, got %q", store.RefreshToken())
			}
		})

		t.Run("request rejected on both attempts refreshes only once", func(t *testing.T) {
			listCalls := 0
			refreshCalls := 0

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/auth/refresh":
					refreshCalls++
					json.NewEncoder(w).Encode(map[string]any{"token": "fresh", "expiresIn": 3600})
				case "/chickens":
					// The server rejects even the refreshed token.
					listCalls++
					w.WriteHeader(http.StatusUnauthorized)
					w.Write([]byte(`{"message":"account suspended"}`))
				}
			}))
			defer srv.Close()

			store := newTestStore(t)
			store.Set(&oauth2.Token{AccessToken: "stale", RefreshToken: "refresh-1"}, nil)
			client := newTestClient(t, srv.URL, store)

			err := client.Get(context.Background(), "/chickens", nil, &[]models.Chicken{})
			if !errors.Is(err, shared.ErrTokenExpired) {
				t.Errorf("expected ErrTokenExpired, got %v", err)
			}
			if refreshCalls != 1 {
				t.Errorf("expected at most one refresh call, got %d", refreshCalls)
			}
			if listCalls != 2 {
				t.Errorf("expected original request plus one replay, got %d", listCalls)
			}
		})

		t.Run("failed refresh clears the session and does not replay", func(t *testing.T) {
			listCalls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				switch r.URL.Path {
				case "/auth/refresh":
					w.WriteHeader(http.StatusUnauthorized)
				case "/chickens":
					listCalls++
					w.WriteHeader(http.StatusUnauthorized)
					w.Write([]byte(`{"message":"token expired"}`))
				}
			}))
			defer srv.Close()

			store := newTestStore(t)
			store.Set(&oauth2.Token{AccessToken: "stale", RefreshToken: "bad"}, nil)
			client := newTestClient(t, srv.URL, store)

			err := client.Get(context.Background(), "/chickens", nil, &[]models.Chicken{})
			if !errors.Is(err, shared.ErrTokenExpired) {
				t.Errorf("expected ErrTokenExpired, got %v", err)
			}
			if listCalls != 1 {
				t.Errorf("expected zero replays after failed refresh, got %d calls", listCalls)
			}
			if store.Authenticated() {
				t.Error("expected session cleared after failed refresh")
			}
		})

		t.Run("401 without a refresh token clears the session", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			}))
			defer srv.Close()

			store := newTestStore(t)
			store.Set(&oauth2.Token{AccessToken: "stale"}, nil)
			client := newTestClient(t, srv.URL, store)

			err := client.Get(context.Background(), "/chickens", nil, &[]models.Chicken{})
			if err == nil {
				t.Fatal("expected error")
			}
			if store.Authenticated() {
				t.Error("expected session cleared")
			}
		})
	})

	t.Run("Login", func(t *testing.T) {
		t.Run("persists token and profile on success", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/auth/login" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				json.NewEncoder(w).Encode(map[string]any{
					"token":        "tok",
					"refreshToken": "ref",
					"expiresIn":    3600,
					"user":         models.Profile{ID: "u1", Name: "Ada", Email: "ada@example.com"},
				})
			}))
			defer srv.Close()

			store := newTestStore(t)
			client := newTestClient(t, srv.URL, store)

			profile, err := client.Login(context.Background(), "ada@example.com", "hunter2")
			if err != nil {
				t.Fatalf("expected login success, got %v", err)
			}
			if profile == nil || profile.ID != "u1" {
				t.Errorf("expected profile returned, got %+v", profile)
			}
			if !store.Authenticated() {
				t.Error("expected active session")
			}
			if store.RefreshToken() != "ref" {
				t.Errorf("expected refresh token stored, got %q", store.RefreshToken())
			}
		})

		t.Run("rejected credentials surface ErrAuthFailed", func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"bad credentials"}`))
			}))
			defer srv.Close()

			store := newTestStore(t)
			client := newTestClient(t, srv.URL, store)

			if _, err := client.Login(context.Background(), "x@example.com", "nope"); !errors.Is(err, shared.ErrAuthFailed) {
				t.Errorf("expected ErrAuthFailed, got %v", err)
			}
			if store.Authenticated() {
				t.Error("expected no session after failed login")
			}
		})
	})
}
