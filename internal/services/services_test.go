package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/roosthq/roost/internal/api"
	"github.com/roosthq/roost/internal/session"
	"github.com/roosthq/roost/internal/shared"
)

// recordedRequest captures one request the fake API saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// newFakeAPI starts an httptest server that answers every request with the
// given body and records what it saw.
func newFakeAPI(t *testing.T, status int, body any) (*api.Client, *[]recordedRequest) {
	t.Helper()

	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		if r.Body != nil {
			var decoded map[string]any
			if err := json.NewDecoder(r.Body).Decode(&decoded); err == nil {
				rec.Body = decoded
			}
		}
		seen = append(seen, rec)

		w.WriteHeader(status)
		if body != nil {
			json.NewEncoder(w).Encode(body)
		}
	}))
	t.Cleanup(srv.Close)

	store, err := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	client := api.NewClient(shared.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5}, store, shared.NewLogger(nil))
	return client, &seen
}
