package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/roosthq/roost/internal/api"
	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/session"
	"github.com/roosthq/roost/internal/shared"
)

func TestDirectoryService(t *testing.T) {
	t.Run("LoadMatrix seeds assignments per user", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/users":
				json.NewEncoder(w).Encode([]models.User{{ID: "u1", Name: "Ada"}, {ID: "u2", Name: "Grace"}})
			case "/roles":
				json.NewEncoder(w).Encode([]models.Role{{ID: "admin"}, {ID: "editor"}})
			case "/users/u1/roles":
				json.NewEncoder(w).Encode([]models.Role{{ID: "admin"}})
			case "/users/u2/roles":
				json.NewEncoder(w).Encode([]models.Role{})
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer srv.Close()

		store, err := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		client := api.NewClient(shared.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5}, store, shared.NewLogger(nil))
		svc := NewDirectoryService(client)

		matrix, err := svc.LoadMatrix(context.Background())
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		if len(matrix.Users) != 2 || len(matrix.Roles) != 2 {
			t.Errorf("expected 2 users and 2 roles, got %d/%d", len(matrix.Users), len(matrix.Roles))
		}
		if !matrix.Toggle.Has("u1", "admin") {
			t.Error("expected u1 seeded with admin")
		}
		if matrix.Toggle.Has("u1", "editor") || matrix.Toggle.Has("u2", "admin") {
			t.Error("expected unassigned cells off")
		}
	})

	t.Run("role assignment uses relationship endpoints", func(t *testing.T) {
		client, seen := newFakeAPI(t, http.StatusOK, nil)
		svc := NewDirectoryService(client)
		ctx := context.Background()

		svc.AssignRole(ctx, "u1", "admin")
		svc.RemoveRole(ctx, "u1", "admin")

		if (*seen)[0].Method != http.MethodPost || (*seen)[0].Path != "/users/u1/roles" {
			t.Errorf("unexpected assign request: %+v", (*seen)[0])
		}
		if (*seen)[0].Body["roleId"] != "admin" {
			t.Errorf("expected roleId in body, got %v", (*seen)[0].Body)
		}
		if (*seen)[1].Method != http.MethodDelete || (*seen)[1].Path != "/users/u1/roles/admin" {
			t.Errorf("unexpected remove request: %+v", (*seen)[1])
		}
	})
}
