package services

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/roosthq/roost/internal/models"
)

func TestFarmService(t *testing.T) {
	t.Run("Farms encodes filters and decodes the list", func(t *testing.T) {
		client, seen := newFakeAPI(t, http.StatusOK, []models.Farm{
			{ID: "f1", Name: "Sunrise", Location: "Conakry"},
		})
		svc := NewFarmService(client)

		query := url.Values{}
		query.Set("search", "sun")

		farms, err := svc.Farms(context.Background(), query)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(farms) != 1 || farms[0].Name != "Sunrise" {
			t.Errorf("expected decoded farms, got %+v", farms)
		}

		req := (*seen)[0]
		if req.Method != http.MethodGet || req.Path != "/farms" {
			t.Errorf("expected GET /farms, got %s %s", req.Method, req.Path)
		}
		if req.Query != "search=sun" {
			t.Errorf("expected search filter encoded, got %q", req.Query)
		}
	})

	t.Run("CRUD hits the conventional endpoints", func(t *testing.T) {
		client, seen := newFakeAPI(t, http.StatusOK, map[string]string{"id": "f1"})
		svc := NewFarmService(client)
		ctx := context.Background()

		svc.CreateFarm(ctx, map[string]any{"name": "Sunrise"})
		svc.UpdateFarm(ctx, "f1", map[string]any{"name": "Sunset"})
		svc.DeleteFarm(ctx, "f1")

		want := []struct{ method, path string }{
			{http.MethodPost, "/farms"},
			{http.MethodPut, "/farms/f1"},
			{http.MethodDelete, "/farms/f1"},
		}
		if len(*seen) != len(want) {
			t.Fatalf("expected %d requests, got %d", len(want), len(*seen))
		}
		for i, w := range want {
			got := (*seen)[i]
			if got.Method != w.method || got.Path != w.path {
				t.Errorf("request %d: expected %s %s, got %s %s", i, w.method, w.path, got.Method, got.Path)
			}
		}

		if (*seen)[0].Body["name"] != "Sunrise" {
			t.Errorf("expected create payload forwarded, got %v", (*seen)[0].Body)
		}
	})

	t.Run("facility user assignment uses relationship endpoints", func(t *testing.T) {
		client, seen := newFakeAPI(t, http.StatusOK, nil)
		svc := NewFarmService(client)
		ctx := context.Background()

		svc.AssignFacilityUser(ctx, "fac1", "u1")
		svc.RemoveFacilityUser(ctx, "fac1", "u1")

		if (*seen)[0].Path != "/facilities/fac1/users" || (*seen)[0].Method != http.MethodPost {
			t.Errorf("unexpected assign request: %+v", (*seen)[0])
		}
		if (*seen)[0].Body["userId"] != "u1" {
			t.Errorf("expected userId in assign body, got %v", (*seen)[0].Body)
		}
		if (*seen)[1].Path != "/facilities/fac1/users/u1" || (*seen)[1].Method != http.MethodDelete {
			t.Errorf("unexpected remove request: %+v", (*seen)[1])
		}
	})

	t.Run("ChickenController loads through the chickens endpoint", func(t *testing.T) {
		client, seen := newFakeAPI(t, http.StatusOK, []models.Chicken{{ID: "c1", Tag: "A-001"}})
		svc := NewFarmService(client)

		ctrl := svc.ChickenController()
		ctrl.SetFilter("farmId", "f1")
		if err := ctrl.Load(context.Background()); err != nil {
			t.Fatalf("load failed: %v", err)
		}

		snap := ctrl.Snapshot()
		if len(snap.Items) != 1 || snap.Items[0].Tag != "A-001" {
			t.Errorf("expected chicken applied, got %+v", snap.Items)
		}
		if (*seen)[0].Path != "/chickens" || (*seen)[0].Query != "farmId=f1" {
			t.Errorf("unexpected request: %+v", (*seen)[0])
		}
	})
}
