package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/shared"
)

func playlistItems(ids ...string) []models.PlaylistItem {
	items := make([]models.PlaylistItem, len(ids))
	for i, id := range ids {
		items[i] = models.PlaylistItem{ID: id, Position: i}
	}
	return items
}

func TestReorder(t *testing.T) {
	ordered := func(items []models.PlaylistItem) []string {
		ids := make([]string, len(items))
		for i, item := range items {
			ids[i] = item.ID
			if item.Position != i {
				t.Errorf("expected position %d renumbered, got %d", i, item.Position)
			}
		}
		return ids
	}

	t.Run("moves an item forward", func(t *testing.T) {
		out, err := Reorder(playlistItems("a", "b", "c", "d"), 0, 2)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		got := ordered(out)
		want := []string{"b", "c", "a", "d"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	})

	t.Run("moves an item backward", func(t *testing.T) {
		out, err := Reorder(playlistItems("a", "b", "c", "d"), 3, 1)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		got := ordered(out)
		want := []string{"a", "d", "b", "c"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, got)
			}
		}
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		in := playlistItems("a", "b", "c")
		if _, err := Reorder(in, 0, 2); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if in[0].ID != "a" || in[1].ID != "b" || in[2].ID != "c" {
			t.Errorf("expected input untouched, got %+v", in)
		}
	})

	t.Run("rejects out of range moves", func(t *testing.T) {
		if _, err := Reorder(playlistItems("a"), 0, 5); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if _, err := Reorder(playlistItems("a"), -1, 0); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestStudioService(t *testing.T) {
	t.Run("MoveItem persists the spliced order", func(t *testing.T) {
		client, seen := newFakeAPI(t, http.StatusOK, nil)
		svc := NewStudioService(client)

		playlist := &models.Playlist{ID: "p1", Items: playlistItems("a", "b", "c")}
		if err := svc.MoveItem(context.Background(), playlist, 2, 0); err != nil {
			t.Fatalf("expected success, got %v", err)
		}

		req := (*seen)[0]
		if req.Method != http.MethodPut || req.Path != "/playlists/p1/items" {
			t.Errorf("expected PUT /playlists/p1/items, got %s %s", req.Method, req.Path)
		}

		ids, ok := req.Body["itemIds"].([]any)
		if !ok || len(ids) != 3 {
			t.Fatalf("expected itemIds payload, got %v", req.Body)
		}
		want := []string{"c", "a", "b"}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("expected order %v, got %v", want, ids)
			}
		}
	})

	t.Run("RateTemplate validates the rating locally", func(t *testing.T) {
		client, seen := newFakeAPI(t, http.StatusOK, nil)
		svc := NewStudioService(client)

		if err := svc.RateTemplate(context.Background(), "t1", 9); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
		if len(*seen) != 0 {
			t.Errorf("expected no request for invalid rating, got %d", len(*seen))
		}

		if err := svc.RateTemplate(context.Background(), "t1", 4); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		req := (*seen)[0]
		if req.Path != "/templates/t1/rate" || req.Body["rating"] != 4.0 {
			t.Errorf("unexpected rate request: %+v", req)
		}
	})

	t.Run("marketplace actions hit their endpoints", func(t *testing.T) {
		client, seen := newFakeAPI(t, http.StatusOK, map[string]any{"name": "Easter"})
		svc := NewStudioService(client)
		ctx := context.Background()

		svc.LikeTemplate(ctx, "t1")
		doc, err := svc.DownloadTemplate(ctx, "t1")
		if err != nil {
			t.Fatalf("download failed: %v", err)
		}
		if doc["name"] != "Easter" {
			t.Errorf("expected template document, got %v", doc)
		}

		if (*seen)[0].Path != "/templates/t1/like" {
			t.Errorf("unexpected like request: %+v", (*seen)[0])
		}
		if (*seen)[1].Path != "/templates/t1/download" {
			t.Errorf("unexpected download request: %+v", (*seen)[1])
		}
	})

	t.Run("stream control uses start/stop endpoints", func(t *testing.T) {
		client, seen := newFakeAPI(t, http.StatusOK, nil)
		svc := NewStudioService(client)
		ctx := context.Background()

		svc.StartStream(ctx, "s1")
		svc.StopStream(ctx, "s1")

		if (*seen)[0].Path != "/streams/s1/start" || (*seen)[1].Path != "/streams/s1/stop" {
			t.Errorf("unexpected stream requests: %+v", *seen)
		}
	})
}
