package repositories

import (
	"database/sql"
	"encoding/json"
	"net/url"
	"testing"
	"time"

	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestSnapshotRepository(t *testing.T) {
	farms := []models.Farm{{ID: "f1", Name: "Sunrise"}, {ID: "f2", Name: "Sunset"}}

	t.Run("Save and Get round trip", func(t *testing.T) {
		repo := NewSnapshotRepository(newTestDB(t))

		query := url.Values{}
		query.Set("search", "sun")

		if err := repo.Save("farms", query, farms, len(farms)); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		snap, err := repo.Get("farms", query)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if snap == nil {
			t.Fatal("expected snapshot")
		}
		if snap.ItemCount != 2 {
			t.Errorf("expected item count 2, got %d", snap.ItemCount)
		}

		var decoded []models.Farm
		if err := json.Unmarshal(snap.Body, &decoded); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if len(decoded) != 2 || decoded[0].Name != "Sunrise" {
			t.Errorf("expected farms preserved, got %+v", decoded)
		}
	})

	t.Run("Save replaces the previous snapshot wholesale", func(t *testing.T) {
		repo := NewSnapshotRepository(newTestDB(t))

		repo.Save("farms", nil, farms, 2)
		repo.Save("farms", nil, farms[:1], 1)

		snap, err := repo.Get("farms", nil)
		if err != nil || snap == nil {
			t.Fatalf("get failed: %v", err)
		}
		if snap.ItemCount != 1 {
			t.Errorf("expected replacement snapshot, got count %d", snap.ItemCount)
		}
	})

	t.Run("Get with no snapshot returns nil", func(t *testing.T) {
		repo := NewSnapshotRepository(newTestDB(t))
		snap, err := repo.Get("chickens", nil)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if snap != nil {
			t.Errorf("expected nil, got %+v", snap)
		}
	})

	t.Run("distinct queries cache separately", func(t *testing.T) {
		repo := NewSnapshotRepository(newTestDB(t))

		q1 := url.Values{"farmId": {"f1"}}
		q2 := url.Values{"farmId": {"f2"}}
		repo.Save("chickens", q1, []models.Chicken{{ID: "c1"}}, 1)
		repo.Save("chickens", q2, []models.Chicken{{ID: "c2"}, {ID: "c3"}}, 2)

		snaps, err := repo.List()
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(snaps) != 2 {
			t.Errorf("expected two snapshots, got %d", len(snaps))
		}
	})

	t.Run("Prune removes stale snapshots", func(t *testing.T) {
		repo := NewSnapshotRepository(newTestDB(t))
		repo.Save("farms", nil, farms, 2)

		pruned, err := repo.Prune(time.Now().Add(time.Hour))
		if err != nil {
			t.Fatalf("prune failed: %v", err)
		}
		if pruned != 1 {
			t.Errorf("expected one row pruned, got %d", pruned)
		}

		snap, _ := repo.Get("farms", nil)
		if snap != nil {
			t.Error("expected snapshot removed")
		}
	})
}
