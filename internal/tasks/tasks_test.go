package tasks

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/roosthq/roost/internal/models"
	"github.com/roosthq/roost/internal/shared"
)

// fakeAPI answers Get calls from a fixed path → data map and fails the rest.
type fakeAPI struct {
	data  map[string]any
	calls []string
}

func (f *fakeAPI) Get(ctx context.Context, path string, query url.Values, out any) error {
	f.calls = append(f.calls, path)
	data, ok := f.data[path]
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrAPIRequest, path)
	}
	*(out.(*any)) = data
	return nil
}

// fakeRoster serves canned farms and records created birds.
type fakeRoster struct {
	mu       sync.Mutex
	farms    map[string]*models.Farm
	chickens map[string][]models.Chicken
	created  []map[string]any
	failTags map[string]bool
}

func (f *fakeRoster) Farm(ctx context.Context, id string) (*models.Farm, error) {
	farm, ok := f.farms[id]
	if !ok {
		return nil, fmt.Errorf("%w: farm %s", shared.ErrNotFound, id)
	}
	return farm, nil
}

func (f *fakeRoster) Facilities(ctx context.Context, query url.Values) ([]models.Facility, error) {
	return []models.Facility{{ID: "fac-1", FarmID: query.Get("farmId"), Name: "Coop"}}, nil
}

func (f *fakeRoster) Chickens(ctx context.Context, query url.Values) ([]models.Chicken, error) {
	return f.chickens[query.Get("farmId")], nil
}

func (f *fakeRoster) CreateChicken(ctx context.Context, payload map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tag, _ := payload["tag"].(string); f.failTags[tag] {
		return fmt.Errorf("%w: duplicate tag %s", shared.ErrAPIRequest, tag)
	}
	f.created = append(f.created, payload)
	return nil
}

func TestDump(t *testing.T) {
	t.Run("collects every endpoint and records failures", func(t *testing.T) {
		api := &fakeAPI{data: map[string]any{
			"/farms":         []any{map[string]any{"id": "farm-1"}},
			"/facilities":    []any{},
			"/chickens":      []any{},
			"/users":         []any{},
			"/roles":         []any{},
			"/presentations": []any{},
			"/media":         []any{},
			"/playlists":     []any{},
			"/templates":     []any{},
			// /streams intentionally missing
		}}
		engine := NewEngine(nil, api)

		result, err := engine.Dump(context.Background(), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(api.calls) != 10 {
			t.Errorf("expected 10 endpoint calls, got %d", len(api.calls))
		}
		if result.Farms == nil {
			t.Error("expected farms data to be populated")
		}
		if len(result.Errors) != 1 {
			t.Fatalf("expected 1 failed endpoint, got %d", len(result.Errors))
		}
		if result.Errors[0].Endpoint != "/streams" {
			t.Errorf("unexpected failed endpoint: %s", result.Errors[0].Endpoint)
		}
	})

	t.Run("serializable form carries errors as strings", func(t *testing.T) {
		result := &DumpResult{
			Farms:  []any{"x"},
			Errors: []EndpointResult{{Endpoint: "/streams", Error: fmt.Errorf("boom")}},
		}
		data := result.Data()
		if len(data.Errors) != 1 || !strings.Contains(data.Errors[0], "/streams") {
			t.Errorf("unexpected serialized errors: %v", data.Errors)
		}
	})

	t.Run("requires an API client", func(t *testing.T) {
		engine := NewEngine(&fakeRoster{}, nil)
		if _, err := engine.Dump(context.Background(), nil); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("progress updates are emitted per endpoint", func(t *testing.T) {
		api := &fakeAPI{data: map[string]any{}}
		engine := NewEngine(nil, api)

		progress := make(chan ProgressUpdate, 32)
		if _, err := engine.Dump(context.Background(), progress); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		close(progress)

		count := 0
		for range progress {
			count++
		}
		if count != 10 {
			t.Errorf("expected 10 progress updates, got %d", count)
		}
	})
}

func TestBulkExport(t *testing.T) {
	newRoster := func() *fakeRoster {
		return &fakeRoster{
			farms: map[string]*models.Farm{
				"farm-1": {ID: "farm-1", Name: "Sunrise Acres"},
				"farm-2": {ID: "farm-2", Name: "Hilltop"},
			},
			chickens: map[string][]models.Chicken{
				"farm-1": {{ID: "ch-1", Tag: "R-001", WeightKg: 2.1}},
				"farm-2": {{ID: "ch-2", Tag: "H-001", WeightKg: 1.8}},
			},
		}
	}

	t.Run("exports each farm to JSON and writes a manifest", func(t *testing.T) {
		dir := t.TempDir()
		engine := NewEngine(newRoster(), nil)

		result, err := engine.BulkExport(context.Background(), nil, []string{"farm-1", "farm-2"}, BulkExportOpts{
			Format:    "json",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.SuccessfulExports != 2 || result.FailedExports != 0 {
			t.Errorf("unexpected counts: %+v", result)
		}
		for _, name := range []string{"farm-1.json", "farm-2.json", "export_manifest.json"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
				t.Errorf("expected %s to exist: %v", name, err)
			}
		}
	})

	t.Run("a missing farm is a partial failure", func(t *testing.T) {
		dir := t.TempDir()
		engine := NewEngine(newRoster(), nil)

		result, err := engine.BulkExport(context.Background(), nil, []string{"farm-1", "ghost"}, BulkExportOpts{
			Format:    "csv",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.SuccessfulExports != 1 || result.FailedExports != 1 {
			t.Errorf("unexpected counts: success=%d failed=%d", result.SuccessfulExports, result.FailedExports)
		}

		var failed *FarmExportResult
		for i := range result.Results {
			if !result.Results[i].Success {
				failed = &result.Results[i]
			}
		}
		if failed == nil || failed.FarmID != "ghost" {
			t.Errorf("expected ghost to fail, got %+v", result.Results)
		}
	})

	t.Run("csv format produces roster and metadata files", func(t *testing.T) {
		dir := t.TempDir()
		engine := NewEngine(newRoster(), nil)

		result, err := engine.BulkExport(context.Background(), nil, []string{"farm-1"}, BulkExportOpts{
			Format:    "csv",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Results) != 1 || len(result.Results[0].Files) != 2 {
			t.Fatalf("expected 2 files, got %+v", result.Results)
		}

		data, err := os.ReadFile(filepath.Join(dir, "farm-1_birds.csv"))
		if err != nil {
			t.Fatalf("birds file missing: %v", err)
		}
		if !strings.Contains(string(data), "R-001") {
			t.Errorf("roster missing bird: %s", data)
		}
	})

	t.Run("requires a roster service", func(t *testing.T) {
		engine := NewEngine(nil, nil)
		if _, err := engine.BulkExport(context.Background(), nil, []string{"x"}, BulkExportOpts{}); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestBulkImport(t *testing.T) {
	const roster = "ID,Tag,Breed,Sex,WeightKg,FacilityID,HatchedAt,Healthy\n" +
		",R-001,Rhode Island Red,hen,2.4,fac-1,2025-03-14T00:00:00Z,true\n" +
		",R-002,Leghorn,hen,1.9,,,true\n" +
		",R-003,Sussex,rooster,3.1,,,false\n"

	t.Run("creates every bird with the farm attached", func(t *testing.T) {
		fake := &fakeRoster{farms: map[string]*models.Farm{}}
		engine := NewEngine(fake, nil)

		result, err := engine.BulkImport(context.Background(), nil, "farm-1", strings.NewReader(roster), BulkImportOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Created != 3 || result.Failed != 0 {
			t.Errorf("unexpected counts: %+v", result)
		}
		if len(fake.created) != 3 {
			t.Fatalf("expected 3 creations, got %d", len(fake.created))
		}

		byTag := map[string]map[string]any{}
		for _, p := range fake.created {
			byTag[p["tag"].(string)] = p
		}
		first := byTag["R-001"]
		if first["farmId"] != "farm-1" {
			t.Errorf("expected farmId on payload, got %v", first)
		}
		if first["weightKg"] != 2.4 || first["facilityId"] != "fac-1" {
			t.Errorf("unexpected payload: %v", first)
		}
		if _, ok := byTag["R-002"]["facilityId"]; ok {
			t.Error("expected empty facility to be omitted")
		}
	})

	t.Run("creation failures are partial", func(t *testing.T) {
		fake := &fakeRoster{failTags: map[string]bool{"R-002": true}}
		engine := NewEngine(fake, nil)

		result, err := engine.BulkImport(context.Background(), nil, "farm-1", strings.NewReader(roster), BulkImportOpts{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if result.Created != 2 || result.Failed != 1 {
			t.Errorf("unexpected counts: %+v", result)
		}
		if len(result.Failures) != 1 || result.Failures[0].Tag != "R-002" {
			t.Errorf("unexpected failures: %+v", result.Failures)
		}
	})

	t.Run("a CSV error aborts before any writes", func(t *testing.T) {
		fake := &fakeRoster{}
		engine := NewEngine(fake, nil)

		_, err := engine.BulkImport(context.Background(), nil, "farm-1", strings.NewReader("not,a,roster\n"), BulkImportOpts{})
		if err == nil {
			t.Fatal("expected an error")
		}
		if len(fake.created) != 0 {
			t.Errorf("expected no creations, got %d", len(fake.created))
		}
	})

	t.Run("requires a farm id", func(t *testing.T) {
		engine := NewEngine(&fakeRoster{}, nil)
		if _, err := engine.BulkImport(context.Background(), nil, "", strings.NewReader(roster), BulkImportOpts{}); err == nil {
			t.Fatal("expected an error")
		}
	})
}
