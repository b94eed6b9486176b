package collection

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/roosthq/roost/internal/shared"
)

func TestMutator(t *testing.T) {
	fields := []Field{
		{Name: "name", Required: true},
		{Name: "capacity", Numeric: true},
		{Name: "location"},
	}

	t.Run("Submit", func(t *testing.T) {
		t.Run("valid draft issues one write then one resync load", func(t *testing.T) {
			writes := 0
			loads := 0
			var gotPayload map[string]any

			owner := NewController(func(ctx context.Context, query url.Values) ([]string, error) {
				loads++
				return []string{"fresh"}, nil
			})
			m := NewMutator(owner, fields, func(ctx context.Context, payload map[string]any) error {
				writes++
				gotPayload = payload
				return nil
			}, nil, nil)

			err := m.Submit(context.Background(), map[string]string{
				"name":     "Sunrise Coop",
				"capacity": "120",
				"location": "",
			})
			if err != nil {
				t.Fatalf("expected success, got %v", err)
			}

			if writes != 1 {
				t.Errorf("expected exactly one write, got %d", writes)
			}
			if loads != 1 {
				t.Errorf("expected exactly one resync load, got %d", loads)
			}
			if gotPayload["name"] != "Sunrise Coop" {
				t.Errorf("expected name in payload, got %v", gotPayload)
			}
			if gotPayload["capacity"] != 120.0 {
				t.Errorf("expected numeric coercion, got %v (%T)", gotPayload["capacity"], gotPayload["capacity"])
			}
			if _, ok := gotPayload["location"]; ok {
				t.Error("expected empty optional field omitted")
			}
		})

		t.Run("missing required field blocks before any network call", func(t *testing.T) {
			writes := 0
			loads := 0
			owner := NewController(func(ctx context.Context, query url.Values) ([]string, error) {
				loads++
				return nil, nil
			})
			m := NewMutator(owner, fields, func(ctx context.Context, payload map[string]any) error {
				writes++
				return nil
			}, nil, nil)

			err := m.Submit(context.Background(), map[string]string{"name": "   "})

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != "name" {
				t.Errorf("expected offending field named, got %q", verr.Field)
			}
			if !errors.Is(err, shared.ErrValidation) {
				t.Error("expected error to wrap ErrValidation")
			}
			if writes != 0 || loads != 0 {
				t.Errorf("expected zero network requests, got %d writes %d loads", writes, loads)
			}
		})

		t.Run("malformed number blocks submission", func(t *testing.T) {
			m := NewMutator(nil, fields, func(ctx context.Context, payload map[string]any) error {
				t.Fatal("submit must not be called")
				return nil
			}, nil, nil)

			err := m.Submit(context.Background(), map[string]string{
				"name":     "Coop",
				"capacity": "lots",
			})

			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != "capacity" {
				t.Fatalf("expected capacity validation error, got %v", err)
			}
		})

		t.Run("server failure propagates and skips resync", func(t *testing.T) {
			loads := 0
			boom := errors.New("boom")
			owner := NewController(func(ctx context.Context, query url.Values) ([]string, error) {
				loads++
				return nil, nil
			})
			m := NewMutator(owner, fields, func(ctx context.Context, payload map[string]any) error {
				return boom
			}, nil, nil)

			if err := m.Submit(context.Background(), map[string]string{"name": "Coop"}); !errors.Is(err, boom) {
				t.Fatalf("expected server error, got %v", err)
			}
			if loads != 0 {
				t.Errorf("expected no resync after failed write, got %d", loads)
			}
		})
	})

	t.Run("Remove", func(t *testing.T) {
		t.Run("deletes then resyncs", func(t *testing.T) {
			removed := ""
			loads := 0
			owner := NewController(func(ctx context.Context, query url.Values) ([]string, error) {
				loads++
				return nil, nil
			})
			m := NewMutator(owner, fields, nil, func(ctx context.Context, id string) error {
				removed = id
				return nil
			}, nil)

			if err := m.Remove(context.Background(), "farm-9"); err != nil {
				t.Fatalf("expected success, got %v", err)
			}
			if removed != "farm-9" {
				t.Errorf("expected delete for farm-9, got %q", removed)
			}
			if loads != 1 {
				t.Errorf("expected one resync load, got %d", loads)
			}
		})

		t.Run("declined confirmation issues no request", func(t *testing.T) {
			m := NewMutator(nil, fields, nil, func(ctx context.Context, id string) error {
				t.Fatal("remove must not be called")
				return nil
			}, func(prompt string) bool { return false })

			if err := m.Remove(context.Background(), "farm-9"); !errors.Is(err, ErrDeclined) {
				t.Errorf("expected ErrDeclined, got %v", err)
			}
		})

		t.Run("empty id is a validation error", func(t *testing.T) {
			m := NewMutator(nil, fields, nil, func(ctx context.Context, id string) error { return nil }, nil)
			if err := m.Remove(context.Background(), ""); !errors.Is(err, shared.ErrValidation) {
				t.Errorf("expected validation error, got %v", err)
			}
		})
	})
}
