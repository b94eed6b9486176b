package collection

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/roosthq/roost/internal/shared"
)

// ErrDeclined is returned by [Mutator.Remove] when the destructive-action
// guard rejects the operation. No request is issued.
var ErrDeclined = fmt.Errorf("removal declined")

// Field describes one draft field of a mutation dialog.
type Field struct {
	Name     string
	Required bool
	Numeric  bool
}

// ValidationError reports a draft field that failed local validation. It
// wraps [shared.ErrValidation] and is surfaced inline, never sent to the
// server.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return shared.ErrValidation }

// SubmitFunc performs the write request for a validated payload.
type SubmitFunc func(ctx context.Context, payload map[string]any) error

// RemoveFunc performs a delete request for a single record.
type RemoveFunc func(ctx context.Context, id string) error

// ConfirmFunc guards destructive actions. Returning false aborts the
// operation before any request is issued.
type ConfirmFunc func(prompt string) bool

// Resyncer is the part of a [Controller] a mutation needs: re-fetching the
// collection after a successful write.
type Resyncer interface {
	Load(ctx context.Context) error
}

// Mutator performs create/update/delete operations against a single remote
// resource and brings the owning collection back into agreement with the
// server afterwards.
//
// Overlapping mutations are not serialized; when two resyncs race, the
// controller's sequence policy decides which response is displayed.
type Mutator struct {
	fields  []Field
	submit  SubmitFunc
	remove  RemoveFunc
	confirm ConfirmFunc
	owner   Resyncer
}

// NewMutator creates a mutator for the given field schema and endpoints.
// confirm may be nil, disabling the destructive-action guard.
func NewMutator(owner Resyncer, fields []Field, submit SubmitFunc, remove RemoveFunc, confirm ConfirmFunc) *Mutator {
	return &Mutator{fields: fields, submit: submit, remove: remove, confirm: confirm, owner: owner}
}

// Submit validates the draft, issues exactly one write request, and on
// success re-loads the owning collection. A validation failure returns a
// [ValidationError] before any network traffic.
func (m *Mutator) Submit(ctx context.Context, draft map[string]string) error {
	payload, err := BuildPayload(m.fields, draft)
	if err != nil {
		return err
	}

	if err := m.submit(ctx, payload); err != nil {
		return err
	}

	return m.resync(ctx)
}

// Remove deletes a record after the optional confirmation guard, then
// re-loads the owning collection.
func (m *Mutator) Remove(ctx context.Context, id string) error {
	if id == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if m.confirm != nil && !m.confirm(fmt.Sprintf("delete %s?", id)) {
		return ErrDeclined
	}

	if err := m.remove(ctx, id); err != nil {
		return err
	}

	return m.resync(ctx)
}

func (m *Mutator) resync(ctx context.Context) error {
	if m.owner == nil {
		return nil
	}
	if err := m.owner.Load(ctx); err != nil && err != shared.ErrStale {
		return fmt.Errorf("resync failed: %w", err)
	}
	return nil
}

// BuildPayload validates draft values against the field schema and coerces
// numeric fields. Unknown draft keys pass through untouched as strings.
func BuildPayload(fields []Field, draft map[string]string) (map[string]any, error) {
	payload := make(map[string]any, len(draft))
	known := make(map[string]bool, len(fields))

	for _, f := range fields {
		known[f.Name] = true
		raw, ok := draft[f.Name]
		raw = strings.TrimSpace(raw)

		if f.Required && (!ok || raw == "") {
			return nil, &ValidationError{Field: f.Name, Reason: "required"}
		}
		if !ok || raw == "" {
			continue
		}

		if f.Numeric {
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, &ValidationError{Field: f.Name, Reason: "must be a number"}
			}
			payload[f.Name] = n
			continue
		}
		payload[f.Name] = raw
	}

	for k, v := range draft {
		if !known[k] && strings.TrimSpace(v) != "" {
			payload[k] = v
		}
	}

	return payload, nil
}
