package collection

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ErrCellBusy is returned when a toggle targets a cell whose own request is
// still in flight. Other cells remain toggleable.
var ErrCellBusy = fmt.Errorf("cell request in flight")

// AssignFunc issues an "add" or "remove" relationship request for one
// (subject, capability) pair.
type AssignFunc func(ctx context.Context, subject, capability string) error

// ToggleMatrix represents a many-to-many relationship (for example user x
// role) as per-subject sets of assigned capability IDs, where each cell
// toggles independently through its own network call.
//
// The local set is the source of truth for rendering and changes only after
// the server confirms, so a failed request leaves the cell exactly as it was
// and the toggle can be retried.
type ToggleMatrix struct {
	add      AssignFunc
	remove   AssignFunc
	flashFor time.Duration

	mu       sync.Mutex
	assigned map[string]map[string]struct{}
	inflight map[string]struct{}
	flash    map[string]time.Time
}

// NewToggleMatrix creates a matrix with the given add/remove endpoints. The
// flash window after a successful add defaults to 800ms.
func NewToggleMatrix(add, remove AssignFunc) *ToggleMatrix {
	return &ToggleMatrix{
		add:      add,
		remove:   remove,
		flashFor: 800 * time.Millisecond,
		assigned: make(map[string]map[string]struct{}),
		inflight: make(map[string]struct{}),
		flash:    make(map[string]time.Time),
	}
}

func cellKey(subject, capability string) string {
	return subject + "\x00" + capability
}

// Seed replaces the assigned capability set for a subject, typically from an
// initial matrix fetch.
func (m *ToggleMatrix) Seed(subject string, capabilities []string) {
	set := make(map[string]struct{}, len(capabilities))
	for _, c := range capabilities {
		set[c] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.assigned[subject] = set
}

// Has reports whether the capability is currently assigned to the subject.
func (m *ToggleMatrix) Has(subject, capability string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.assigned[subject][capability]
	return ok
}

// Busy reports whether the cell's own request is in flight.
func (m *ToggleMatrix) Busy(subject, capability string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.inflight[cellKey(subject, capability)]
	return ok
}

// Flashing reports whether the cell is inside its post-assign highlight
// window. Purely presentational.
func (m *ToggleMatrix) Flashing(subject, capability string, now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.flash[cellKey(subject, capability)]
	return ok && now.Sub(at) < m.flashFor
}

// Assigned returns the capabilities currently assigned to the subject.
func (m *ToggleMatrix) Assigned(subject string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.assigned[subject]))
	for c := range m.assigned[subject] {
		out = append(out, c)
	}
	return out
}

// Toggle flips one cell: an assigned capability is removed, an unassigned one
// added. Exactly one request is issued; the local set mutates only on
// success. Returns the resulting assigned state of the cell.
func (m *ToggleMatrix) Toggle(ctx context.Context, subject, capability string) (bool, error) {
	key := cellKey(subject, capability)

	m.mu.Lock()
	if _, busy := m.inflight[key]; busy {
		_, has := m.assigned[subject][capability]
		m.mu.Unlock()
		return has, ErrCellBusy
	}
	_, has := m.assigned[subject][capability]
	m.inflight[key] = struct{}{}
	m.mu.Unlock()

	var err error
	if has {
		err = m.remove(ctx, subject, capability)
	} else {
		err = m.add(ctx, subject, capability)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inflight, key)

	if err != nil {
		return has, err
	}

	if has {
		delete(m.assigned[subject], capability)
		return false, nil
	}

	if m.assigned[subject] == nil {
		m.assigned[subject] = make(map[string]struct{})
	}
	m.assigned[subject][capability] = struct{}{}
	m.flash[key] = time.Now()
	return true, nil
}
