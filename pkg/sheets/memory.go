package sheets

import (
	"context"
	"fmt"
	"sync"
)

// CellUpdate records one write applied to a MemoryStore.
type CellUpdate struct {
	Row   int
	Col   int
	Value string
}

// MemoryStore is an in-memory Store used by tests. It applies cell
// updates to its backing grid so subsequent snapshots observe them, and
// keeps a trace of every write.
type MemoryStore struct {
	mu      sync.Mutex
	headers []string
	cells   [][]string

	SnapshotErr error
	UpdateErr   error
	Updates     []CellUpdate
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore seeds a store with a raw header row and data rows.
func NewMemoryStore(headers []string, rows ...[]string) *MemoryStore {
	m := &MemoryStore{headers: append([]string(nil), headers...)}
	for _, row := range rows {
		m.cells = append(m.cells, append([]string(nil), row...))
	}
	return m
}

func (m *MemoryStore) Snapshot(ctx context.Context) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SnapshotErr != nil {
		return nil, m.SnapshotErr
	}
	rows := make([][]string, len(m.cells))
	for i, row := range m.cells {
		rows[i] = append([]string(nil), row...)
	}
	return NewTable(m.headers, rows), nil
}

func (m *MemoryStore) UpdateCell(ctx context.Context, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	i := row - 2
	if i < 0 || i >= len(m.cells) || col < 1 || col > len(m.headers) {
		return fmt.Errorf("cell (%d,%d) out of range", row, col)
	}
	for len(m.cells[i]) < col {
		m.cells[i] = append(m.cells[i], "")
	}
	m.cells[i][col-1] = value
	m.Updates = append(m.Updates, CellUpdate{Row: row, Col: col, Value: value})
	return nil
}

// Cell returns the stored value at the 1-based sheet address.
func (m *MemoryStore) Cell(row, col int) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := row - 2
	if i < 0 || i >= len(m.cells) || col < 1 || col > len(m.cells[i]) {
		return ""
	}
	return m.cells[i][col-1]
}
