// Package state provides an in-memory contract state provider.
//
// Memory stands in for the validation engine in tests and tools: it records,
// per global field, the ordered values an engine would have accepted, and the
// interface those values were validated against.
package state

import (
	"sort"
	"sync"

	"xdao.co/iface/iface"
	"xdao.co/iface/types"
)

// Memory is a concurrency-safe iface.ContractState.
type Memory struct {
	mu      sync.RWMutex
	id      iface.ID
	globals map[string][]types.Value
}

var _ iface.ContractState = (*Memory)(nil)

// New returns an empty state validated against the interface id.
func New(id iface.ID) *Memory {
	return &Memory{id: id, globals: make(map[string][]types.Value)}
}

func (m *Memory) IfaceID() iface.ID { return m.id }

// Global returns a copy of the values bound to field.
func (m *Memory) Global(field string) ([]types.Value, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	vals, ok := m.globals[field]
	if !ok {
		return nil, false
	}
	out := make([]types.Value, len(vals))
	copy(out, vals)
	return out, true
}

// Append adds values to field, creating it when absent. Calling Append with
// no values marks the field present but empty.
func (m *Memory) Append(field string, vals ...types.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globals[field] = append(m.globals[field], vals...)
	if m.globals[field] == nil {
		m.globals[field] = []types.Value{}
	}
}

// Set replaces the values bound to field.
func (m *Memory) Set(field string, vals ...types.Value) {
	cp := make([]types.Value, len(vals))
	copy(cp, vals)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.globals[field] = cp
}

// Delete makes field absent.
func (m *Memory) Delete(field string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.globals, field)
}

// Fields returns the present field names, sorted.
func (m *Memory) Fields() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.globals))
	for f := range m.globals {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
