package store

import (
	"sync"

	"github.com/pombredanne/multifast/pkg/types"
)

// MemoryStore implements Store using an in-memory map. No CGO dependency,
// used as the default store and for tests.
type MemoryStore struct {
	mu       sync.RWMutex
	findings map[string]*types.Finding // keyed by StructuralID
}

// NewMemory creates a new in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		findings: make(map[string]*types.Finding),
	}
}

// AddFinding stores a finding (deduplicated on StructuralID).
func (m *MemoryStore) AddFinding(f *types.Finding) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.findings[f.StructuralID]; exists {
		return nil
	}
	m.findings[f.StructuralID] = f
	return nil
}

// FindingExists checks if a finding with this structural ID exists.
func (m *MemoryStore) FindingExists(structuralID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.findings[structuralID]
	return exists, nil
}

// GetFindings retrieves all findings (for reporting).
func (m *MemoryStore) GetFindings() ([]*types.Finding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*types.Finding, 0, len(m.findings))
	for _, finding := range m.findings {
		result = append(result, finding)
	}
	return result, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
