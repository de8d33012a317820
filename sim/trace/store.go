package trace

import (
	"context"
	"fmt"
	"sync"
)

// Store persists finished traces.
type Store interface {
	Save(ctx context.Context, st *SimulationTrace) error
	Load(ctx context.Context, runID string) (*SimulationTrace, bool, error)
}

const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// IsValidStoreKind returns true if kind names a trace store. Empty means memory.
func IsValidStoreKind(kind string) bool {
	return kind == "" || kind == StoreMemory || kind == StoreSQLite
}

// NewStore creates a trace store by kind. Valid kinds: "" or "memory", "sqlite".
func NewStore(ctx context.Context, kind, sqlitePath string) (Store, error) {
	switch kind {
	case "", StoreMemory:
		return NewMemoryStore(), nil
	case StoreSQLite:
		s := NewSQLiteStore(sqlitePath)
		if err := s.Init(ctx); err != nil {
			return nil, fmt.Errorf("open trace store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported trace store: %s", kind)
	}
}

// CloseIfSupported closes stores that hold resources.
func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}

// MemoryStore keeps traces in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	traces map[string]*SimulationTrace
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{traces: make(map[string]*SimulationTrace)}
}

func (m *MemoryStore) Save(_ context.Context, st *SimulationTrace) error {
	if st == nil || st.RunID == "" {
		return fmt.Errorf("trace without run id")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traces[st.RunID] = st
	return nil
}

func (m *MemoryStore) Load(_ context.Context, runID string) (*SimulationTrace, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.traces[runID]
	return st, ok, nil
}
