package eventstore

import (
	"bytes"
	"sync"
)

// MemoryBackend is an in-memory store for tests and development.
type MemoryBackend struct {
	mu      sync.RWMutex
	records [][]byte
	open    bool
}

// NewMemoryBackend creates an empty memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Name returns the backend name.
func (m *MemoryBackend) Name() string {
	return BackendMemory
}

// Open prepares the backend for use.
func (m *MemoryBackend) Open(createIfMissing bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		return ErrStoreOpen
	}
	m.open = true
	return nil
}

// Close releases resources; stored records survive until the value is
// garbage collected.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open = false
	return nil
}

// Append stores data at the given sequence number.
func (m *MemoryBackend) Append(seq uint64, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return ErrStoreClosed
	}
	if seq != uint64(len(m.records)) {
		return ErrOutOfOrderAppend
	}
	m.records = append(m.records, bytes.Clone(data))
	return nil
}

// Next returns the next sequence number.
func (m *MemoryBackend) Next() (uint64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.open {
		return 0, ErrStoreClosed
	}
	return uint64(len(m.records)), nil
}

// Iterate calls fn for every record in order.
func (m *MemoryBackend) Iterate(fn func(seq uint64, data []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.open {
		return ErrStoreClosed
	}
	for i, data := range m.records {
		if err := fn(uint64(i), data); err != nil {
			return err
		}
	}
	return nil
}
