package eventstore

import (
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/pebble"
)

// PebbleBackend stores the event log in a PebbleDB database. Production
// backend.
type PebbleBackend struct {
	mu     sync.RWMutex
	db     *pebble.DB
	config *Config
	open   bool
}

// NewPebbleBackend creates a pebble backend over config.Path.
func NewPebbleBackend(config *Config) *PebbleBackend {
	return &PebbleBackend{config: config}
}

// Name returns the backend name and path.
func (p *PebbleBackend) Name() string {
	return fmt.Sprintf("%s(%s)", BackendPebble, p.config.Path)
}

// Open opens the database, creating the directory if asked.
func (p *PebbleBackend) Open(createIfMissing bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.open {
		return ErrStoreOpen
	}
	if createIfMissing {
		if err := os.MkdirAll(p.config.Path, 0o755); err != nil {
			return fmt.Errorf("create event store directory %s: %w", p.config.Path, err)
		}
	}
	opts := &pebble.Options{
		ErrorIfNotExists: !createIfMissing,
	}
	db, err := pebble.Open(p.config.Path, opts)
	if err != nil {
		return fmt.Errorf("open pebble event store: %w", err)
	}
	p.db = db
	p.open = true
	return nil
}

// Close closes the database.
func (p *PebbleBackend) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return nil
	}
	p.open = false
	return p.db.Close()
}

// Append stores data at the given sequence number.
func (p *PebbleBackend) Append(seq uint64, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.open {
		return ErrStoreClosed
	}
	next, err := p.nextLocked()
	if err != nil {
		return err
	}
	if seq != next {
		return ErrOutOfOrderAppend
	}
	sync := pebble.NoSync
	if p.config.SyncWrites {
		sync = pebble.Sync
	}
	if err := p.db.Set(seqKey(seq), data, sync); err != nil {
		return fmt.Errorf("append event %d: %w", seq, err)
	}
	return nil
}

// Next returns the next sequence number.
func (p *PebbleBackend) Next() (uint64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.open {
		return 0, ErrStoreClosed
	}
	return p.nextLocked()
}

func (p *PebbleBackend) nextLocked() (uint64, error) {
	iter, err := p.db.NewIter(nil)
	if err != nil {
		return 0, fmt.Errorf("event store iterator: %w", err)
	}
	defer iter.Close()
	if !iter.Last() {
		return 0, nil
	}
	seq, err := keySeq(iter.Key())
	if err != nil {
		return 0, err
	}
	return seq + 1, nil
}

// Iterate calls fn for every record in sequence order.
func (p *PebbleBackend) Iterate(fn func(seq uint64, data []byte) error) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.open {
		return ErrStoreClosed
	}
	iter, err := p.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("event store iterator: %w", err)
	}
	defer iter.Close()
	for iter.First(); iter.Valid(); iter.Next() {
		seq, err := keySeq(iter.Key())
		if err != nil {
			return err
		}
		data, err := iter.ValueAndErr()
		if err != nil {
			return fmt.Errorf("read event %d: %w", seq, err)
		}
		if err := fn(seq, data); err != nil {
			return err
		}
	}
	return iter.Error()
}
