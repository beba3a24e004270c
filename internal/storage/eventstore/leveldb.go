package eventstore

import (
	"fmt"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// LevelDBBackend stores the event log in a LevelDB database. Alternative
// persistent backend for deployments already running LevelDB.
type LevelDBBackend struct {
	mu     sync.RWMutex
	db     *leveldb.DB
	config *Config
	open   bool
}

// NewLevelDBBackend creates a leveldb backend over config.Path.
func NewLevelDBBackend(config *Config) *LevelDBBackend {
	return &LevelDBBackend{config: config}
}

// Name returns the backend name and path.
func (l *LevelDBBackend) Name() string {
	return fmt.Sprintf("%s(%s)", BackendLevelDB, l.config.Path)
}

// Open opens the database, creating it if asked.
func (l *LevelDBBackend) Open(createIfMissing bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.open {
		return ErrStoreOpen
	}
	opts := &opt.Options{
		ErrorIfMissing: !createIfMissing,
	}
	db, err := leveldb.OpenFile(l.config.Path, opts)
	if err != nil {
		return fmt.Errorf("open leveldb event store: %w", err)
	}
	l.db = db
	l.open = true
	return nil
}

// Close closes the database.
func (l *LevelDBBackend) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return nil
	}
	l.open = false
	return l.db.Close()
}

// Append stores data at the given sequence number.
func (l *LevelDBBackend) Append(seq uint64, data []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.open {
		return ErrStoreClosed
	}
	next, err := l.nextLocked()
	if err != nil {
		return err
	}
	if seq != next {
		return ErrOutOfOrderAppend
	}
	wo := &opt.WriteOptions{Sync: l.config.SyncWrites}
	if err := l.db.Put(seqKey(seq), data, wo); err != nil {
		return fmt.Errorf("append event %d: %w", seq, err)
	}
	return nil
}

// Next returns the next sequence number.
func (l *LevelDBBackend) Next() (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.open {
		return 0, ErrStoreClosed
	}
	return l.nextLocked()
}

func (l *LevelDBBackend) nextLocked() (uint64, error) {
	iter := l.db.NewIterator(nil, nil)
	defer iter.Release()
	if !iter.Last() {
		return 0, iter.Error()
	}
	seq, err := keySeq(iter.Key())
	if err != nil {
		return 0, err
	}
	return seq + 1, nil
}

// Iterate calls fn for every record in sequence order.
func (l *LevelDBBackend) Iterate(fn func(seq uint64, data []byte) error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if !l.open {
		return ErrStoreClosed
	}
	iter := l.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		seq, err := keySeq(iter.Key())
		if err != nil {
			return err
		}
		if err := fn(seq, iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}
