// Package eventstore persists the actor's event log: an append-only,
// sequence-ordered record of encoded actor events, replayable to
// reconstruct actor state after a restart.
package eventstore

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrStoreClosed indicates an operation on a closed backend.
	ErrStoreClosed = errors.New("event store is closed")

	// ErrStoreOpen indicates opening an already open backend.
	ErrStoreOpen = errors.New("event store already open")

	// ErrOutOfOrderAppend indicates an append whose sequence number is not
	// the next in the log.
	ErrOutOfOrderAppend = errors.New("out of order append")

	// ErrCorruptRecord indicates a stored record that does not decode.
	ErrCorruptRecord = errors.New("corrupt event record")

	// ErrUnsupportedBackend indicates an unknown backend name.
	ErrUnsupportedBackend = errors.New("unsupported event store backend")
)

// Backend is an ordered append-only store of encoded events. Keys are
// dense sequence numbers starting at 0; iteration yields records in
// append order.
type Backend interface {
	// Name identifies the backend for logs and errors.
	Name() string

	// Open prepares the backend for use.
	Open(createIfMissing bool) error

	// Close releases resources. Closing a closed backend is a no-op.
	Close() error

	// Append stores data at the given sequence number, which must be
	// exactly Next().
	Append(seq uint64, data []byte) error

	// Next returns the sequence number the next append must carry.
	Next() (uint64, error)

	// Iterate calls fn for every record in sequence order, stopping at the
	// first error.
	Iterate(fn func(seq uint64, data []byte) error) error
}

// Backend names accepted by New.
const (
	BackendPebble  = "pebble"
	BackendLevelDB = "leveldb"
	BackendMemory  = "memory"
)

// New creates a backend by name.
func New(config *Config) (Backend, error) {
	if config == nil {
		config = DefaultConfig()
	}
	switch config.Backend {
	case BackendPebble:
		return NewPebbleBackend(config), nil
	case BackendLevelDB:
		return NewLevelDBBackend(config), nil
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, config.Backend)
	}
}

// seqKey encodes a sequence number as a big-endian key, so byte order is
// append order.
func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

// keySeq decodes a sequence key.
func keySeq(key []byte) (uint64, error) {
	if len(key) != 8 {
		return 0, fmt.Errorf("%w: key length %d", ErrCorruptRecord, len(key))
	}
	return binary.BigEndian.Uint64(key), nil
}
