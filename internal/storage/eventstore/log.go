package eventstore

import (
	"fmt"

	"github.com/LeJamon/goAT2/internal/core/actor"
	"github.com/LeJamon/goAT2/internal/crypto"
	"github.com/LeJamon/goAT2/internal/crypto/threshold"
)

// Log is the actor-facing view of an event store: it encodes events on
// the way in and decodes them on the way out.
type Log struct {
	backend Backend
}

// NewLog wraps an opened backend.
func NewLog(backend Backend) *Log {
	return &Log{backend: backend}
}

// Append encodes and stores one actor event at the end of the log.
// Callers append an event right after applying it, so log order is apply
// order.
func (l *Log) Append(event actor.Event) error {
	data, err := actor.EncodeEvent(event)
	if err != nil {
		return err
	}
	seq, err := l.backend.Next()
	if err != nil {
		return err
	}
	return l.backend.Append(seq, data)
}

// Replay decodes every stored event in order and passes it to fn.
func (l *Log) Replay(fn func(actor.Event) error) error {
	return l.backend.Iterate(func(seq uint64, data []byte) error {
		event, err := actor.DecodeEvent(data)
		if err != nil {
			return fmt.Errorf("%w: seq %d: %v", ErrCorruptRecord, seq, err)
		}
		return fn(event)
	})
}

// Rehydrate reconstructs an actor by replaying the log over a fresh
// instance built from the same key, replica set and validator the
// original actor was created with.
func (l *Log) Rehydrate(keypair crypto.KeyPair, replicas *threshold.PublicKeySet, validator actor.ReplicaValidator) (*actor.Actor, error) {
	a := actor.New(keypair, replicas, validator)
	if err := l.Replay(func(event actor.Event) error {
		a.Apply(event)
		return nil
	}); err != nil {
		return nil, err
	}
	return a, nil
}
