package types

import (
	"fmt"

	"github.com/LeJamon/goAT2/internal/codec/binarycodec"
)

// Dot uniquely identifies a transfer originated by an actor: the actor's
// id plus a counter. Counters per actor are strictly monotonically
// increasing from 0 and form a dense sequence in the applied history.
type Dot struct {
	Actor   AccountID
	Counter uint64
}

// NewDot builds the dot for the given actor and counter.
func NewDot(actor AccountID, counter uint64) Dot {
	return Dot{Actor: actor, Counter: counter}
}

func (d Dot) String() string {
	return fmt.Sprintf("%s:%d", d.Actor, d.Counter)
}

// EncodeTo appends the canonical encoding: actor raw bytes, counter u64.
func (d Dot) EncodeTo(enc *binarycodec.Serializer) {
	d.Actor.EncodeTo(enc)
	enc.WriteUint64(d.Counter)
}

// DecodeDot reads a dot from the parser.
func DecodeDot(p *binarycodec.Parser) (Dot, error) {
	actor, err := DecodeAccountID(p)
	if err != nil {
		return Dot{}, err
	}
	counter, err := p.ReadUint64()
	if err != nil {
		return Dot{}, err
	}
	return Dot{Actor: actor, Counter: counter}, nil
}
