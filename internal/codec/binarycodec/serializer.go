// Package binarycodec implements the canonical binary encoding used for
// every payload that is signed or verified.
//
// The encoding is deterministic: fixed-width little-endian integers,
// uint64 length-prefixed byte strings, and struct fields in declaration
// order. The same value always produces the same bytes on every node.
// No domain-separation prefix is applied; the signing domain is the raw
// serialised bytes.
package binarycodec

import "encoding/binary"

// Serializer accumulates canonically encoded fields into a byte sink.
type Serializer struct {
	sink []byte
}

// NewSerializer creates an empty serializer.
func NewSerializer() *Serializer {
	return &Serializer{}
}

// WriteUint8 writes a single byte.
func (s *Serializer) WriteUint8(v uint8) {
	s.sink = append(s.sink, v)
}

// WriteUint16 writes a fixed-width little-endian uint16.
func (s *Serializer) WriteUint16(v uint16) {
	s.sink = binary.LittleEndian.AppendUint16(s.sink, v)
}

// WriteUint32 writes a fixed-width little-endian uint32.
func (s *Serializer) WriteUint32(v uint32) {
	s.sink = binary.LittleEndian.AppendUint32(s.sink, v)
}

// WriteUint64 writes a fixed-width little-endian uint64.
func (s *Serializer) WriteUint64(v uint64) {
	s.sink = binary.LittleEndian.AppendUint64(s.sink, v)
}

// WriteBytes writes a uint64 little-endian length prefix followed by the
// raw bytes.
func (s *Serializer) WriteBytes(b []byte) {
	s.WriteUint64(uint64(len(b)))
	s.sink = append(s.sink, b...)
}

// WriteRaw writes bytes verbatim, without a length prefix. Used for
// fixed-width fields such as account identifiers.
func (s *Serializer) WriteRaw(b []byte) {
	s.sink = append(s.sink, b...)
}

// Bytes returns the accumulated sink.
func (s *Serializer) Bytes() []byte {
	return s.sink
}
