package binarycodec

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedEOF indicates the buffer ended before the field was read.
	ErrUnexpectedEOF = errors.New("unexpected end of encoded data")

	// ErrTrailingBytes indicates the buffer holds bytes past the last field.
	ErrTrailingBytes = errors.New("trailing bytes after encoded value")

	// ErrLengthOverflow indicates a length prefix larger than the buffer.
	ErrLengthOverflow = errors.New("length prefix exceeds remaining data")
)

// Parser reads canonically encoded fields from a buffer.
type Parser struct {
	buf []byte
	pos int
}

// NewParser creates a parser over the given buffer. The buffer is not
// copied; callers must not mutate it while parsing.
func NewParser(buf []byte) *Parser {
	return &Parser{buf: buf}
}

// Remaining returns the number of unread bytes.
func (p *Parser) Remaining() int {
	return len(p.buf) - p.pos
}

// Done returns an error unless the buffer was consumed exactly.
func (p *Parser) Done() error {
	if p.Remaining() != 0 {
		return fmt.Errorf("%w: %d bytes", ErrTrailingBytes, p.Remaining())
	}
	return nil
}

// ReadUint8 reads a single byte.
func (p *Parser) ReadUint8() (uint8, error) {
	if p.Remaining() < 1 {
		return 0, ErrUnexpectedEOF
	}
	v := p.buf[p.pos]
	p.pos++
	return v, nil
}

// ReadUint16 reads a fixed-width little-endian uint16.
func (p *Parser) ReadUint16() (uint16, error) {
	if p.Remaining() < 2 {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint16(p.buf[p.pos:])
	p.pos += 2
	return v, nil
}

// ReadUint32 reads a fixed-width little-endian uint32.
func (p *Parser) ReadUint32() (uint32, error) {
	if p.Remaining() < 4 {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(p.buf[p.pos:])
	p.pos += 4
	return v, nil
}

// ReadUint64 reads a fixed-width little-endian uint64.
func (p *Parser) ReadUint64() (uint64, error) {
	if p.Remaining() < 8 {
		return 0, ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint64(p.buf[p.pos:])
	p.pos += 8
	return v, nil
}

// ReadBytes reads a uint64 length prefix and the following bytes. The
// returned slice is a copy.
func (p *Parser) ReadBytes() ([]byte, error) {
	n, err := p.ReadUint64()
	if err != nil {
		return nil, err
	}
	if n > uint64(p.Remaining()) {
		return nil, ErrLengthOverflow
	}
	out := make([]byte, n)
	copy(out, p.buf[p.pos:p.pos+int(n)])
	p.pos += int(n)
	return out, nil
}

// ReadRaw reads exactly n bytes without a length prefix.
func (p *Parser) ReadRaw(n int) ([]byte, error) {
	if n > p.Remaining() {
		return nil, ErrUnexpectedEOF
	}
	out := make([]byte, n)
	copy(out, p.buf[p.pos:p.pos+n])
	p.pos += n
	return out, nil
}
