package binarycodec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeParseRoundTrip(t *testing.T) {
	enc := NewSerializer()
	enc.WriteUint8(0x7F)
	enc.WriteUint16(512)
	enc.WriteUint32(1 << 20)
	enc.WriteUint64(1 << 40)
	enc.WriteBytes([]byte("payload"))
	enc.WriteRaw([]byte{1, 2, 3})

	p := NewParser(enc.Bytes())

	u8, err := p.ReadUint8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0x7F), u8)

	u16, err := p.ReadUint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(512), u16)

	u32, err := p.ReadUint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(1<<20), u32)

	u64, err := p.ReadUint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<40), u64)

	b, err := p.ReadBytes()
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), b)

	raw, err := p.ReadRaw(3)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)

	require.NoError(t, p.Done())
}

func TestParserErrors(t *testing.T) {
	p := NewParser([]byte{1})
	_, err := p.ReadUint64()
	assert.ErrorIs(t, err, ErrUnexpectedEOF)

	// Length prefix claiming more bytes than remain.
	enc := NewSerializer()
	enc.WriteUint64(100)
	p = NewParser(enc.Bytes())
	_, err = p.ReadBytes()
	assert.ErrorIs(t, err, ErrLengthOverflow)

	p = NewParser([]byte{1, 2})
	_, err = p.ReadUint8()
	require.NoError(t, err)
	assert.ErrorIs(t, p.Done(), ErrTrailingBytes)
}

func TestEmptyByteString(t *testing.T) {
	enc := NewSerializer()
	enc.WriteBytes(nil)
	p := NewParser(enc.Bytes())
	b, err := p.ReadBytes()
	require.NoError(t, err)
	assert.Empty(t, b)
	require.NoError(t, p.Done())
}
