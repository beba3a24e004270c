package threshold

import (
	"github.com/LeJamon/goAT2/internal/codec/binarycodec"
)

// SignatureShare is one replica's threshold-BLS signature share over a
// payload, together with the replica's index in the group. The raw share
// bytes carry the index as a prefix (kyber tbls format); the explicit
// Index field mirrors the wire model and is what the protocol compares.
type SignatureShare struct {
	Index int
	Share []byte
}

// EncodeTo appends the canonical encoding of the share: index as uint16,
// then the length-prefixed share bytes.
func (s SignatureShare) EncodeTo(enc *binarycodec.Serializer) {
	enc.WriteUint16(uint16(s.Index))
	enc.WriteBytes(s.Share)
}

// DecodeSignatureShare reads a share from the parser.
func DecodeSignatureShare(p *binarycodec.Parser) (SignatureShare, error) {
	idx, err := p.ReadUint16()
	if err != nil {
		return SignatureShare{}, err
	}
	raw, err := p.ReadBytes()
	if err != nil {
		return SignatureShare{}, err
	}
	return SignatureShare{Index: int(idx), Share: raw}, nil
}
