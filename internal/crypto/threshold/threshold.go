// Package threshold provides the threshold-BLS operations used between an
// Actor and its Replica groups: per-replica signature shares, share
// verification against a group's public key set, and combination of a
// quorum of shares into a single aggregated group signature.
//
// The package is a thin wrapper over go.dedis.ch/kyber (bn256 pairing
// suite). kyber counts a threshold as "t shares reconstruct"; this
// package exposes the protocol convention instead, where Threshold()
// returns t and a quorum is t+1 shares. The translation between the two
// conventions happens here and nowhere else.
package threshold

import (
	"go.dedis.ch/kyber/v3/pairing"
	"go.dedis.ch/kyber/v3/pairing/bn256"
)

// suite is the pairing suite shared by all operations in this package.
// Group public keys live in G2, signatures and shares in G1.
var suite pairing.Suite = bn256.NewSuite()
