package actor

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// proofCacheSize bounds the number of memoised proof verifications.
const proofCacheSize = 512

// proofCache memoises successful debit-proof verifications. Verifying an
// aggregated BLS signature costs a pairing; synch batches frequently
// repeat proofs already seen. Only deterministic verification outcomes
// are cached, so the cache never changes what a command returns, only how
// fast it returns it.
type proofCache struct {
	verified *lru.Cache[string, struct{}]
}

func newProofCache() *proofCache {
	cache, err := lru.New[string, struct{}](proofCacheSize)
	if err != nil {
		// lru.New fails only on a non-positive size.
		panic("actor: building proof cache")
	}
	return &proofCache{verified: cache}
}

// seen reports whether the key (verifying key plus proof encoding) was
// verified before.
func (c *proofCache) seen(key []byte) bool {
	_, ok := c.verified.Get(string(key))
	return ok
}

// record marks the key (verifying key plus proof encoding) as verified.
func (c *proofCache) record(key []byte) {
	c.verified.Add(string(key), struct{}{})
}
