//go:build simulatedpayouts

package actor

// simulatedPayouts skips credit-proof verification during synch. Test
// fixture hook only.
const simulatedPayouts = true
