//go:build !simulatedpayouts

package actor

// simulatedPayouts skips credit-proof verification during synch when the
// simulatedpayouts build tag is set. It must be off in production builds.
const simulatedPayouts = false
