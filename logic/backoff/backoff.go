// Package backoff computes the pause between a failed benchmark iteration and
// the retry that follows it.
//
// The delay grows exponentially with the number of consecutive failures and
// uses equal jitter: half of the computed delay is a fixed floor, the other
// half is uniformly random. The floor keeps a failing disk from being
// hammered in a tight loop once pacing is enabled.
//
// Pure computation, no IO. A zero base delay disables pacing entirely, which
// is the default: failed iterations are retried immediately.
package backoff

import (
	"math/rand/v2"
	"time"
)

// maxShift caps the bit-shift exponent so baseDelay << shift cannot overflow
// time.Duration.
const maxShift = 10

// Duration computes a jittered exponential backoff delay.
//
//  1. Exponential: delay = baseDelay << min(count, maxShift)
//  2. Clamp:       delay = min(delay, maxDelay)
//  3. Equal jitter: return uniform sample from [delay/2, delay]
//
// Negative counts are treated as zero. A non-positive baseDelay returns zero.
//
//	backoff.Duration(0, time.Second, 30*time.Second) // [500ms, 1s]
//	backoff.Duration(3, time.Second, 30*time.Second) // [4s, 8s]
//	backoff.Duration(0, 0, 30*time.Second)           // 0
func Duration(count int, baseDelay, maxDelay time.Duration) time.Duration {
	if baseDelay <= 0 {
		return 0
	}
	shift := min(max(count, 0), maxShift)

	delay := baseDelay << shift
	if maxDelay > 0 && delay > maxDelay {
		delay = maxDelay
	}

	// Int64N(half+1) makes the upper bound inclusive.
	half := delay / 2
	jitter := time.Duration(rand.Int64N(int64(half + 1)))
	return half + jitter
}
