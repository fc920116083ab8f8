// Package idgen generates the identifiers WAMP sessions, subscriptions,
// registrations, and requests need.
//
// Two distinct allocation schemes are used, matching spec §3:
//   - Random returns a value in [1, 2^53) — the browser-safe range a JSON
//     number can represent exactly, used for session/realm-scoped object
//     IDs (session IDs, publication IDs, invocation IDs).
//   - A Sequence hands out a strictly monotonic counter starting at 1,
//     used for per-connection request IDs.
package idgen

import (
	"crypto/rand"
	"encoding/binary"
	"sync/atomic"
)

// maxID is 2^53, the largest integer a float64/JSON number represents
// exactly. The spec prefers this range over the source's alternate
// 56-bit generator specifically for JSON safety (see spec §9).
const maxID uint64 = 1 << 53

// Random returns a cryptographically random identifier in [1, 2^53).
func Random() uint64 {
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			// crypto/rand failing is unrecoverable; retry rather than
			// silently fall back to a weaker source.
			continue
		}
		v := binary.BigEndian.Uint64(buf[:]) % maxID
		if v != 0 {
			return v
		}
	}
}

// Sequence is a monotonically increasing counter starting at 1, safe for
// concurrent use. It backs per-connection WAMP request IDs.
type Sequence struct {
	n atomic.Uint64
}

// Next returns the next value in the sequence, starting at 1.
func (s *Sequence) Next() uint64 {
	return s.n.Add(1)
}
