package realm

import "github.com/ohyo-io/wampire/pkg/wampproto"

// Connection is the realm's view of an attached peer: enough to identify
// it for self-exclusion/arbitration and to push messages to it. The
// router's session type implements this; tests use a fake.
type Connection interface {
	// ID returns the session ID assigned on Welcome. Satisfies
	// uritrie.Identified so a Connection can sit directly in the trie.
	ID() uint64
	// Send delivers msg to the peer. Implementations should not block
	// indefinitely; a slow/dead peer's error return is not fatal to the
	// realm operation that triggered it; best-effort fan-out during
	// Publish tolerates individual send failures (the disconnect path
	// cleans up the dead peer separately).
	Send(msg wampproto.Message) error
}
