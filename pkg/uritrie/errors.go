package uritrie

// Error is a sentinel uritrie failure, independent of the WAMP wire
// vocabulary so this package stays reusable outside the router; callers
// map these onto wampproto error reasons.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrAlreadyExists is returned by Register when a node already holds
	// an entry under an incompatible invocation policy.
	ErrAlreadyExists Error = "uritrie: procedure already exists"
	// ErrNotFound is returned by Unsubscribe/Unregister when no entry
	// with the given holder ID is present at the pattern's node.
	ErrNotFound Error = "uritrie: no such entry"
)
