package uritrie

import (
	"math/rand/v2"
	"strings"

	"github.com/ohyo-io/wampire/pkg/wampproto"
)

// MatchPolicy mirrors wampproto.MatchPolicy; re-exported so callers need
// not import wampproto just to name a policy.
type MatchPolicy = wampproto.MatchPolicy

const (
	MatchStrict   = wampproto.MatchStrict
	MatchWildcard = wampproto.MatchWildcard
	MatchPrefix   = wampproto.MatchPrefix
)

// InvokePolicy mirrors wampproto.InvokePolicy.
type InvokePolicy = wampproto.InvokePolicy

// Identified is the minimal capability a trie holder needs: something
// that can be named by a stable ID, so it can be found again on
// unsubscribe/unregister and excluded/arbitrated on publish/call. Spec §9
// calls this out explicitly in place of a dynamic trait object.
type Identified interface {
	ID() uint64
}

type entry[T Identified] struct {
	holder T
}

// node is reached by consuming a run of dot-separated segments from the
// root. Each node carries two fixed IDs assigned at creation time: id is
// returned to callers whose pattern consumes the node exactly (Strict and
// Wildcard entries); prefixID is returned to callers whose pattern treats
// the node as a Prefix terminus. Repeated insertions of the same pattern
// land on the same node, hence return the same ID.
type node[T Identified] struct {
	id       uint64
	prefixID uint64

	children map[string]*node[T]
	wildcard *node[T]

	exact       []entry[T]
	exactPolicy InvokePolicy
	exactCursor int

	prefix       []entry[T]
	prefixPolicy InvokePolicy
	prefixCursor int
}

// Trie is a pattern-indexed store of entries of type T. The zero value is
// not usable; construct with New.
type Trie[T Identified] struct {
	newID func() uint64
	root  *node[T]
}

// New constructs an empty trie. newID supplies the fixed node/prefix IDs
// handed out as nodes are created; the router passes idgen.Random so
// subscription and registration IDs fall in the browser-safe range spec §3
// requires.
func New[T Identified](newID func() uint64) *Trie[T] {
	return &Trie[T]{newID: newID, root: &node[T]{}}
}

func segments(pattern string) []string {
	return strings.Split(pattern, ".")
}

func (t *Trie[T]) newNode() *node[T] {
	return &node[T]{id: t.newID(), prefixID: t.newID()}
}

// ensure walks pattern from the root, creating nodes as needed, and
// returns the terminal node. An empty segment (two adjacent dots, or a
// pattern written as e.g. "com.example..topic") routes through the
// wildcard edge rather than a literal child.
func (t *Trie[T]) ensure(pattern string) *node[T] {
	cur := t.root
	for _, seg := range segments(pattern) {
		if seg == "" {
			if cur.wildcard == nil {
				cur.wildcard = t.newNode()
			}
			cur = cur.wildcard
			continue
		}
		if cur.children == nil {
			cur.children = make(map[string]*node[T])
		}
		child, ok := cur.children[seg]
		if !ok {
			child = t.newNode()
			cur.children[seg] = child
		}
		cur = child
	}
	return cur
}

// walk is ensure's read-only counterpart: it does not create nodes and
// reports false if pattern has no corresponding node.
func (t *Trie[T]) walk(pattern string) (*node[T], bool) {
	cur := t.root
	for _, seg := range segments(pattern) {
		if seg == "" {
			if cur.wildcard == nil {
				return nil, false
			}
			cur = cur.wildcard
			continue
		}
		if cur.children == nil {
			return nil, false
		}
		child, ok := cur.children[seg]
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

func entriesFor[T Identified](n *node[T], policy MatchPolicy) *[]entry[T] {
	if policy == MatchPrefix {
		return &n.prefix
	}
	return &n.exact
}

// Subscribe inserts holder under pattern/policy. Subscription inserts
// always succeed; multiple subscribers coexist freely at a node. Repeated
// subscriptions to the same pattern return the same ID, regardless of
// subscriber.
func (t *Trie[T]) Subscribe(pattern string, policy MatchPolicy, holder T) uint64 {
	n := t.ensure(pattern)
	entries := entriesFor(n, policy)
	*entries = append(*entries, entry[T]{holder: holder})
	if policy == MatchPrefix {
		return n.prefixID
	}
	return n.id
}

// Unsubscribe removes the entry belonging to holderID from pattern/policy.
// It reports ErrNotFound if pattern has no node or holderID is absent.
func (t *Trie[T]) Unsubscribe(pattern string, policy MatchPolicy, holderID uint64) error {
	n, ok := t.walk(pattern)
	if !ok {
		return ErrNotFound
	}
	entries := entriesFor(n, policy)
	if !removeEntry(entries, holderID) {
		return ErrNotFound
	}
	return nil
}

// Register inserts holder under pattern/policy honouring the
// single-callee invariant: the first insertion at a node fixes its
// invocation policy; later insertions succeed only if they request the
// same policy and that policy is not Single.
func (t *Trie[T]) Register(pattern string, policy MatchPolicy, invoke InvokePolicy, holder T) (uint64, error) {
	n := t.ensure(pattern)
	entries := entriesFor(n, policy)
	storedPolicy := &n.exactPolicy
	if policy == MatchPrefix {
		storedPolicy = &n.prefixPolicy
	}

	if len(*entries) == 0 {
		*storedPolicy = invoke
		*entries = append(*entries, entry[T]{holder: holder})
	} else if *storedPolicy != invoke || invoke == wampproto.InvokeSingle {
		return 0, ErrAlreadyExists
	} else {
		*entries = append(*entries, entry[T]{holder: holder})
	}

	if policy == MatchPrefix {
		return n.prefixID, nil
	}
	return n.id, nil
}

// Unregister removes the entry belonging to holderID from pattern/policy.
func (t *Trie[T]) Unregister(pattern string, policy MatchPolicy, holderID uint64) error {
	return t.Unsubscribe(pattern, policy, holderID)
}

func removeEntry[T Identified](entries *[]entry[T], holderID uint64) bool {
	for i, e := range *entries {
		if e.holder.ID() == holderID {
			*entries = append((*entries)[:i], (*entries)[i+1:]...)
			return true
		}
	}
	return false
}

// Match is one result of a publish-style iteration or an RPC lookup: the
// holder, the node-scoped ID the event/invocation should carry, and the
// policy under which the match occurred (Wildcard/Prefix matches also set
// the concrete URI on the outgoing message's details, per spec §4.3/4.4).
type Match[T Identified] struct {
	Holder T
	ID     uint64
	Policy MatchPolicy
}

func pick[T Identified](entries []entry[T], policy InvokePolicy, cursor *int) (T, bool) {
	var zero T
	if len(entries) == 0 {
		return zero, false
	}
	switch policy {
	case wampproto.InvokeLast:
		return entries[len(entries)-1].holder, true
	case wampproto.InvokeRandom:
		return entries[rand.IntN(len(entries))].holder, true
	case wampproto.InvokeRoundRobin:
		i := *cursor % len(entries)
		*cursor = (*cursor + 1) % len(entries)
		return entries[i].holder, true
	default: // Single, First
		return entries[0].holder, true
	}
}

// Lookup performs the exact-match walk RPC dispatch uses: literal child
// first, falling back to the wildcard child, with prefix entries at the
// deepest visited ancestor acting as a catch-all. When several callees
// are registered at the resolved node, invocation-policy arbitration
// picks one.
func (t *Trie[T]) Lookup(uri string) (Match[T], bool) {
	return lookup(t.root, segments(uri), MatchStrict)
}

func lookup[T Identified](n *node[T], segs []string, viaPolicy MatchPolicy) (Match[T], bool) {
	if len(segs) == 0 {
		if h, ok := pick(n.exact, n.exactPolicy, &n.exactCursor); ok {
			return Match[T]{Holder: h, ID: n.id, Policy: viaPolicy}, true
		}
		if h, ok := pick(n.prefix, n.prefixPolicy, &n.prefixCursor); ok {
			return Match[T]{Holder: h, ID: n.prefixID, Policy: MatchPrefix}, true
		}
		return Match[T]{}, false
	}

	seg, rest := segs[0], segs[1:]
	if n.children != nil {
		if child, ok := n.children[seg]; ok {
			if m, ok := lookup(child, rest, viaPolicy); ok {
				return m, true
			}
		}
	}
	if n.wildcard != nil {
		if m, ok := lookup(n.wildcard, rest, MatchWildcard); ok {
			return m, true
		}
	}
	if h, ok := pick(n.prefix, n.prefixPolicy, &n.prefixCursor); ok {
		return Match[T]{Holder: h, ID: n.prefixID, Policy: MatchPrefix}, true
	}
	return Match[T]{}, false
}

// Publish lazily iterates every entry matching uri, in the order spec §4.2
// requires: prefix entries at a node before its exact entries, wildcard
// subtree before literal subtree. Range over the returned sequence; break
// out early to stop mid-iteration without visiting the rest of the trie.
func (t *Trie[T]) Publish(uri string) func(yield func(Match[T]) bool) {
	segs := segments(uri)
	return func(yield func(Match[T]) bool) {
		publish(t.root, segs, MatchStrict, yield)
	}
}

func publish[T Identified](n *node[T], segs []string, viaPolicy MatchPolicy, yield func(Match[T]) bool) bool {
	for _, e := range n.prefix {
		if !yield(Match[T]{Holder: e.holder, ID: n.prefixID, Policy: MatchPrefix}) {
			return false
		}
	}
	if len(segs) == 0 {
		for _, e := range n.exact {
			if !yield(Match[T]{Holder: e.holder, ID: n.id, Policy: viaPolicy}) {
				return false
			}
		}
		return true
	}

	seg, rest := segs[0], segs[1:]
	if n.wildcard != nil {
		if !publish(n.wildcard, rest, MatchWildcard, yield) {
			return false
		}
	}
	if n.children != nil {
		if child, ok := n.children[seg]; ok {
			if !publish(child, rest, viaPolicy, yield) {
				return false
			}
		}
	}
	return true
}
