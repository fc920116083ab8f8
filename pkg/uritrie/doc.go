// Package uritrie implements the pattern-indexed store behind the broker's
// subscription table and the dealer's registration table: a trie keyed by
// dot-separated URI segments, supporting strict, wildcard and prefix
// matching policies with a deterministic publish order and pluggable
// invocation-policy arbitration for RPC dispatch.
//
// A Trie is not safe for concurrent use; callers serialize access with
// their own lock (the realm holds one per the coarse-grained concurrency
// model).
package uritrie
