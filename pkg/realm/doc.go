// Package realm implements the broker and dealer roles of a single named
// realm: the subscription manager (PubSub), the registration manager
// (RPC), and the connection registry tying both to disconnect cleanup.
//
// A Realm serializes every operation behind one coarse mutex, matching the
// router's per-message-step locking model; callers never need their own
// lock around a Realm method call.
package realm
