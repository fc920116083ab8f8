package realm

import (
	"sync"

	"github.com/ohyo-io/wampire/pkg/wampproto"
)

// Realm is a named session space: a subscription manager, a registration
// manager, and the set of attached connections. One mutex guards all
// three, acquired for the duration of each message-handling step the
// router dispatches into it (spec §5).
type Realm struct {
	Name string

	mu          sync.Mutex
	connections map[uint64]Connection
	subs        *SubscriptionManager
	regs        *RegistrationManager
}

// New constructs an empty realm named name.
func New(name string) *Realm {
	return &Realm{
		Name:        name,
		connections: make(map[uint64]Connection),
		subs:        NewSubscriptionManager(),
		regs:        NewRegistrationManager(),
	}
}

// Join attaches conn to the realm, making it visible to subsequent
// publishes/calls.
func (r *Realm) Join(conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.connections[conn.ID()] = conn
}

// Leave detaches conn, removing every subscription and registration it
// holds and resolving any call left outstanding because of it.
func (r *Realm) Leave(conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.connections, conn.ID())
	r.subs.Disconnect(conn)
	r.regs.Disconnect(conn)
}

// Subscribe subscribes conn to topic under policy.
func (r *Realm) Subscribe(topic string, policy wampproto.MatchPolicy, conn Connection) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs.Subscribe(topic, policy, conn)
}

// Unsubscribe removes conn's subscription subscriptionID.
func (r *Realm) Unsubscribe(subscriptionID uint64, conn Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs.Unsubscribe(subscriptionID, conn)
}

// Publish delivers a publication to every matching subscriber.
func (r *Realm) Publish(topic string, args *wampproto.List, kwargs *wampproto.Dict, acknowledge bool, publisher Connection, requestID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.subs.Publish(topic, args, kwargs, acknowledge, publisher, requestID)
}

// Register registers conn as a callee for procedure under matchPolicy,
// arbitrated by invokePolicy when shared.
func (r *Realm) Register(procedure string, matchPolicy wampproto.MatchPolicy, invokePolicy wampproto.InvokePolicy, conn Connection) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regs.Register(procedure, matchPolicy, invokePolicy, conn)
}

// Unregister removes conn's registration registrationID.
func (r *Realm) Unregister(registrationID uint64, conn Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regs.Unregister(registrationID, conn)
}

// Call dispatches a Call from caller to the procedure's resolved callee.
func (r *Realm) Call(procedure string, args *wampproto.List, kwargs *wampproto.Dict, caller Connection, callerRequestID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regs.Call(procedure, args, kwargs, caller, callerRequestID)
}

// Yield completes invocationID successfully.
func (r *Realm) Yield(invocationID uint64, args *wampproto.List, kwargs *wampproto.Dict) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regs.Yield(invocationID, args, kwargs)
}

// InvocationError completes invocationID with a failure.
func (r *Realm) InvocationError(invocationID uint64, reason wampproto.ErrorURI, args *wampproto.List, kwargs *wampproto.Dict) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.regs.InvocationError(invocationID, reason, args, kwargs)
}

// ConnectionCount reports how many connections are currently joined,
// exposed for /metrics.
func (r *Realm) ConnectionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.connections)
}
