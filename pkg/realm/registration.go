package realm

import (
	"github.com/ohyo-io/wampire/internal/idgen"
	"github.com/ohyo-io/wampire/pkg/uritrie"
	"github.com/ohyo-io/wampire/pkg/wampproto"
)

type pendingCall struct {
	callerRequestID uint64
	caller          Connection
	callee          Connection
}

// RegistrationManager is the dealer half of a realm (spec §4.4).
type RegistrationManager struct {
	trie *uritrie.Trie[Connection]

	// patterns maps a registration ID back to the procedure/policy that
	// produced it, needed because Unregister only carries the ID.
	patterns map[uint64]pattern

	byConn map[uint64]map[pattern]struct{}

	// activeCalls tracks in-flight invocations: invocation ID -> the
	// caller's own request ID and both endpoints, so either side
	// disconnecting can be detected and resolved with NetworkFailure.
	activeCalls map[uint64]pendingCall
}

// NewRegistrationManager constructs an empty registration manager.
func NewRegistrationManager() *RegistrationManager {
	return &RegistrationManager{
		trie:        uritrie.New[Connection](idgen.Random),
		patterns:    make(map[uint64]pattern),
		byConn:      make(map[uint64]map[pattern]struct{}),
		activeCalls: make(map[uint64]pendingCall),
	}
}

// Register inserts callee as the (or one of several non-Single) handlers
// for procedure/matchPolicy, returning the registration ID. Fails with
// ProcedureAlreadyExists on an invocation-policy conflict (spec §4.2).
func (m *RegistrationManager) Register(procedure string, matchPolicy wampproto.MatchPolicy, invokePolicy wampproto.InvokePolicy, callee Connection) (uint64, error) {
	id, err := m.trie.Register(procedure, matchPolicy, invokePolicy, callee)
	if err != nil {
		return 0, wampproto.ErrProcedureAlreadyExist
	}
	p := pattern{topic: procedure, policy: matchPolicy}
	m.patterns[id] = p

	conns, ok := m.byConn[callee.ID()]
	if !ok {
		conns = make(map[pattern]struct{})
		m.byConn[callee.ID()] = conns
	}
	conns[p] = struct{}{}
	return id, nil
}

// Unregister removes callee's entry for registrationID.
func (m *RegistrationManager) Unregister(registrationID uint64, callee Connection) error {
	p, ok := m.patterns[registrationID]
	if !ok {
		return wampproto.ErrNoSuchRegistration
	}
	if err := m.trie.Unregister(p.topic, p.policy, callee.ID()); err != nil {
		return wampproto.ErrNoSuchRegistration
	}
	delete(m.byConn[callee.ID()], p)
	return nil
}

// Call resolves procedure to a callee via the trie's exact-match lookup
// and invocation-policy arbitration, records the pending invocation, and
// forwards it as an Invocation message. Fails with NoSuchProcedure if no
// callee matches.
func (m *RegistrationManager) Call(procedure string, args *wampproto.List, kwargs *wampproto.Dict, caller Connection, callerRequestID uint64) error {
	match, ok := m.trie.Lookup(procedure)
	if !ok {
		return wampproto.ErrNoSuchProcedure
	}

	invocationID := idgen.Random()
	m.activeCalls[invocationID] = pendingCall{
		callerRequestID: callerRequestID,
		caller:          caller,
		callee:          match.Holder,
	}

	details := wampproto.Dict{}
	if match.Policy != wampproto.MatchStrict {
		details = details.WithProcedure(procedure)
	}
	return match.Holder.Send(wampproto.Invocation{
		RequestID:      invocationID,
		RegistrationID: match.ID,
		Details:        details,
		Args:           args,
		Kwargs:         kwargs,
	})
}

// Yield completes invocationID successfully, forwarding args/kwargs to the
// caller as a Result.
func (m *RegistrationManager) Yield(invocationID uint64, args *wampproto.List, kwargs *wampproto.Dict) error {
	pc, ok := m.activeCalls[invocationID]
	if !ok {
		return wampproto.ErrInvalidArgument
	}
	delete(m.activeCalls, invocationID)
	return pc.caller.Send(wampproto.Result{RequestID: pc.callerRequestID, Details: wampproto.Dict{}, Args: args, Kwargs: kwargs})
}

// InvocationError completes invocationID with a failure, forwarding
// reason/args/kwargs to the caller as an Error.
func (m *RegistrationManager) InvocationError(invocationID uint64, reason wampproto.ErrorURI, args *wampproto.List, kwargs *wampproto.Dict) error {
	pc, ok := m.activeCalls[invocationID]
	if !ok {
		return wampproto.ErrInvalidArgument
	}
	delete(m.activeCalls, invocationID)
	return pc.caller.Send(wampproto.Error{
		RequestType: wampproto.MsgCall,
		RequestID:   pc.callerRequestID,
		Details:     wampproto.Dict{},
		Reason:      reason,
		Args:        args,
		Kwargs:      kwargs,
	})
}

// Disconnect removes every registration belonging to conn and resolves
// any active call referencing it (as either caller or callee) with a
// NetworkFailure sent to the surviving caller.
func (m *RegistrationManager) Disconnect(conn Connection) {
	for p := range m.byConn[conn.ID()] {
		_ = m.trie.Unregister(p.topic, p.policy, conn.ID())
	}
	delete(m.byConn, conn.ID())

	for id, pc := range m.activeCalls {
		if pc.caller.ID() != conn.ID() && pc.callee.ID() != conn.ID() {
			continue
		}
		delete(m.activeCalls, id)
		if pc.caller.ID() != conn.ID() {
			_ = pc.caller.Send(wampproto.Error{
				RequestType: wampproto.MsgCall,
				RequestID:   pc.callerRequestID,
				Details:     wampproto.Dict{},
				Reason:      wampproto.ErrNetworkFailure,
			})
		}
	}
}
