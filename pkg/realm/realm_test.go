package realm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohyo-io/wampire/pkg/wampproto"
)

type fakeConn struct {
	id   uint64
	sent []wampproto.Message
}

func (c *fakeConn) ID() uint64 { return c.id }

func (c *fakeConn) Send(msg wampproto.Message) error {
	c.sent = append(c.sent, msg)
	return nil
}

func TestSubscribePublishSelfExclusion(t *testing.T) {
	r := New("test")
	publisher := &fakeConn{id: 1}
	subscriber := &fakeConn{id: 2}
	r.Join(publisher)
	r.Join(subscriber)

	subID := r.Subscribe("com.example.test", wampproto.MatchStrict, subscriber)
	_ = r.Subscribe("com.example.test", wampproto.MatchStrict, publisher)

	args := wampproto.List{wampproto.Int(1)}
	require.NoError(t, r.Publish("com.example.test", &args, nil, false, publisher, 1))

	require.Len(t, publisher.sent, 0, "publisher must not receive its own event")
	require.Len(t, subscriber.sent, 1)
	event, ok := subscriber.sent[0].(wampproto.Event)
	require.True(t, ok)
	require.Equal(t, subID, event.SubscriptionID)
}

func TestPublishAcknowledge(t *testing.T) {
	r := New("test")
	publisher := &fakeConn{id: 1}
	r.Join(publisher)

	require.NoError(t, r.Publish("com.example.test", nil, nil, true, publisher, 7))
	require.Len(t, publisher.sent, 1)
	pub, ok := publisher.sent[0].(wampproto.Published)
	require.True(t, ok)
	require.Equal(t, uint64(7), pub.RequestID)
}

func TestPrefixPublishSetsTopicDetail(t *testing.T) {
	r := New("test")
	a := &fakeConn{id: 1}
	b := &fakeConn{id: 2}
	r.Join(a)
	r.Join(b)

	subID := r.Subscribe("com.example", wampproto.MatchPrefix, a)

	args := wampproto.List{wampproto.Int(1)}
	require.NoError(t, r.Publish("com.example.alpha", &args, nil, false, b, 1))

	require.Len(t, a.sent, 1)
	event := a.sent[0].(wampproto.Event)
	require.Equal(t, subID, event.SubscriptionID)
	require.Equal(t, "com.example.alpha", event.Details.GetString("topic"))
}

func TestDisconnectCleanupNoEventAfter(t *testing.T) {
	r := New("test")
	sub := &fakeConn{id: 1}
	pub := &fakeConn{id: 2}
	r.Join(sub)
	r.Join(pub)

	r.Subscribe("com.example.test", wampproto.MatchStrict, sub)
	r.Leave(sub)

	require.NoError(t, r.Publish("com.example.test", nil, nil, false, pub, 1))
	require.Empty(t, sub.sent)
}

func TestRegisterCallYield(t *testing.T) {
	r := New("test")
	callee := &fakeConn{id: 1}
	caller := &fakeConn{id: 2}
	r.Join(callee)
	r.Join(caller)

	_, err := r.Register("ca.test.add", wampproto.MatchStrict, wampproto.InvokeSingle, callee)
	require.NoError(t, err)

	args := wampproto.List{wampproto.Int(2), wampproto.Int(3)}
	require.NoError(t, r.Call("ca.test.add", &args, nil, caller, 5))

	require.Len(t, callee.sent, 1)
	inv := callee.sent[0].(wampproto.Invocation)

	result := wampproto.List{wampproto.Int(5)}
	require.NoError(t, r.Yield(inv.RequestID, &result, nil))

	require.Len(t, caller.sent, 1)
	res := caller.sent[0].(wampproto.Result)
	require.Equal(t, uint64(5), res.RequestID)
	require.Equal(t, result, *res.Args)
}

func TestUnregisterThenCallFails(t *testing.T) {
	r := New("test")
	callee := &fakeConn{id: 1}
	caller := &fakeConn{id: 2}
	r.Join(callee)
	r.Join(caller)

	regID, err := r.Register("ca.test.mult", wampproto.MatchStrict, wampproto.InvokeSingle, callee)
	require.NoError(t, err)
	require.NoError(t, r.Unregister(regID, callee))

	err = r.Call("ca.test.mult", nil, nil, caller, 1)
	require.ErrorIs(t, err, wampproto.ErrNoSuchProcedure)
}

func TestRegisterSingleConflict(t *testing.T) {
	r := New("test")
	a := &fakeConn{id: 1}
	b := &fakeConn{id: 2}
	r.Join(a)
	r.Join(b)

	_, err := r.Register("ca.test.add", wampproto.MatchStrict, wampproto.InvokeSingle, a)
	require.NoError(t, err)

	_, err = r.Register("ca.test.add", wampproto.MatchStrict, wampproto.InvokeSingle, b)
	require.ErrorIs(t, err, wampproto.ErrProcedureAlreadyExist)
}

func TestCalleeDisconnectEmitsNetworkFailure(t *testing.T) {
	r := New("test")
	callee := &fakeConn{id: 1}
	caller := &fakeConn{id: 2}
	r.Join(callee)
	r.Join(caller)

	_, err := r.Register("ca.test.add", wampproto.MatchStrict, wampproto.InvokeSingle, callee)
	require.NoError(t, err)
	require.NoError(t, r.Call("ca.test.add", nil, nil, caller, 9))

	r.Leave(callee)

	require.Len(t, caller.sent, 1)
	errMsg := caller.sent[0].(wampproto.Error)
	require.Equal(t, wampproto.ErrNetworkFailure, errMsg.Reason)
	require.Equal(t, uint64(9), errMsg.RequestID)
}
