package router

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	ws "github.com/coder/websocket"
	"github.com/stretchr/testify/require"

	"github.com/ohyo-io/wampire/pkg/logging"
	"github.com/ohyo-io/wampire/pkg/wampproto"
)

type testClient struct {
	t    *testing.T
	conn *ws.Conn
	ctx  context.Context
}

func dial(t *testing.T, url string) *testClient {
	ctx := context.Background()
	conn, _, err := ws.Dial(ctx, url, &ws.DialOptions{Subprotocols: wampproto.Subprotocols()})
	require.NoError(t, err)
	return &testClient{t: t, conn: conn, ctx: ctx}
}

func (c *testClient) send(msg wampproto.Message) {
	data, err := wampproto.JSON.Encode(msg)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.Write(c.ctx, ws.MessageText, data))
}

func (c *testClient) recv() wampproto.Message {
	ctx, cancel := context.WithTimeout(c.ctx, 2*time.Second)
	defer cancel()
	_, data, err := c.conn.Read(ctx)
	require.NoError(c.t, err)
	msg, err := wampproto.JSON.Decode(data)
	require.NoError(c.t, err)
	return msg
}

func newTestServer(t *testing.T) (*Router, *httptest.Server) {
	r := New(logging.Nop(), nil)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return r, srv
}

func wsURL(httpURL string) string {
	return "ws" + httpURL[len("http"):]
}

func TestHelloWelcomeHandshake(t *testing.T) {
	_, srv := newTestServer(t)
	c := dial(t, wsURL(srv.URL))
	defer c.conn.Close(ws.StatusNormalClosure, "")

	c.send(wampproto.Hello{Realm: "wampire_realm", Details: wampproto.Dict{}})
	welcome, ok := c.recv().(wampproto.Welcome)
	require.True(t, ok)
	require.NotZero(t, welcome.Session)

	roles, ok := welcome.Details["roles"]
	require.True(t, ok, "WelcomeDetails must advertise roles")
	require.Contains(t, roles.Dict(), "broker")
	require.Contains(t, roles.Dict(), "dealer")
}

func TestPubSubRoundTrip(t *testing.T) {
	_, srv := newTestServer(t)

	sub := dial(t, wsURL(srv.URL))
	defer sub.conn.Close(ws.StatusNormalClosure, "")
	sub.send(wampproto.Hello{Realm: "r1", Details: wampproto.Dict{}})
	sub.recv()

	sub.send(wampproto.Subscribe{RequestID: 1, Options: wampproto.Dict{}, Topic: "com.example.test"})
	subscribed, ok := sub.recv().(wampproto.Subscribed)
	require.True(t, ok)
	require.NotZero(t, subscribed.SubscriptionID)

	pub := dial(t, wsURL(srv.URL))
	defer pub.conn.Close(ws.StatusNormalClosure, "")
	pub.send(wampproto.Hello{Realm: "r1", Details: wampproto.Dict{}})
	pub.recv()

	args := wampproto.List{wampproto.Int(42)}
	pub.send(wampproto.Publish{RequestID: 2, Options: wampproto.Dict{}, Topic: "com.example.test", Args: &args})

	event, ok := sub.recv().(wampproto.Event)
	require.True(t, ok)
	require.Equal(t, subscribed.SubscriptionID, event.SubscriptionID)
	require.Equal(t, args, *event.Args)
}

func TestRPCRoundTrip(t *testing.T) {
	_, srv := newTestServer(t)

	callee := dial(t, wsURL(srv.URL))
	defer callee.conn.Close(ws.StatusNormalClosure, "")
	callee.send(wampproto.Hello{Realm: "r1", Details: wampproto.Dict{}})
	callee.recv()

	callee.send(wampproto.Register{RequestID: 1, Options: wampproto.Dict{}, Procedure: "ca.test.add"})
	registered, ok := callee.recv().(wampproto.Registered)
	require.True(t, ok)

	caller := dial(t, wsURL(srv.URL))
	defer caller.conn.Close(ws.StatusNormalClosure, "")
	caller.send(wampproto.Hello{Realm: "r1", Details: wampproto.Dict{}})
	caller.recv()

	callArgs := wampproto.List{wampproto.Int(2), wampproto.Int(3)}
	caller.send(wampproto.Call{RequestID: 5, Options: wampproto.Dict{}, Procedure: "ca.test.add", Args: &callArgs})

	invocation, ok := callee.recv().(wampproto.Invocation)
	require.True(t, ok)
	require.Equal(t, registered.RegistrationID, invocation.RegistrationID)

	resultArgs := wampproto.List{wampproto.Int(5)}
	callee.send(wampproto.Yield{RequestID: invocation.RequestID, Options: wampproto.Dict{}, Args: &resultArgs})

	result, ok := caller.recv().(wampproto.Result)
	require.True(t, ok)
	require.Equal(t, uint64(5), result.RequestID)
	require.Equal(t, resultArgs, *result.Args)
}

func TestGoodbyeReplyAndClose(t *testing.T) {
	_, srv := newTestServer(t)
	c := dial(t, wsURL(srv.URL))
	defer c.conn.Close(ws.StatusNormalClosure, "")

	c.send(wampproto.Hello{Realm: "r1", Details: wampproto.Dict{}})
	c.recv()

	c.send(wampproto.Goodbye{Details: wampproto.Dict{}, Reason: wampproto.ErrCloseNormal})
	goodbye, ok := c.recv().(wampproto.Goodbye)
	require.True(t, ok)
	require.Equal(t, wampproto.ErrGoodbyeAndOut, goodbye.Reason)
}

func TestHelloRequiredFirst(t *testing.T) {
	_, srv := newTestServer(t)
	c := dial(t, wsURL(srv.URL))
	defer c.conn.Close(ws.StatusNormalClosure, "")

	c.send(wampproto.Goodbye{Details: wampproto.Dict{}, Reason: wampproto.ErrCloseNormal})
	abort, ok := c.recv().(wampproto.Abort)
	require.True(t, ok)
	require.Equal(t, wampproto.ErrInvalidArgument, abort.Reason)
}
