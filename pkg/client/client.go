package client

import (
	"context"
	"sync"
	"time"

	ws "github.com/coder/websocket"

	"github.com/ohyo-io/wampire/internal/idgen"
	"github.com/ohyo-io/wampire/pkg/wampproto"
)

// connectTimeout bounds how long Dial waits for Welcome after Hello
// (spec §4.6).
const connectTimeout = 5 * time.Second

type clientState int

const (
	stateConnecting clientState = iota
	stateConnected
	stateShuttingDown
	stateDisconnected
)

// EventHandler receives a delivered publication.
type EventHandler func(args *wampproto.List, kwargs *wampproto.Dict, details wampproto.Dict)

// InvocationHandler serves an incoming Call, returning the Yield payload
// or an error (ideally a wampproto.ErrorURI; any other error is reported
// as InvalidArgument).
type InvocationHandler func(args *wampproto.List, kwargs *wampproto.Dict) (*wampproto.List, *wampproto.Dict, error)

// Subscription identifies an active subscription.
type Subscription struct {
	ID    uint64
	Topic string
}

// Registration identifies an active procedure registration.
type Registration struct {
	ID        uint64
	Procedure string
}

// Result is a successful Call's payload.
type Result struct {
	Args   *wampproto.List
	Kwargs *wampproto.Dict
}

type outcome struct {
	msg wampproto.Message
	err error
}

// Client is one WAMP session's peer side: a WebSocket connection, a
// single background receive loop, and the request-ID-keyed completion
// tables the spec's operations post into.
type Client struct {
	conn  *ws.Conn
	codec wampproto.Codec

	ctx    context.Context
	cancel context.CancelFunc

	sendMu sync.Mutex
	seq    idgen.Sequence

	mu            sync.Mutex
	state         clientState
	sessionID     uint64
	pending       map[uint64]chan outcome
	subscriptions map[uint64]EventHandler
	registrations map[uint64]InvocationHandler

	helloDone chan outcome
}

// Dial opens a WebSocket connection to url, negotiates a WAMP
// sub-protocol, sends Hello for realm, and waits up to the connect
// timeout for Welcome.
func Dial(ctx context.Context, url, realm string) (*Client, error) {
	conn, _, err := ws.Dial(ctx, url, &ws.DialOptions{Subprotocols: wampproto.Subprotocols()})
	if err != nil {
		return nil, err
	}

	codec, ok := wampproto.ByName(conn.Subprotocol())
	if !ok {
		codec = wampproto.JSON
	}

	cctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		conn:          conn,
		codec:         codec,
		ctx:           cctx,
		cancel:        cancel,
		state:         stateConnecting,
		pending:       make(map[uint64]chan outcome),
		subscriptions: make(map[uint64]EventHandler),
		registrations: make(map[uint64]InvocationHandler),
		helloDone:     make(chan outcome, 1),
	}

	go c.readLoop()

	helloDetails := wampproto.Dict{}.WithClientRoles(wampproto.DefaultClientRoles())
	if err := c.send(wampproto.Hello{Realm: realm, Details: helloDetails}); err != nil {
		c.cancel()
		return nil, err
	}

	select {
	case o := <-c.helloDone:
		if o.err != nil {
			c.cancel()
			return nil, o.err
		}
		return c, nil
	case <-time.After(connectTimeout):
		c.cancel()
		return nil, ErrConnectTimeout{}
	}
}

func (c *Client) send(msg wampproto.Message) error {
	data, err := c.codec.Encode(msg)
	if err != nil {
		return err
	}
	wsType := ws.MessageText
	if c.codec.Name() == wampproto.MsgPack.Name() {
		wsType = ws.MessageBinary
	}
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	return c.conn.Write(c.ctx, wsType, data)
}

// nextRequestID allocates a fresh monotonic request ID and records ch as
// the completion handle for it.
func (c *Client) nextRequestID() (uint64, chan outcome) {
	id := c.seq.Next()
	ch := make(chan outcome, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	return id, ch
}

func (c *Client) await(ch chan outcome) (wampproto.Message, error) {
	select {
	case o := <-ch:
		return o.msg, o.err
	case <-c.ctx.Done():
		return nil, ErrDisconnected{}
	}
}

func (c *Client) readLoop() {
	defer c.cleanup()

	for {
		_, data, err := c.conn.Read(c.ctx)
		if err != nil {
			return
		}
		msg, err := c.codec.Decode(data)
		if err != nil {
			continue
		}
		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg wampproto.Message) {
	switch m := msg.(type) {
	case wampproto.Welcome:
		c.mu.Lock()
		c.sessionID = m.Session
		c.state = stateConnected
		c.mu.Unlock()
		c.helloDone <- outcome{msg: m}

	case wampproto.Abort:
		c.helloDone <- outcome{err: &CallError{Reason: m.Reason}}
		c.cancel()

	case wampproto.Subscribed:
		c.complete(m.RequestID, m, nil)
	case wampproto.Unsubscribed:
		c.complete(m.RequestID, m, nil)
	case wampproto.Published:
		c.complete(m.RequestID, m, nil)
	case wampproto.Registered:
		c.complete(m.RequestID, m, nil)
	case wampproto.Unregistered:
		c.complete(m.RequestID, m, nil)
	case wampproto.Result:
		c.complete(m.RequestID, m, nil)

	case wampproto.Error:
		c.complete(m.RequestID, nil, &CallError{Reason: m.Reason, Args: m.Args, Kwargs: m.Kwargs})

	case wampproto.Event:
		c.mu.Lock()
		handler := c.subscriptions[m.SubscriptionID]
		c.mu.Unlock()
		if handler != nil {
			handler(m.Args, m.Kwargs, m.Details)
		}

	case wampproto.Invocation:
		c.handleInvocation(m)

	case wampproto.Goodbye:
		c.mu.Lock()
		shuttingDown := c.state == stateShuttingDown
		c.state = stateDisconnected
		c.mu.Unlock()
		if !shuttingDown {
			_ = c.send(wampproto.Goodbye{Details: wampproto.Dict{}, Reason: wampproto.ErrGoodbyeAndOut})
		}
		c.cancel()
	}
}

func (c *Client) complete(requestID uint64, msg wampproto.Message, err error) {
	c.mu.Lock()
	ch, ok := c.pending[requestID]
	if ok {
		delete(c.pending, requestID)
	}
	c.mu.Unlock()
	if ok {
		ch <- outcome{msg: msg, err: err}
	}
}

func (c *Client) handleInvocation(m wampproto.Invocation) {
	c.mu.Lock()
	handler := c.registrations[m.RegistrationID]
	c.mu.Unlock()
	if handler == nil {
		_ = c.send(wampproto.Error{RequestType: wampproto.MsgInvocation, RequestID: m.RequestID, Details: wampproto.Dict{}, Reason: wampproto.ErrNoSuchProcedure})
		return
	}

	rargs, rkwargs, err := handler(m.Args, m.Kwargs)
	if err != nil {
		reason, ok := err.(wampproto.ErrorURI)
		if !ok {
			reason = wampproto.ErrInvalidArgument
		}
		_ = c.send(wampproto.Error{RequestType: wampproto.MsgInvocation, RequestID: m.RequestID, Details: wampproto.Dict{}, Reason: reason})
		return
	}
	_ = c.send(wampproto.Yield{RequestID: m.RequestID, Options: wampproto.Dict{}, Args: rargs, Kwargs: rkwargs})
}

func (c *Client) cleanup() {
	c.mu.Lock()
	c.state = stateDisconnected
	pending := c.pending
	c.pending = make(map[uint64]chan outcome)
	c.mu.Unlock()

	for _, ch := range pending {
		ch <- outcome{err: ErrDisconnected{}}
	}
}

// SessionID returns the session ID assigned by the router's Welcome.
func (c *Client) SessionID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Close terminates the connection without a Goodbye handshake.
func (c *Client) Close() error {
	c.cancel()
	return c.conn.Close(ws.StatusNormalClosure, "")
}
