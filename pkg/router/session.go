package router

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	ws "github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/ohyo-io/wampire/internal/idgen"
	"github.com/ohyo-io/wampire/pkg/realm"
	"github.com/ohyo-io/wampire/pkg/wampmetrics"
	"github.com/ohyo-io/wampire/pkg/wampproto"
)

// sessionState is the per-connection state machine spec §4.5 describes.
type sessionState int

const (
	stateInitializing sessionState = iota
	stateConnected
	stateShuttingDown
	stateDisconnected
)

// Session is one WebSocket connection's router-side state: the wire
// codec, the realm it joined (once Connected), and the small state
// machine governing which messages are legal to receive.
type Session struct {
	id      uint64
	debugID uuid.UUID

	conn  *ws.Conn
	codec wampproto.Codec

	ctx    context.Context
	cancel context.CancelFunc

	sendMu sync.Mutex

	mu    sync.RWMutex
	state sessionState
	realm *realm.Realm

	connectedAt      time.Time
	messagesSent     atomic.Int64
	messagesReceived atomic.Int64

	router  *Router
	log     *slog.Logger
	metrics *wampmetrics.Metrics
}

// Stats is the observability snapshot a running connection exposes,
// mirroring the teacher's own ConnectionInfo (pkg/websocket/types.go):
// when it connected, its realm (once joined), and message counts.
type Stats struct {
	ID               uint64
	RealmName        string
	ConnectedAt      time.Time
	MessagesSent     int64
	MessagesReceived int64
}

// Stats reports the current observability snapshot for this connection.
func (s *Session) Stats() Stats {
	return Stats{
		ID:               s.id,
		RealmName:        s.realmName(),
		ConnectedAt:      s.connectedAt,
		MessagesSent:     s.messagesSent.Load(),
		MessagesReceived: s.messagesReceived.Load(),
	}
}

// newSession builds a Session for an accepted WebSocket connection. The
// caller is responsible for running Session.serve in its own goroutine.
func newSession(r *Router, conn *ws.Conn, codec wampproto.Codec) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:          idgen.Random(),
		debugID:     uuid.New(),
		conn:        conn,
		codec:       codec,
		ctx:         ctx,
		cancel:      cancel,
		state:       stateInitializing,
		connectedAt: time.Now(),
		router:      r,
		log:         r.log,
		metrics:     r.metrics,
	}
}

// ID implements realm.Connection.
func (s *Session) ID() uint64 { return s.id }

// Send implements realm.Connection, encoding msg with the session's
// negotiated codec and writing it as a single WebSocket frame.
func (s *Session) Send(msg wampproto.Message) error {
	data, err := s.codec.Encode(msg)
	if err != nil {
		return err
	}

	wsType := ws.MessageText
	if s.codec.Name() == wampproto.MsgPack.Name() {
		wsType = ws.MessageBinary
	}

	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := s.conn.Write(s.ctx, wsType, data); err != nil {
		return err
	}
	s.messagesSent.Add(1)
	if s.metrics != nil {
		s.metrics.MessageSent(s.realmName())
	}
	return nil
}

func (s *Session) realmName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.realm == nil {
		return ""
	}
	return s.realm.Name
}

func (s *Session) getState() sessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) setState(st sessionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

func (s *Session) currentRealm() *realm.Realm {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.realm
}

// abort sends an Abort with reason and terminates the connection.
func (s *Session) abort(reason wampproto.ErrorURI, message string) {
	_ = s.Send(wampproto.Abort{Details: wampproto.Dict{}, Reason: reason})
	s.log.Warn("session aborted", "reason", reason, "detail", message, "debug_id", s.debugID)
	s.cancel()
}

// serve runs the per-connection read loop until the context is
// cancelled or the socket errors, then cleans the session out of its
// realm.
func (s *Session) serve() {
	defer s.cleanup()

	for {
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		_, data, err := s.conn.Read(s.ctx)
		if err != nil {
			return
		}

		msg, err := s.codec.Decode(data)
		if err != nil {
			s.handleDecodeError()
			return
		}
		s.messagesReceived.Add(1)
		if s.metrics != nil {
			s.metrics.MessageReceived(s.realmName())
		}

		s.dispatch(msg)

		if s.getState() == stateDisconnected {
			return
		}
	}
}

func (s *Session) handleDecodeError() {
	switch s.getState() {
	case stateInitializing, stateConnected:
		s.abort(wampproto.ErrInvalidArgument, "malformed or unknown message")
	default:
		s.cancel()
	}
}

// dispatch routes msg according to the state machine in spec §4.5.
func (s *Session) dispatch(msg wampproto.Message) {
	switch s.getState() {
	case stateInitializing:
		s.dispatchInitializing(msg)
	case stateConnected:
		s.dispatchConnected(msg)
	case stateShuttingDown:
		s.dispatchShuttingDown(msg)
	}
}

func (s *Session) dispatchInitializing(msg wampproto.Message) {
	hello, ok := msg.(wampproto.Hello)
	if !ok {
		s.abort(wampproto.ErrInvalidArgument, "expected Hello")
		return
	}

	r := s.router.realmFor(hello.Realm)
	s.mu.Lock()
	s.realm = r
	s.state = stateConnected
	s.mu.Unlock()

	r.Join(s)
	if s.metrics != nil {
		s.metrics.ConnectionJoined(r.Name)
	}

	details := wampproto.Dict{}.WithRouterRoles(wampproto.DefaultRouterRoles())
	_ = s.Send(wampproto.Welcome{Session: s.id, Details: details})
}

func (s *Session) dispatchConnected(msg wampproto.Message) {
	r := s.currentRealm()

	switch m := msg.(type) {
	case wampproto.Goodbye:
		s.setState(stateDisconnected)
		_ = s.Send(wampproto.Goodbye{Details: wampproto.Dict{}, Reason: wampproto.ErrGoodbyeAndOut})
		s.cancel()

	case wampproto.Subscribe:
		policy := m.Options.MatchPolicy()
		subID := r.Subscribe(m.Topic, policy, s)
		if s.metrics != nil {
			s.metrics.SubscriptionAdded(r.Name)
		}
		_ = s.Send(wampproto.Subscribed{RequestID: m.RequestID, SubscriptionID: subID})

	case wampproto.Unsubscribe:
		if err := r.Unsubscribe(m.SubscriptionID, s); err != nil {
			s.replyError(wampproto.MsgUnsubscribe, m.RequestID, err)
			return
		}
		if s.metrics != nil {
			s.metrics.SubscriptionRemoved(r.Name)
		}
		_ = s.Send(wampproto.Unsubscribed{RequestID: m.RequestID})

	case wampproto.Publish:
		ack := m.Options.Acknowledge()
		if err := r.Publish(m.Topic, m.Args, m.Kwargs, ack, s, m.RequestID); err != nil && ack {
			s.replyError(wampproto.MsgPublish, m.RequestID, err)
		}

	case wampproto.Register:
		policy := m.Options.MatchPolicy()
		invoke := m.Options.InvokePolicy()
		regID, err := r.Register(m.Procedure, policy, invoke, s)
		if err != nil {
			s.replyError(wampproto.MsgRegister, m.RequestID, err)
			return
		}
		if s.metrics != nil {
			s.metrics.RegistrationAdded(r.Name)
		}
		_ = s.Send(wampproto.Registered{RequestID: m.RequestID, RegistrationID: regID})

	case wampproto.Unregister:
		if err := r.Unregister(m.RegistrationID, s); err != nil {
			s.replyError(wampproto.MsgUnregister, m.RequestID, err)
			return
		}
		if s.metrics != nil {
			s.metrics.RegistrationRemoved(r.Name)
		}
		_ = s.Send(wampproto.Unregistered{RequestID: m.RequestID})

	case wampproto.Call:
		if s.metrics != nil {
			s.metrics.CallDispatched(r.Name)
		}
		if err := r.Call(m.Procedure, m.Args, m.Kwargs, s, m.RequestID); err != nil {
			if s.metrics != nil {
				s.metrics.CallFailed(r.Name)
			}
			s.replyError(wampproto.MsgCall, m.RequestID, err)
		}

	case wampproto.Yield:
		_ = r.Yield(m.RequestID, m.Args, m.Kwargs)

	case wampproto.Error:
		if s.metrics != nil {
			s.metrics.CallFailed(r.Name)
		}
		_ = r.InvocationError(m.RequestID, m.Reason, m.Args, m.Kwargs)

	default:
		s.abort(wampproto.ErrInvalidArgument, "unexpected message while connected")
	}
}

func (s *Session) dispatchShuttingDown(msg wampproto.Message) {
	if _, ok := msg.(wampproto.Goodbye); ok {
		s.setState(stateDisconnected)
		s.cancel()
	}
}

// replyError sends an Error reply in answer to a request of requestType
// that failed with err. err is expected to be a wampproto.ErrorURI (every
// pkg/realm operation returns one on failure); any other error is
// reported as InvalidArgument rather than leaking internal detail.
func (s *Session) replyError(requestType int, requestID uint64, err error) {
	reason, ok := err.(wampproto.ErrorURI)
	if !ok {
		reason = wampproto.ErrInvalidArgument
	}
	_ = s.Send(wampproto.Error{
		RequestType: requestType,
		RequestID:   requestID,
		Details:     wampproto.Dict{},
		Reason:      reason,
	})
}

func (s *Session) cleanup() {
	r := s.currentRealm()
	if r != nil {
		r.Leave(s)
		if s.metrics != nil {
			s.metrics.ConnectionLeft(r.Name)
		}
	}
	s.setState(stateDisconnected)
	_ = s.conn.Close(ws.StatusNormalClosure, "")
}
