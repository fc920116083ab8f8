package client

import "github.com/ohyo-io/wampire/pkg/wampproto"

// CallError is returned by an operation the router answered with an
// Error message, carrying the reason URI and any accompanying payload.
type CallError struct {
	Reason wampproto.ErrorURI
	Args   *wampproto.List
	Kwargs *wampproto.Dict
}

func (e *CallError) Error() string { return string(e.Reason) }

// ErrShuttingDown is returned by Shutdown when called a second time.
type ErrShuttingDown struct{}

func (ErrShuttingDown) Error() string { return "client: shutdown already in progress" }

// ErrConnectTimeout is returned by Dial when the router doesn't answer
// Hello with Welcome within the connect timeout.
type ErrConnectTimeout struct{}

func (ErrConnectTimeout) Error() string { return "client: timed out waiting for welcome" }

// ErrDisconnected is delivered to every pending operation when the
// connection drops before the router replied.
type ErrDisconnected struct{}

func (ErrDisconnected) Error() string { return "client: connection closed" }
