package client_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ohyo-io/wampire/pkg/client"
	"github.com/ohyo-io/wampire/pkg/logging"
	"github.com/ohyo-io/wampire/pkg/router"
	"github.com/ohyo-io/wampire/pkg/wampproto"
)

func newTestRouter(t *testing.T) string {
	r := router.New(logging.Nop(), nil)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return "ws" + srv.URL[len("http"):]
}

func dial(t *testing.T, url string) *client.Client {
	c, err := client.Dial(context.Background(), url, "wampire_realm")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestDialEstablishesSession(t *testing.T) {
	url := newTestRouter(t)
	c := dial(t, url)
	require.NotZero(t, c.SessionID())
}

func TestSubscribePublishDeliversEvent(t *testing.T) {
	url := newTestRouter(t)
	sub := dial(t, url)
	pub := dial(t, url)

	received := make(chan wampproto.List, 1)
	_, err := sub.Subscribe("com.example.test", wampproto.MatchStrict, func(args *wampproto.List, _ *wampproto.Dict, _ wampproto.Dict) {
		if args != nil {
			received <- *args
		}
	})
	require.NoError(t, err)

	args := wampproto.List{wampproto.Int(7)}
	require.NoError(t, pub.Publish("com.example.test", &args, nil))

	select {
	case got := <-received:
		require.Equal(t, args, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestCallRegisterRoundTrip(t *testing.T) {
	url := newTestRouter(t)
	callee := dial(t, url)
	caller := dial(t, url)

	_, err := callee.Register("ca.test.add", wampproto.MatchStrict, wampproto.InvokeSingle,
		func(args *wampproto.List, _ *wampproto.Dict) (*wampproto.List, *wampproto.Dict, error) {
			a, b := (*args)[0].Int(), (*args)[1].Int()
			result := wampproto.List{wampproto.Int(a + b)}
			return &result, nil, nil
		})
	require.NoError(t, err)

	args := wampproto.List{wampproto.Int(2), wampproto.Int(3)}
	res, err := caller.Call("ca.test.add", &args, nil)
	require.NoError(t, err)
	require.Equal(t, int64(5), (*res.Args)[0].Int())
}

func TestCallUnknownProcedureFails(t *testing.T) {
	url := newTestRouter(t)
	caller := dial(t, url)

	_, err := caller.Call("ca.test.missing", nil, nil)
	require.Error(t, err)
	var callErr *client.CallError
	require.ErrorAs(t, err, &callErr)
	require.Equal(t, wampproto.ErrNoSuchProcedure, callErr.Reason)
}

func TestShutdownCompletesOnGoodbye(t *testing.T) {
	url := newTestRouter(t)
	c := dial(t, url)

	done := make(chan error, 1)
	go func() { done <- c.Shutdown() }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown did not complete")
	}
}
