package wampproto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRouterRolesDictShape(t *testing.T) {
	d := DefaultRouterRoles().Dict()

	broker := d["broker"].Dict()
	require.True(t, broker["features"].Dict()["pattern_based_subscription"].Bool())

	dealer := d["dealer"].Dict()
	require.True(t, dealer["features"].Dict()["pattern_based_registration"].Bool())
}

func TestClientRolesDictShape(t *testing.T) {
	d := DefaultClientRoles().Dict()

	require.Contains(t, d, "publisher")
	require.Contains(t, d, "caller")
	require.Contains(t, d, "callee")

	subscriber := d["subscriber"].Dict()
	require.True(t, subscriber["features"].Dict()["pattern_based_subscription"].Bool())
}

func TestWelcomeHelloRolesRoundTrip(t *testing.T) {
	welcome := Welcome{Session: 1, Details: Dict{}.WithRouterRoles(DefaultRouterRoles())}
	hello := Hello{Realm: "r1", Details: Dict{}.WithClientRoles(DefaultClientRoles())}

	for _, codec := range []Codec{JSON, MsgPack} {
		data, err := codec.Encode(welcome)
		require.NoError(t, err)
		decoded, err := codec.Decode(data)
		require.NoError(t, err)
		got, ok := decoded.(Welcome)
		require.True(t, ok)
		require.Contains(t, got.Details["roles"].Dict(), "broker")
		require.Contains(t, got.Details["roles"].Dict(), "dealer")

		data, err = codec.Encode(hello)
		require.NoError(t, err)
		decodedHello, err := codec.Decode(data)
		require.NoError(t, err)
		gotHello, ok := decodedHello.(Hello)
		require.True(t, ok)
		require.Contains(t, gotHello.Details["roles"].Dict(), "subscriber")
	}
}
