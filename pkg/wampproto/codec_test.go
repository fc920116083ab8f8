package wampproto

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func samples() []Message {
	// Values kept within the int64 range: JSON is explicitly allowed to
	// coalesce Integer/UnsignedInteger (spec §3), so cross-codec
	// round-trip samples avoid the boundary where that coalescing would
	// make JSON and MsgPack disagree. TestMsgPackPreservesUnsignedInteger
	// below covers the boundary itself.
	args := List{String("a"), Int(1), Int(-7), Float(1.5), Bool(true)}
	kwargs := Dict{"k": String("v")}

	return []Message{
		Hello{Realm: "realm1", Details: Dict{"roles": DictVal(Dict{"subscriber": DictVal(Dict{})})}},
		Welcome{Session: 12345, Details: Dict{}},
		Abort{Details: Dict{}, Reason: ErrNoSuchRealm},
		Goodbye{Details: Dict{}, Reason: ErrCloseNormal},
		Error{RequestType: MsgCall, RequestID: 7, Details: Dict{}, Reason: ErrNoSuchProcedure, Args: &args, Kwargs: &kwargs},
		Error{RequestType: MsgCall, RequestID: 7, Details: Dict{}, Reason: ErrNoSuchProcedure},
		Publish{RequestID: 1, Options: Dict{}, Topic: "com.example.test", Args: &args},
		Publish{RequestID: 2, Options: Dict{}, Topic: "com.example.test"},
		Published{RequestID: 1, PublicationID: 99},
		Subscribe{RequestID: 1, Options: Dict{}, Topic: "com.example.test"},
		Subscribed{RequestID: 1, SubscriptionID: 55},
		Unsubscribe{RequestID: 1, SubscriptionID: 55},
		Unsubscribed{RequestID: 1},
		Event{SubscriptionID: 55, PublicationID: 99, Details: Dict{}, Args: &args, Kwargs: &kwargs},
		Call{RequestID: 9, Options: Dict{}, Procedure: "ca.test.add", Args: &args},
		Result{RequestID: 9, Details: Dict{}, Args: &args},
		Register{RequestID: 3, Options: Dict{}, Procedure: "ca.test.add"},
		Registered{RequestID: 3, RegistrationID: 77},
		Unregister{RequestID: 3, RegistrationID: 77},
		Unregistered{RequestID: 3},
		Invocation{RequestID: 3, RegistrationID: 77, Details: Dict{}, Args: &args, Kwargs: &kwargs},
		Yield{RequestID: 3, Options: Dict{}, Args: &args, Kwargs: &kwargs},
	}
}

func TestCodecRoundTrip(t *testing.T) {
	for _, codec := range []Codec{JSON, MsgPack} {
		for _, msg := range samples() {
			data, err := codec.Encode(msg)
			require.NoError(t, err)

			decoded, err := codec.Decode(data)
			require.NoError(t, err)
			require.Equal(t, msg, decoded, "codec=%s msg=%T", codec.Name(), msg)
		}
	}
}

func TestCodecUnknownTag(t *testing.T) {
	_, err := JSON.Decode([]byte(`[999, "x"]`))
	require.Error(t, err)
	require.IsType(t, ErrUnknownTag(0), err)

	data, err := msgpack.Marshal([]interface{}{999, "x"})
	require.NoError(t, err)
	_, err = MsgPack.Decode(data)
	require.Error(t, err)
	require.IsType(t, ErrUnknownTag(0), err)
}

func TestTailOptionalEncoding(t *testing.T) {
	none := Publish{RequestID: 1, Options: Dict{}, Topic: "t"}
	withArgs := List{Int(1)}
	withKwargsOnly := Dict{"x": Int(1)}

	onlyArgs := Publish{RequestID: 1, Options: Dict{}, Topic: "t", Args: &withArgs}
	onlyKwargs := Publish{RequestID: 1, Options: Dict{}, Topic: "t", Kwargs: &withKwargsOnly}
	both := Publish{RequestID: 1, Options: Dict{}, Topic: "t", Args: &withArgs, Kwargs: &withKwargsOnly}

	noneWire, err := toWire(none)
	require.NoError(t, err)
	require.Len(t, noneWire, 4) // tag, id, options, topic — no tail

	argsWire, err := toWire(onlyArgs)
	require.NoError(t, err)
	require.Len(t, argsWire, 5) // + args only

	kwargsWire, err := toWire(onlyKwargs)
	require.NoError(t, err)
	require.Len(t, kwargsWire, 6) // + empty-list sentinel + kwargs
	require.Equal(t, List{}, kwargsWire[4])

	bothWire, err := toWire(both)
	require.NoError(t, err)
	require.Len(t, bothWire, 6)
}

func TestMsgPackPreservesUnsignedInteger(t *testing.T) {
	huge := uint64(1)<<63 + 5 // exceeds int64 range either way
	args := List{Uint(huge)}
	msg := Call{RequestID: 1, Options: Dict{}, Procedure: "p", Args: &args}

	for _, codec := range []Codec{JSON, MsgPack} {
		data, err := codec.Encode(msg)
		require.NoError(t, err)
		decoded, err := codec.Decode(data)
		require.NoError(t, err)
		call, ok := decoded.(Call)
		require.True(t, ok)
		require.NotNil(t, call.Args)
		got := (*call.Args)[0]
		require.Equal(t, KindUnsignedInteger, got.Kind(), "codec=%s", codec.Name())
		require.Equal(t, huge, got.Uint(), "codec=%s", codec.Name())
	}
}

func TestValueFromInterfaceIntegerBoundary(t *testing.T) {
	small := FromInterface(int64(42))
	require.Equal(t, KindInteger, small.Kind())

	big := FromInterface(uint64(1) << 63)
	require.Equal(t, KindUnsignedInteger, big.Kind())

	f := FromInterface(1.5)
	require.Equal(t, KindFloat, f.Kind())
}
