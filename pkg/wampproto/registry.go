package wampproto

// ByName returns the Codec for a negotiated WebSocket sub-protocol token,
// or ok=false if it names neither supported codec.
func ByName(name string) (Codec, bool) {
	switch name {
	case JSON.Name():
		return JSON, true
	case MsgPack.Name():
		return MsgPack, true
	default:
		return nil, false
	}
}

// Subprotocols lists the sub-protocol tokens this package supports, in
// the order a server should advertise them.
func Subprotocols() []string {
	return []string{JSON.Name(), MsgPack.Name()}
}
