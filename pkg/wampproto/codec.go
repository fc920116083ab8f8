package wampproto

import "fmt"

// ErrUnknownTag is returned when decoding an array whose first element is
// not one of the known message tags.
type ErrUnknownTag int

func (e ErrUnknownTag) Error() string {
	return fmt.Sprintf("wampproto: unknown message tag %d", int(e))
}

// ErrMalformed is returned when a message array is missing a field the
// variant requires.
type ErrMalformed string

func (e ErrMalformed) Error() string { return "wampproto: malformed message: " + string(e) }

// Codec encodes and decodes Messages to and from a wire encoding. The two
// implementations, JSON and MsgPack, correspond 1:1 to the two supported
// WebSocket sub-protocols (spec §6).
type Codec interface {
	// Name is the WebSocket sub-protocol token, e.g. "wamp.2.json".
	Name() string
	Encode(msg Message) ([]byte, error)
	Decode(data []byte) (Message, error)
}

// toWire builds the ordered element list for msg: the tag, the fixed
// fields in declaration order, then the tail-optional args/kwargs pair
// per the encode rule in spec §4.1.
func toWire(msg Message) ([]interface{}, error) {
	switch m := msg.(type) {
	case Hello:
		return []interface{}{MsgHello, m.Realm, m.Details}, nil
	case Welcome:
		return []interface{}{MsgWelcome, m.Session, m.Details}, nil
	case Abort:
		return []interface{}{MsgAbort, m.Details, string(m.Reason)}, nil
	case Goodbye:
		return []interface{}{MsgGoodbye, m.Details, string(m.Reason)}, nil
	case Error:
		return appendTail([]interface{}{MsgError, m.RequestType, m.RequestID, m.Details, string(m.Reason)}, m.Args, m.Kwargs), nil
	case Publish:
		return appendTail([]interface{}{MsgPublish, m.RequestID, m.Options, m.Topic}, m.Args, m.Kwargs), nil
	case Published:
		return []interface{}{MsgPublished, m.RequestID, m.PublicationID}, nil
	case Subscribe:
		return []interface{}{MsgSubscribe, m.RequestID, m.Options, m.Topic}, nil
	case Subscribed:
		return []interface{}{MsgSubscribed, m.RequestID, m.SubscriptionID}, nil
	case Unsubscribe:
		return []interface{}{MsgUnsubscribe, m.RequestID, m.SubscriptionID}, nil
	case Unsubscribed:
		return []interface{}{MsgUnsubscribed, m.RequestID}, nil
	case Event:
		return appendTail([]interface{}{MsgEvent, m.SubscriptionID, m.PublicationID, m.Details}, m.Args, m.Kwargs), nil
	case Call:
		return appendTail([]interface{}{MsgCall, m.RequestID, m.Options, m.Procedure}, m.Args, m.Kwargs), nil
	case Result:
		return appendTail([]interface{}{MsgResult, m.RequestID, m.Details}, m.Args, m.Kwargs), nil
	case Register:
		return []interface{}{MsgRegister, m.RequestID, m.Options, m.Procedure}, nil
	case Registered:
		return []interface{}{MsgRegistered, m.RequestID, m.RegistrationID}, nil
	case Unregister:
		return []interface{}{MsgUnregister, m.RequestID, m.RegistrationID}, nil
	case Unregistered:
		return []interface{}{MsgUnregistered, m.RequestID}, nil
	case Invocation:
		return appendTail([]interface{}{MsgInvocation, m.RequestID, m.RegistrationID, m.Details}, m.Args, m.Kwargs), nil
	case Yield:
		return appendTail([]interface{}{MsgYield, m.RequestID, m.Options}, m.Args, m.Kwargs), nil
	default:
		return nil, fmt.Errorf("wampproto: unsupported message type %T", msg)
	}
}

// appendTail implements the tail-optional encode rule: omit both when
// absent, emit an empty-list sentinel before kwargs when only kwargs is
// present, otherwise emit whichever is present in order.
func appendTail(head []interface{}, args *List, kwargs *Dict) []interface{} {
	switch {
	case args == nil && kwargs == nil:
		return head
	case args == nil && kwargs != nil:
		return append(head, List{}, *kwargs)
	case args != nil && kwargs == nil:
		return append(head, *args)
	default:
		return append(head, *args, *kwargs)
	}
}
