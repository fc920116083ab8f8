package wampproto

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// MsgPack is the "wamp.2.msgpack" codec. Records with named fields
// (Details/Options/Kwargs) already encode as maps because Dict is
// map[string]Value (Args, a List of []Value, encodes as an array) — the
// struct-as-map requirement in spec §4.1 falls out of that representation
// without extra work.
var MsgPack Codec = msgpackCodec{}

type msgpackCodec struct{}

func (msgpackCodec) Name() string { return "wamp.2.msgpack" }

func (msgpackCodec) Encode(msg Message) ([]byte, error) {
	wire, err := toWire(msg)
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(wire)
}

func (msgpackCodec) Decode(data []byte) (Message, error) {
	var raw []interface{}
	if err := msgpack.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, ErrMalformed("empty message array")
	}
	tag := toInt(raw[0])
	rest := raw[1:]

	need := func(n int, what string) error {
		if len(rest) < n {
			return ErrMalformed(what)
		}
		return nil
	}

	switch tag {
	case MsgHello:
		if err := need(2, "HELLO requires realm, details"); err != nil {
			return nil, err
		}
		return Hello{Realm: toStringVal(rest[0]), Details: toDictVal(rest[1])}, nil

	case MsgWelcome:
		if err := need(2, "WELCOME requires session, details"); err != nil {
			return nil, err
		}
		return Welcome{Session: toUint64(rest[0]), Details: toDictVal(rest[1])}, nil

	case MsgAbort:
		if err := need(2, "ABORT requires details, reason"); err != nil {
			return nil, err
		}
		return Abort{Details: toDictVal(rest[0]), Reason: ErrorURI(toStringVal(rest[1]))}, nil

	case MsgGoodbye:
		if err := need(2, "GOODBYE requires details, reason"); err != nil {
			return nil, err
		}
		return Goodbye{Details: toDictVal(rest[0]), Reason: ErrorURI(toStringVal(rest[1]))}, nil

	case MsgError:
		if err := need(4, "ERROR requires request_type, request_id, details, reason"); err != nil {
			return nil, err
		}
		args, kwargs := msgpackTail(rest[4:])
		return Error{
			RequestType: toInt(rest[0]),
			RequestID:   toUint64(rest[1]),
			Details:     toDictVal(rest[2]),
			Reason:      ErrorURI(toStringVal(rest[3])),
			Args:        args,
			Kwargs:      kwargs,
		}, nil

	case MsgPublish:
		if err := need(3, "PUBLISH requires request_id, options, topic"); err != nil {
			return nil, err
		}
		args, kwargs := msgpackTail(rest[3:])
		return Publish{RequestID: toUint64(rest[0]), Options: toDictVal(rest[1]), Topic: toStringVal(rest[2]), Args: args, Kwargs: kwargs}, nil

	case MsgPublished:
		if err := need(2, "PUBLISHED requires request_id, publication_id"); err != nil {
			return nil, err
		}
		return Published{RequestID: toUint64(rest[0]), PublicationID: toUint64(rest[1])}, nil

	case MsgSubscribe:
		if err := need(3, "SUBSCRIBE requires request_id, options, topic"); err != nil {
			return nil, err
		}
		return Subscribe{RequestID: toUint64(rest[0]), Options: toDictVal(rest[1]), Topic: toStringVal(rest[2])}, nil

	case MsgSubscribed:
		if err := need(2, "SUBSCRIBED requires request_id, subscription_id"); err != nil {
			return nil, err
		}
		return Subscribed{RequestID: toUint64(rest[0]), SubscriptionID: toUint64(rest[1])}, nil

	case MsgUnsubscribe:
		if err := need(2, "UNSUBSCRIBE requires request_id, subscription_id"); err != nil {
			return nil, err
		}
		return Unsubscribe{RequestID: toUint64(rest[0]), SubscriptionID: toUint64(rest[1])}, nil

	case MsgUnsubscribed:
		if err := need(1, "UNSUBSCRIBED requires request_id"); err != nil {
			return nil, err
		}
		return Unsubscribed{RequestID: toUint64(rest[0])}, nil

	case MsgEvent:
		if err := need(3, "EVENT requires subscription_id, publication_id, details"); err != nil {
			return nil, err
		}
		args, kwargs := msgpackTail(rest[3:])
		return Event{SubscriptionID: toUint64(rest[0]), PublicationID: toUint64(rest[1]), Details: toDictVal(rest[2]), Args: args, Kwargs: kwargs}, nil

	case MsgCall:
		if err := need(3, "CALL requires request_id, options, procedure"); err != nil {
			return nil, err
		}
		args, kwargs := msgpackTail(rest[3:])
		return Call{RequestID: toUint64(rest[0]), Options: toDictVal(rest[1]), Procedure: toStringVal(rest[2]), Args: args, Kwargs: kwargs}, nil

	case MsgResult:
		if err := need(2, "RESULT requires request_id, details"); err != nil {
			return nil, err
		}
		args, kwargs := msgpackTail(rest[2:])
		return Result{RequestID: toUint64(rest[0]), Details: toDictVal(rest[1]), Args: args, Kwargs: kwargs}, nil

	case MsgRegister:
		if err := need(3, "REGISTER requires request_id, options, procedure"); err != nil {
			return nil, err
		}
		return Register{RequestID: toUint64(rest[0]), Options: toDictVal(rest[1]), Procedure: toStringVal(rest[2])}, nil

	case MsgRegistered:
		if err := need(2, "REGISTERED requires request_id, registration_id"); err != nil {
			return nil, err
		}
		return Registered{RequestID: toUint64(rest[0]), RegistrationID: toUint64(rest[1])}, nil

	case MsgUnregister:
		if err := need(2, "UNREGISTER requires request_id, registration_id"); err != nil {
			return nil, err
		}
		return Unregister{RequestID: toUint64(rest[0]), RegistrationID: toUint64(rest[1])}, nil

	case MsgUnregistered:
		if err := need(1, "UNREGISTERED requires request_id"); err != nil {
			return nil, err
		}
		return Unregistered{RequestID: toUint64(rest[0])}, nil

	case MsgInvocation:
		if err := need(3, "INVOCATION requires request_id, registration_id, details"); err != nil {
			return nil, err
		}
		args, kwargs := msgpackTail(rest[3:])
		return Invocation{RequestID: toUint64(rest[0]), RegistrationID: toUint64(rest[1]), Details: toDictVal(rest[2]), Args: args, Kwargs: kwargs}, nil

	case MsgYield:
		if err := need(2, "YIELD requires request_id, options"); err != nil {
			return nil, err
		}
		args, kwargs := msgpackTail(rest[2:])
		return Yield{RequestID: toUint64(rest[0]), Options: toDictVal(rest[1]), Args: args, Kwargs: kwargs}, nil

	default:
		return nil, ErrUnknownTag(tag)
	}
}

func toInt(x interface{}) int {
	switch v := x.(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float32:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}

func toUint64(x interface{}) uint64 {
	switch v := x.(type) {
	case int:
		return uint64(v)
	case int8:
		return uint64(v)
	case int16:
		return uint64(v)
	case int32:
		return uint64(v)
	case int64:
		return uint64(v)
	case uint:
		return uint64(v)
	case uint8:
		return uint64(v)
	case uint16:
		return uint64(v)
	case uint32:
		return uint64(v)
	case uint64:
		return v
	case float32:
		return uint64(v)
	case float64:
		return uint64(v)
	default:
		return 0
	}
}

func toStringVal(x interface{}) string {
	switch v := x.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func toDictVal(x interface{}) Dict {
	d := FromInterface(x).Dict()
	if d == nil {
		d = Dict{}
	}
	return d
}

func toListVal(x interface{}) List {
	l := FromInterface(x).List()
	if l == nil {
		l = List{}
	}
	return l
}

// msgpackTail decodes the optional trailing args/kwargs elements.
func msgpackTail(rest []interface{}) (*List, *Dict) {
	if len(rest) == 0 {
		return nil, nil
	}
	args := toListVal(rest[0])
	if len(rest) == 1 {
		return &args, nil
	}
	kwargs := toDictVal(rest[1])
	return &args, &kwargs
}
