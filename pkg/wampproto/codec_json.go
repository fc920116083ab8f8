package wampproto

import "encoding/json"

// JSON is the "wamp.2.json" codec.
var JSON Codec = jsonCodec{}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "wamp.2.json" }

func (jsonCodec) Encode(msg Message) ([]byte, error) {
	wire, err := toWire(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire)
}

func (jsonCodec) Decode(data []byte) (Message, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err != nil {
		return nil, err
	}
	if len(arr) == 0 {
		return nil, ErrMalformed("empty message array")
	}
	var tag int
	if err := json.Unmarshal(arr[0], &tag); err != nil {
		return nil, err
	}
	rest := arr[1:]

	switch tag {
	case MsgHello:
		if len(rest) < 2 {
			return nil, ErrMalformed("HELLO requires realm, details")
		}
		realm, err := jsonString(rest[0])
		if err != nil {
			return nil, err
		}
		details, err := jsonDict(rest[1])
		if err != nil {
			return nil, err
		}
		return Hello{Realm: realm, Details: details}, nil

	case MsgWelcome:
		if len(rest) < 2 {
			return nil, ErrMalformed("WELCOME requires session, details")
		}
		session, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		details, err := jsonDict(rest[1])
		if err != nil {
			return nil, err
		}
		return Welcome{Session: session, Details: details}, nil

	case MsgAbort:
		if len(rest) < 2 {
			return nil, ErrMalformed("ABORT requires details, reason")
		}
		details, err := jsonDict(rest[0])
		if err != nil {
			return nil, err
		}
		reason, err := jsonString(rest[1])
		if err != nil {
			return nil, err
		}
		return Abort{Details: details, Reason: ErrorURI(reason)}, nil

	case MsgGoodbye:
		if len(rest) < 2 {
			return nil, ErrMalformed("GOODBYE requires details, reason")
		}
		details, err := jsonDict(rest[0])
		if err != nil {
			return nil, err
		}
		reason, err := jsonString(rest[1])
		if err != nil {
			return nil, err
		}
		return Goodbye{Details: details, Reason: ErrorURI(reason)}, nil

	case MsgError:
		if len(rest) < 4 {
			return nil, ErrMalformed("ERROR requires request_type, request_id, details, reason")
		}
		reqType, err := jsonInt(rest[0])
		if err != nil {
			return nil, err
		}
		reqID, err := jsonUint64(rest[1])
		if err != nil {
			return nil, err
		}
		details, err := jsonDict(rest[2])
		if err != nil {
			return nil, err
		}
		reason, err := jsonString(rest[3])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := jsonTail(rest[4:])
		if err != nil {
			return nil, err
		}
		return Error{RequestType: reqType, RequestID: reqID, Details: details, Reason: ErrorURI(reason), Args: args, Kwargs: kwargs}, nil

	case MsgPublish:
		if len(rest) < 3 {
			return nil, ErrMalformed("PUBLISH requires request_id, options, topic")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		options, err := jsonDict(rest[1])
		if err != nil {
			return nil, err
		}
		topic, err := jsonString(rest[2])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := jsonTail(rest[3:])
		if err != nil {
			return nil, err
		}
		return Publish{RequestID: reqID, Options: options, Topic: topic, Args: args, Kwargs: kwargs}, nil

	case MsgPublished:
		if len(rest) < 2 {
			return nil, ErrMalformed("PUBLISHED requires request_id, publication_id")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		pubID, err := jsonUint64(rest[1])
		if err != nil {
			return nil, err
		}
		return Published{RequestID: reqID, PublicationID: pubID}, nil

	case MsgSubscribe:
		if len(rest) < 3 {
			return nil, ErrMalformed("SUBSCRIBE requires request_id, options, topic")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		options, err := jsonDict(rest[1])
		if err != nil {
			return nil, err
		}
		topic, err := jsonString(rest[2])
		if err != nil {
			return nil, err
		}
		return Subscribe{RequestID: reqID, Options: options, Topic: topic}, nil

	case MsgSubscribed:
		if len(rest) < 2 {
			return nil, ErrMalformed("SUBSCRIBED requires request_id, subscription_id")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		subID, err := jsonUint64(rest[1])
		if err != nil {
			return nil, err
		}
		return Subscribed{RequestID: reqID, SubscriptionID: subID}, nil

	case MsgUnsubscribe:
		if len(rest) < 2 {
			return nil, ErrMalformed("UNSUBSCRIBE requires request_id, subscription_id")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		subID, err := jsonUint64(rest[1])
		if err != nil {
			return nil, err
		}
		return Unsubscribe{RequestID: reqID, SubscriptionID: subID}, nil

	case MsgUnsubscribed:
		if len(rest) < 1 {
			return nil, ErrMalformed("UNSUBSCRIBED requires request_id")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		return Unsubscribed{RequestID: reqID}, nil

	case MsgEvent:
		if len(rest) < 3 {
			return nil, ErrMalformed("EVENT requires subscription_id, publication_id, details")
		}
		subID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		pubID, err := jsonUint64(rest[1])
		if err != nil {
			return nil, err
		}
		details, err := jsonDict(rest[2])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := jsonTail(rest[3:])
		if err != nil {
			return nil, err
		}
		return Event{SubscriptionID: subID, PublicationID: pubID, Details: details, Args: args, Kwargs: kwargs}, nil

	case MsgCall:
		if len(rest) < 3 {
			return nil, ErrMalformed("CALL requires request_id, options, procedure")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		options, err := jsonDict(rest[1])
		if err != nil {
			return nil, err
		}
		procedure, err := jsonString(rest[2])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := jsonTail(rest[3:])
		if err != nil {
			return nil, err
		}
		return Call{RequestID: reqID, Options: options, Procedure: procedure, Args: args, Kwargs: kwargs}, nil

	case MsgResult:
		if len(rest) < 2 {
			return nil, ErrMalformed("RESULT requires request_id, details")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		details, err := jsonDict(rest[1])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := jsonTail(rest[2:])
		if err != nil {
			return nil, err
		}
		return Result{RequestID: reqID, Details: details, Args: args, Kwargs: kwargs}, nil

	case MsgRegister:
		if len(rest) < 3 {
			return nil, ErrMalformed("REGISTER requires request_id, options, procedure")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		options, err := jsonDict(rest[1])
		if err != nil {
			return nil, err
		}
		procedure, err := jsonString(rest[2])
		if err != nil {
			return nil, err
		}
		return Register{RequestID: reqID, Options: options, Procedure: procedure}, nil

	case MsgRegistered:
		if len(rest) < 2 {
			return nil, ErrMalformed("REGISTERED requires request_id, registration_id")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		regID, err := jsonUint64(rest[1])
		if err != nil {
			return nil, err
		}
		return Registered{RequestID: reqID, RegistrationID: regID}, nil

	case MsgUnregister:
		if len(rest) < 2 {
			return nil, ErrMalformed("UNREGISTER requires request_id, registration_id")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		regID, err := jsonUint64(rest[1])
		if err != nil {
			return nil, err
		}
		return Unregister{RequestID: reqID, RegistrationID: regID}, nil

	case MsgUnregistered:
		if len(rest) < 1 {
			return nil, ErrMalformed("UNREGISTERED requires request_id")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		return Unregistered{RequestID: reqID}, nil

	case MsgInvocation:
		if len(rest) < 3 {
			return nil, ErrMalformed("INVOCATION requires request_id, registration_id, details")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		regID, err := jsonUint64(rest[1])
		if err != nil {
			return nil, err
		}
		details, err := jsonDict(rest[2])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := jsonTail(rest[3:])
		if err != nil {
			return nil, err
		}
		return Invocation{RequestID: reqID, RegistrationID: regID, Details: details, Args: args, Kwargs: kwargs}, nil

	case MsgYield:
		if len(rest) < 2 {
			return nil, ErrMalformed("YIELD requires request_id, options")
		}
		reqID, err := jsonUint64(rest[0])
		if err != nil {
			return nil, err
		}
		options, err := jsonDict(rest[1])
		if err != nil {
			return nil, err
		}
		args, kwargs, err := jsonTail(rest[2:])
		if err != nil {
			return nil, err
		}
		return Yield{RequestID: reqID, Options: options, Args: args, Kwargs: kwargs}, nil

	default:
		return nil, ErrUnknownTag(tag)
	}
}

func jsonString(raw json.RawMessage) (string, error) {
	var s string
	err := json.Unmarshal(raw, &s)
	return s, err
}

func jsonInt(raw json.RawMessage) (int, error) {
	var i int
	err := json.Unmarshal(raw, &i)
	return i, err
}

func jsonUint64(raw json.RawMessage) (uint64, error) {
	var u uint64
	err := json.Unmarshal(raw, &u)
	return u, err
}

func jsonDict(raw json.RawMessage) (Dict, error) {
	var d Dict
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	if d == nil {
		d = Dict{}
	}
	return d, nil
}

func jsonList(raw json.RawMessage) (List, error) {
	var l List
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, err
	}
	if l == nil {
		l = List{}
	}
	return l, nil
}

// jsonTail decodes the optional trailing args/kwargs elements.
func jsonTail(rest []json.RawMessage) (*List, *Dict, error) {
	if len(rest) == 0 {
		return nil, nil, nil
	}
	args, err := jsonList(rest[0])
	if err != nil {
		return nil, nil, err
	}
	if len(rest) == 1 {
		return &args, nil, nil
	}
	kwargs, err := jsonDict(rest[1])
	if err != nil {
		return nil, nil, err
	}
	return &args, &kwargs, nil
}
