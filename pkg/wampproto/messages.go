package wampproto

// Message is implemented by every one of the 20 wire message variants.
type Message interface {
	// MessageType returns the variant's fixed wire tag (one of the MsgXxx
	// constants).
	MessageType() int
}

// Hello is sent Client -> Router to open a session on a realm.
type Hello struct {
	Realm   string
	Details Dict
}

func (Hello) MessageType() int { return MsgHello }

// Welcome is sent Router -> Client in reply to a successful Hello.
type Welcome struct {
	Session uint64
	Details Dict
}

func (Welcome) MessageType() int { return MsgWelcome }

// Abort is sent by either peer to reject a session before it is
// established.
type Abort struct {
	Details Dict
	Reason  ErrorURI
}

func (Abort) MessageType() int { return MsgAbort }

// Goodbye is sent by either peer to close an established session.
type Goodbye struct {
	Details Dict
	Reason  ErrorURI
}

func (Goodbye) MessageType() int { return MsgGoodbye }

// Error replies to a failed request of type RequestType (one of the
// request-carrying MsgXxx tags) identified by RequestID.
type Error struct {
	RequestType int
	RequestID   uint64
	Details     Dict
	Reason      ErrorURI
	Args        *List
	Kwargs      *Dict
}

func (Error) MessageType() int { return MsgError }

// Publish is sent Client -> Router to publish an event to a topic.
type Publish struct {
	RequestID uint64
	Options   Dict
	Topic     string
	Args      *List
	Kwargs    *Dict
}

func (Publish) MessageType() int { return MsgPublish }

// Published acknowledges a Publish sent with Options.acknowledge = true.
type Published struct {
	RequestID     uint64
	PublicationID uint64
}

func (Published) MessageType() int { return MsgPublished }

// Subscribe is sent Client -> Router to subscribe to a topic pattern.
type Subscribe struct {
	RequestID uint64
	Options   Dict
	Topic     string
}

func (Subscribe) MessageType() int { return MsgSubscribe }

// Subscribed acknowledges a Subscribe with the assigned subscription ID.
type Subscribed struct {
	RequestID      uint64
	SubscriptionID uint64
}

func (Subscribed) MessageType() int { return MsgSubscribed }

// Unsubscribe removes a previously established subscription.
type Unsubscribe struct {
	RequestID      uint64
	SubscriptionID uint64
}

func (Unsubscribe) MessageType() int { return MsgUnsubscribe }

// Unsubscribed acknowledges an Unsubscribe.
type Unsubscribed struct {
	RequestID uint64
}

func (Unsubscribed) MessageType() int { return MsgUnsubscribed }

// Event delivers a published event to a matching subscriber.
type Event struct {
	SubscriptionID uint64
	PublicationID  uint64
	Details        Dict
	Args           *List
	Kwargs         *Dict
}

func (Event) MessageType() int { return MsgEvent }

// Call invokes a registered procedure.
type Call struct {
	RequestID uint64
	Options   Dict
	Procedure string
	Args      *List
	Kwargs    *Dict
}

func (Call) MessageType() int { return MsgCall }

// Result carries the outcome of a successful Call.
type Result struct {
	RequestID uint64
	Details   Dict
	Args      *List
	Kwargs    *Dict
}

func (Result) MessageType() int { return MsgResult }

// Register is sent Client -> Router to register as a callee for a
// procedure pattern.
type Register struct {
	RequestID uint64
	Options   Dict
	Procedure string
}

func (Register) MessageType() int { return MsgRegister }

// Registered acknowledges a Register with the assigned registration ID.
type Registered struct {
	RequestID      uint64
	RegistrationID uint64
}

func (Registered) MessageType() int { return MsgRegistered }

// Unregister removes a previously established registration.
type Unregister struct {
	RequestID      uint64
	RegistrationID uint64
}

func (Unregister) MessageType() int { return MsgUnregister }

// Unregistered acknowledges an Unregister.
type Unregistered struct {
	RequestID uint64
}

func (Unregistered) MessageType() int { return MsgUnregistered }

// Invocation delivers a Call to the selected callee.
type Invocation struct {
	RequestID      uint64
	RegistrationID uint64
	Details        Dict
	Args           *List
	Kwargs         *Dict
}

func (Invocation) MessageType() int { return MsgInvocation }

// Yield returns the callee's result for an Invocation.
type Yield struct {
	RequestID uint64
	Options   Dict
	Args      *List
	Kwargs    *Dict
}

func (Yield) MessageType() int { return MsgYield }
