package wampproto

// RouterRoles describes the broker/dealer features a router advertises
// in WelcomeDetails.roles (spec §6), mirroring the original's
// messages::types::roles::RouterRoles.
type RouterRoles struct {
	Broker BrokerRole
	Dealer DealerRole
}

// BrokerRole is the broker half of RouterRoles.
type BrokerRole struct {
	PatternBasedSubscription bool
}

// DealerRole is the dealer half of RouterRoles.
type DealerRole struct {
	PatternBasedRegistration bool
}

// DefaultRouterRoles is the role set wamprouterd advertises: broker and
// dealer, both supporting wildcard/prefix pattern matching (the uritrie's
// MatchWildcard/MatchPrefix policies).
func DefaultRouterRoles() RouterRoles {
	return RouterRoles{
		Broker: BrokerRole{PatternBasedSubscription: true},
		Dealer: DealerRole{PatternBasedRegistration: true},
	}
}

// Dict encodes r the way WelcomeDetails.roles expects it on the wire.
func (r RouterRoles) Dict() Dict {
	return Dict{
		"broker": DictVal(Dict{
			"features": DictVal(Dict{
				"pattern_based_subscription": Bool(r.Broker.PatternBasedSubscription),
			}),
		}),
		"dealer": DictVal(Dict{
			"features": DictVal(Dict{
				"pattern_based_registration": Bool(r.Dealer.PatternBasedRegistration),
			}),
		}),
	}
}

// ClientRoles describes the publisher/subscriber/caller/callee features a
// peer advertises in HelloDetails.roles (spec §6), mirroring the
// original's messages::types::roles::ClientRoles.
type ClientRoles struct {
	Publisher  bool
	Subscriber SubscriberRole
	Caller     bool
	Callee     bool
}

// SubscriberRole is the subscriber half of ClientRoles.
type SubscriberRole struct {
	PatternBasedSubscription bool
}

// DefaultClientRoles is the role set pkg/client advertises: all four
// roles, with pattern-based subscription support.
func DefaultClientRoles() ClientRoles {
	return ClientRoles{
		Publisher:  true,
		Subscriber: SubscriberRole{PatternBasedSubscription: true},
		Caller:     true,
		Callee:     true,
	}
}

// Dict encodes r the way HelloDetails.roles expects it on the wire.
func (r ClientRoles) Dict() Dict {
	return Dict{
		"publisher": DictVal(Dict{}),
		"subscriber": DictVal(Dict{
			"features": DictVal(Dict{
				"pattern_based_subscription": Bool(r.Subscriber.PatternBasedSubscription),
			}),
		}),
		"caller": DictVal(Dict{}),
		"callee": DictVal(Dict{}),
	}
}

// WithRouterRoles returns a copy of d with "roles" set to r, for use in
// WelcomeDetails.
func (d Dict) WithRouterRoles(r RouterRoles) Dict {
	return d.withValue("roles", DictVal(r.Dict()))
}

// WithClientRoles returns a copy of d with "roles" set to r, for use in
// HelloDetails.
func (d Dict) WithClientRoles(r ClientRoles) Dict {
	return d.withValue("roles", DictVal(r.Dict()))
}

func (d Dict) withValue(key string, value Value) Dict {
	out := make(Dict, len(d)+1)
	for k, v := range d {
		out[k] = v
	}
	out[key] = value
	return out
}
