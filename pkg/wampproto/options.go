package wampproto

// MatchPolicy selects how a topic/procedure pattern is matched against a
// concrete URI (spec §4.2, glossary).
type MatchPolicy string

const (
	MatchStrict   MatchPolicy = "strict"
	MatchWildcard MatchPolicy = "wildcard"
	MatchPrefix   MatchPolicy = "prefix"
)

// InvokePolicy selects which callee is picked when several are registered
// under the same non-Single pattern (spec §4.2, glossary).
type InvokePolicy string

const (
	InvokeSingle     InvokePolicy = "single"
	InvokeRoundRobin InvokePolicy = "roundrobin"
	InvokeRandom     InvokePolicy = "random"
	InvokeFirst      InvokePolicy = "first"
	InvokeLast       InvokePolicy = "last"
)

// GetString returns d[key] as a string, or "" if absent or not a string.
func (d Dict) GetString(key string) string {
	if v, ok := d[key]; ok && v.Kind() == KindString {
		return v.String()
	}
	return ""
}

// GetBool returns d[key] as a bool, or false if absent or not a bool.
func (d Dict) GetBool(key string) bool {
	if v, ok := d[key]; ok && v.Kind() == KindBoolean {
		return v.Bool()
	}
	return false
}

// MatchPolicy reads SubscribeOptions.match / RegisterOptions.match,
// defaulting to MatchStrict when absent (spec §6).
func (d Dict) MatchPolicy() MatchPolicy {
	switch MatchPolicy(d.GetString("match")) {
	case MatchWildcard:
		return MatchWildcard
	case MatchPrefix:
		return MatchPrefix
	default:
		return MatchStrict
	}
}

// InvokePolicy reads RegisterOptions.invoke, defaulting to InvokeSingle
// when absent (spec §6).
func (d Dict) InvokePolicy() InvokePolicy {
	switch InvokePolicy(d.GetString("invoke")) {
	case InvokeRoundRobin:
		return InvokeRoundRobin
	case InvokeRandom:
		return InvokeRandom
	case InvokeFirst:
		return InvokeFirst
	case InvokeLast:
		return InvokeLast
	default:
		return InvokeSingle
	}
}

// Acknowledge reads PublishOptions.acknowledge, defaulting to false.
func (d Dict) Acknowledge() bool {
	return d.GetBool("acknowledge")
}

// WithTopic returns a copy of d with the "topic" key set, used to expose
// the concrete URI on EventDetails for non-strict matches.
func (d Dict) WithTopic(topic string) Dict {
	return d.withString("topic", topic)
}

// WithProcedure returns a copy of d with the "procedure" key set, used to
// expose the concrete URI on InvocationDetails for non-strict matches.
func (d Dict) WithProcedure(procedure string) Dict {
	return d.withString("procedure", procedure)
}

func (d Dict) withString(key, value string) Dict {
	return d.withValue(key, String(value))
}
