package wampproto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind identifies which alternative of the Value union is populated.
type Kind int

const (
	KindString Kind = iota
	KindInteger
	KindUnsignedInteger
	KindFloat
	KindBoolean
	KindList
	KindDict
	KindNull
)

// Value is the self-describing tagged union described in spec §3: a
// Dict, a List, a String, a signed Integer, an UnsignedInteger, a Float,
// or a Boolean. KindNull is what FromInterface produces for a nil input
// (e.g. a JSON null); it encodes back as null. The zero Value is an empty
// String, since KindString is the first Kind.
type Value struct {
	kind Kind
	str  string
	i64  int64
	u64  uint64
	f64  float64
	b    bool
	list List
	dict Dict
}

// List is an ordered sequence of Value, WAMP's "args".
type List []Value

// Dict is a string-keyed map of Value, WAMP's "kwargs"/options/details.
type Dict map[string]Value

func String(s string) Value          { return Value{kind: KindString, str: s} }
func Int(i int64) Value              { return Value{kind: KindInteger, i64: i} }
func Uint(u uint64) Value            { return Value{kind: KindUnsignedInteger, u64: u} }
func Float(f float64) Value          { return Value{kind: KindFloat, f64: f} }
func Bool(b bool) Value              { return Value{kind: KindBoolean, b: b} }
func ListOf(items ...Value) Value    { return Value{kind: KindList, list: List(items)} }
func ListVal(l List) Value           { return Value{kind: KindList, list: l} }
func DictVal(d Dict) Value           { return Value{kind: KindDict, dict: d} }

// Kind reports which alternative is populated.
func (v Value) Kind() Kind { return v.kind }

func (v Value) String() string    { return v.str }
func (v Value) Int() int64        { return v.i64 }
func (v Value) Uint() uint64      { return v.u64 }
func (v Value) Float() float64    { return v.f64 }
func (v Value) Bool() bool        { return v.b }
func (v Value) List() List        { return v.list }
func (v Value) Dict() Dict        { return v.dict }

// Equal reports whether two Values are structurally identical.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindInteger:
		return v.i64 == o.i64
	case KindUnsignedInteger:
		return v.u64 == o.u64
	case KindFloat:
		return v.f64 == o.f64
	case KindBoolean:
		return v.b == o.b
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(v.dict) != len(o.dict) {
			return false
		}
		for k, vv := range v.dict {
			ov, ok := o.dict[k]
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	case KindNull:
		return true
	default:
		return false
	}
}

// ToInterface converts a Value into a plain Go value (string, int64,
// uint64, float64, bool, []interface{}, map[string]interface{}, or nil),
// suitable for handing to client code or to a generic encoder.
func (v Value) ToInterface() interface{} {
	switch v.kind {
	case KindString:
		return v.str
	case KindInteger:
		return v.i64
	case KindUnsignedInteger:
		return v.u64
	case KindFloat:
		return v.f64
	case KindBoolean:
		return v.b
	case KindList:
		out := make([]interface{}, len(v.list))
		for i, item := range v.list {
			out[i] = item.ToInterface()
		}
		return out
	case KindDict:
		out := make(map[string]interface{}, len(v.dict))
		for k, item := range v.dict {
			out[k] = item.ToInterface()
		}
		return out
	default:
		return nil
	}
}

// FromInterface builds a Value from a plain Go value, applying the
// self-describing visitor rule from spec §4.1: integers that fit in an
// int64 become Integer, larger non-negative integers become
// UnsignedInteger, everything else numeric becomes Float.
func FromInterface(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return Value{kind: KindNull}
	case Value:
		return t
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return fromUint(uint64(t))
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint64:
		return fromUint(t)
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case json.Number:
		return fromJSONNumber(t)
	case []byte:
		return String(string(t))
	case []interface{}:
		items := make(List, len(t))
		for i, item := range t {
			items[i] = FromInterface(item)
		}
		return ListVal(items)
	case List:
		return ListVal(t)
	case []Value:
		return ListVal(List(t))
	case map[string]interface{}:
		d := make(Dict, len(t))
		for k, item := range t {
			d[k] = FromInterface(item)
		}
		return DictVal(d)
	case Dict:
		return DictVal(t)
	case map[string]Value:
		return DictVal(Dict(t))
	default:
		return String(fmt.Sprintf("%v", t))
	}
}

func fromUint(u uint64) Value {
	if u <= 1<<63-1 {
		return Int(int64(u))
	}
	return Uint(u)
}

func fromJSONNumber(n json.Number) Value {
	if i, err := n.Int64(); err == nil {
		return Int(i)
	}
	if u, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return Uint(u)
	}
	f, _ := n.Float64()
	return Float(f)
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.ToInterface())
}

// UnmarshalJSON implements json.Unmarshaler, preferring json.Number
// decoding so the Integer/UnsignedInteger/Float distinction can be made.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = FromInterface(raw)
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder, dispatching on the
// concrete Go type so the signed/unsigned/float distinction survives.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(v.ToInterface())
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterface()
	if err != nil {
		return err
	}
	*v = FromInterface(raw)
	return nil
}
