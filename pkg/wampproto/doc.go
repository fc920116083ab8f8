// Package wampproto implements the WAMP v2 wire protocol: the self
// describing Value union, the 20-variant Message union, and JSON/MsgPack
// codecs for both.
//
// Every Message is framed as a tagged array whose first element is a
// numeric tag (see the MsgXxx constants). The trailing Args/Kwargs pair
// is variable arity and encoded per the rule in spec §4.1: omit both when
// absent, emit an empty-list placeholder before Kwargs when only Kwargs
// is present, otherwise emit whichever of the two is present in order.
package wampproto
