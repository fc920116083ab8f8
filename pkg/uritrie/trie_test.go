package uritrie

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ohyo-io/wampire/pkg/wampproto"
)

type holder struct{ id uint64 }

func (h holder) ID() uint64 { return h.id }

func newTrie() (*Trie[holder], func() uint64) {
	var next uint64
	gen := func() uint64 {
		next++
		return next
	}
	return New[holder](gen), gen
}

func TestSubscribeSameIDAcrossSubscribers(t *testing.T) {
	tr, _ := newTrie()
	id1 := tr.Subscribe("com.example.test", MatchStrict, holder{1})
	id2 := tr.Subscribe("com.example.test", MatchStrict, holder{2})
	require.Equal(t, id1, id2)
}

func TestPublishOrder(t *testing.T) {
	tr, _ := newTrie()
	tr.Subscribe("com.example", MatchPrefix, holder{1})
	tr.Subscribe("com.example.test", MatchPrefix, holder{2})
	tr.Subscribe("com.example.test..topic", MatchWildcard, holder{3})
	tr.Subscribe("com.example.test.specific.topic", MatchStrict, holder{4})

	var got []uint64
	for m := range tr.Publish("com.example.test.specific.topic") {
		got = append(got, m.Holder.id)
	}

	require.Equal(t, []uint64{1, 2, 3, 4}, got)
}

func TestPublishWildcardSegmentCount(t *testing.T) {
	tr, _ := newTrie()
	tr.Subscribe("ca..topic.one", MatchWildcard, holder{1})

	var hit []uint64
	for m := range tr.Publish("ca.anything.topic.one") {
		hit = append(hit, m.Holder.id)
	}
	require.Equal(t, []uint64{1}, hit)

	var miss []uint64
	for m := range tr.Publish("ca.anything.topic.two") {
		miss = append(miss, m.Holder.id)
	}
	require.Empty(t, miss)
}

func TestPrefixSubscribeYieldsDescendant(t *testing.T) {
	tr, _ := newTrie()
	tr.Subscribe("com.example", MatchPrefix, holder{1})

	var got []Match[holder]
	for m := range tr.Publish("com.example.alpha") {
		got = append(got, m)
	}
	require.Len(t, got, 1)
	require.Equal(t, MatchPrefix, got[0].Policy)
	require.Equal(t, uint64(1), got[0].Holder.id)
}

func TestRPCPrecedence(t *testing.T) {
	tr, _ := newTrie()
	tr.Register("com.example", MatchPrefix, wampproto.InvokeSingle, holder{1})
	tr.Register("com.example.test", MatchPrefix, wampproto.InvokeSingle, holder{2})
	tr.Register("com.example.test..topic", MatchWildcard, wampproto.InvokeSingle, holder{3})
	_, err := tr.Register("com.example.test.specific.topic", MatchStrict, wampproto.InvokeSingle, holder{4})
	require.NoError(t, err)

	cases := []struct {
		uri  string
		want uint64
	}{
		{"com.example.test.specific.topic", 4},
		{"com.example.test.another.topic", 3},
		{"com.example.test.another", 2},
		{"com.example", 1},
	}
	for _, c := range cases {
		m, ok := tr.Lookup(c.uri)
		require.True(t, ok, c.uri)
		require.Equal(t, c.want, m.Holder.id, c.uri)
	}
}

func TestRegisterSingleConflict(t *testing.T) {
	tr, _ := newTrie()
	_, err := tr.Register("ca.test.add", MatchStrict, wampproto.InvokeSingle, holder{1})
	require.NoError(t, err)

	_, err = tr.Register("ca.test.add", MatchStrict, wampproto.InvokeSingle, holder{2})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestRegisterRoundRobinAllowsMultiple(t *testing.T) {
	tr, _ := newTrie()
	for i := uint64(1); i <= 3; i++ {
		_, err := tr.Register("ca.test.add", MatchStrict, wampproto.InvokeRoundRobin, holder{i})
		require.NoError(t, err)
	}

	var picks []uint64
	for i := 0; i < 4; i++ {
		m, ok := tr.Lookup("ca.test.add")
		require.True(t, ok)
		picks = append(picks, m.Holder.id)
	}
	require.Equal(t, []uint64{1, 2, 3, 1}, picks)
}

func TestUnregisterThenLookupMisses(t *testing.T) {
	tr, _ := newTrie()
	_, err := tr.Register("ca.test.mult", MatchStrict, wampproto.InvokeSingle, holder{1})
	require.NoError(t, err)

	require.NoError(t, tr.Unregister("ca.test.mult", MatchStrict, 1))

	_, ok := tr.Lookup("ca.test.mult")
	require.False(t, ok)
}

func TestUnregisterNotFound(t *testing.T) {
	tr, _ := newTrie()
	err := tr.Unregister("ca.test.mult", MatchStrict, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDisconnectCleanup(t *testing.T) {
	tr, _ := newTrie()
	tr.Subscribe("com.example.test", MatchStrict, holder{1})
	require.NoError(t, tr.Unsubscribe("com.example.test", MatchStrict, 1))

	var got []uint64
	for m := range tr.Publish("com.example.test") {
		got = append(got, m.Holder.id)
	}
	require.Empty(t, got)
}
