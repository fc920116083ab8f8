package realm

import (
	"github.com/ohyo-io/wampire/internal/idgen"
	"github.com/ohyo-io/wampire/pkg/uritrie"
	"github.com/ohyo-io/wampire/pkg/wampproto"
)

type pattern struct {
	topic  string
	policy wampproto.MatchPolicy
}

// SubscriptionManager is the broker half of a realm (spec §4.3).
type SubscriptionManager struct {
	trie *uritrie.Trie[Connection]

	// patterns maps a subscription ID (shared by every subscriber at the
	// same trie node) back to the topic/policy that produced it, needed
	// because Unsubscribe only carries the ID.
	patterns map[uint64]pattern

	// byConn tracks which patterns a given connection is subscribed to,
	// so a disconnect can remove all of them without the caller having
	// to remember its own subscriptions.
	byConn map[uint64]map[pattern]struct{}
}

// NewSubscriptionManager constructs an empty subscription manager.
func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		trie:     uritrie.New[Connection](idgen.Random),
		patterns: make(map[uint64]pattern),
		byConn:   make(map[uint64]map[pattern]struct{}),
	}
}

// Subscribe inserts subscriber under topic/policy, returning the
// subscription ID. Repeated subscriptions to the same topic/policy,
// regardless of subscriber, return the same ID (spec §4.2).
func (m *SubscriptionManager) Subscribe(topic string, policy wampproto.MatchPolicy, subscriber Connection) uint64 {
	id := m.trie.Subscribe(topic, policy, subscriber)
	p := pattern{topic: topic, policy: policy}
	m.patterns[id] = p

	conns, ok := m.byConn[subscriber.ID()]
	if !ok {
		conns = make(map[pattern]struct{})
		m.byConn[subscriber.ID()] = conns
	}
	conns[p] = struct{}{}
	return id
}

// Unsubscribe removes subscriber's entry for subscriptionID.
func (m *SubscriptionManager) Unsubscribe(subscriptionID uint64, subscriber Connection) error {
	p, ok := m.patterns[subscriptionID]
	if !ok {
		return wampproto.ErrNoSuchSubscription
	}
	if err := m.trie.Unsubscribe(p.topic, p.policy, subscriber.ID()); err != nil {
		return wampproto.ErrNoSuchSubscription
	}
	delete(m.byConn[subscriber.ID()], p)
	return nil
}

// Publish fans a publication out to every matching subscriber, excluding
// the publisher itself, and optionally acknowledges the publisher.
func (m *SubscriptionManager) Publish(topic string, args *wampproto.List, kwargs *wampproto.Dict, acknowledge bool, publisher Connection, requestID uint64) error {
	publicationID := idgen.Random()

	for match := range m.trie.Publish(topic) {
		if match.Holder.ID() == publisher.ID() {
			continue
		}
		details := wampproto.Dict{}
		if match.Policy != wampproto.MatchStrict {
			details = details.WithTopic(topic)
		}
		_ = match.Holder.Send(wampproto.Event{
			SubscriptionID: match.ID,
			PublicationID:  publicationID,
			Details:        details,
			Args:           args,
			Kwargs:         kwargs,
		})
	}

	if acknowledge {
		return publisher.Send(wampproto.Published{RequestID: requestID, PublicationID: publicationID})
	}
	return nil
}

// Disconnect removes every subscription belonging to subscriber.
func (m *SubscriptionManager) Disconnect(subscriber Connection) {
	for p := range m.byConn[subscriber.ID()] {
		_ = m.trie.Unsubscribe(p.topic, p.policy, subscriber.ID())
	}
	delete(m.byConn, subscriber.ID())
}
