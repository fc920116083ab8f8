package client

import "github.com/ohyo-io/wampire/pkg/wampproto"

func matchOptions(policy wampproto.MatchPolicy) wampproto.Dict {
	if policy == wampproto.MatchStrict {
		return wampproto.Dict{}
	}
	return wampproto.Dict{"match": wampproto.String(string(policy))}
}

// Subscribe subscribes to topic under policy, delivering each matching
// publication to handler on the client's single receive loop.
func (c *Client) Subscribe(topic string, policy wampproto.MatchPolicy, handler EventHandler) (Subscription, error) {
	reqID, ch := c.nextRequestID()
	if err := c.send(wampproto.Subscribe{RequestID: reqID, Options: matchOptions(policy), Topic: topic}); err != nil {
		return Subscription{}, err
	}
	msg, err := c.await(ch)
	if err != nil {
		return Subscription{}, err
	}
	sub := msg.(wampproto.Subscribed)

	c.mu.Lock()
	c.subscriptions[sub.SubscriptionID] = handler
	c.mu.Unlock()

	return Subscription{ID: sub.SubscriptionID, Topic: topic}, nil
}

// Unsubscribe cancels a previously established subscription.
func (c *Client) Unsubscribe(sub Subscription) error {
	reqID, ch := c.nextRequestID()
	if err := c.send(wampproto.Unsubscribe{RequestID: reqID, SubscriptionID: sub.ID}); err != nil {
		return err
	}
	if _, err := c.await(ch); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.subscriptions, sub.ID)
	c.mu.Unlock()
	return nil
}

// Register registers as a callee for procedure under matchPolicy,
// arbitrated by invokePolicy when shared, serving calls with handler.
func (c *Client) Register(procedure string, matchPolicy wampproto.MatchPolicy, invokePolicy wampproto.InvokePolicy, handler InvocationHandler) (Registration, error) {
	options := matchOptions(matchPolicy)
	if invokePolicy != wampproto.InvokeSingle {
		options = wampproto.Dict{"invoke": wampproto.String(string(invokePolicy))}
		if matchPolicy != wampproto.MatchStrict {
			options["match"] = wampproto.String(string(matchPolicy))
		}
	}

	reqID, ch := c.nextRequestID()
	if err := c.send(wampproto.Register{RequestID: reqID, Options: options, Procedure: procedure}); err != nil {
		return Registration{}, err
	}
	msg, err := c.await(ch)
	if err != nil {
		return Registration{}, err
	}
	reg := msg.(wampproto.Registered)

	c.mu.Lock()
	c.registrations[reg.RegistrationID] = handler
	c.mu.Unlock()

	return Registration{ID: reg.RegistrationID, Procedure: procedure}, nil
}

// Unregister removes a previously established registration.
func (c *Client) Unregister(reg Registration) error {
	reqID, ch := c.nextRequestID()
	if err := c.send(wampproto.Unregister{RequestID: reqID, RegistrationID: reg.ID}); err != nil {
		return err
	}
	if _, err := c.await(ch); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.registrations, reg.ID)
	c.mu.Unlock()
	return nil
}

// Publish fires a publication without acknowledgement (spec §4.6:
// "synchronous result (fire-and-forget)" — the only thing to wait on is
// the local send itself).
func (c *Client) Publish(topic string, args *wampproto.List, kwargs *wampproto.Dict) error {
	reqID := c.seq.Next()
	return c.send(wampproto.Publish{RequestID: reqID, Options: wampproto.Dict{}, Topic: topic, Args: args, Kwargs: kwargs})
}

// PublishAndAcknowledge fires a publication and waits for the router's
// Published reply, returning the assigned publication ID.
func (c *Client) PublishAndAcknowledge(topic string, args *wampproto.List, kwargs *wampproto.Dict) (uint64, error) {
	reqID, ch := c.nextRequestID()
	opts := wampproto.Dict{"acknowledge": wampproto.Bool(true)}
	if err := c.send(wampproto.Publish{RequestID: reqID, Options: opts, Topic: topic, Args: args, Kwargs: kwargs}); err != nil {
		return 0, err
	}
	msg, err := c.await(ch)
	if err != nil {
		return 0, err
	}
	return msg.(wampproto.Published).PublicationID, nil
}

// Call invokes procedure and waits for the result.
func (c *Client) Call(procedure string, args *wampproto.List, kwargs *wampproto.Dict) (*Result, error) {
	reqID, ch := c.nextRequestID()
	if err := c.send(wampproto.Call{RequestID: reqID, Options: wampproto.Dict{}, Procedure: procedure, Args: args, Kwargs: kwargs}); err != nil {
		return nil, err
	}
	msg, err := c.await(ch)
	if err != nil {
		return nil, err
	}
	res := msg.(wampproto.Result)
	return &Result{Args: res.Args, Kwargs: res.Kwargs}, nil
}

// Shutdown sends Goodbye and waits for the router's Goodbye reply. It
// fails immediately if a shutdown is already in progress.
func (c *Client) Shutdown() error {
	c.mu.Lock()
	if c.state == stateShuttingDown {
		c.mu.Unlock()
		return ErrShuttingDown{}
	}
	c.state = stateShuttingDown
	c.mu.Unlock()

	if err := c.send(wampproto.Goodbye{Details: wampproto.Dict{}, Reason: wampproto.ErrCloseNormal}); err != nil {
		return err
	}

	<-c.ctx.Done()
	return nil
}
