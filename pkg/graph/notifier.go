package graph

// Subscription identifies one deletion listener so it can be removed again.
type Subscription uint64

type listener struct {
	sub Subscription
	fn  func(id string)
}

// notifier is the deletion channel embedded in every entity.
//
// fire marks the owner dead before calling anyone, hands the listener list
// to the loop and clears it. A second fire, including a re-entrant one from
// inside the cascade, finds the owner dead and returns without notifying.
type notifier struct {
	next      Subscription
	listeners []listener
	dead      bool
}

func (n *notifier) subscribe(fn func(id string)) Subscription {
	if n.dead {
		return 0
	}
	n.next++
	n.listeners = append(n.listeners, listener{sub: n.next, fn: fn})
	return n.next
}

func (n *notifier) unsubscribe(sub Subscription) {
	for i, l := range n.listeners {
		if l.sub == sub {
			n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)
			return
		}
	}
}

func (n *notifier) fire(id string) bool {
	if n.dead {
		return false
	}
	n.dead = true
	listeners := n.listeners
	n.listeners = nil
	for _, l := range listeners {
		l.fn(id)
	}
	return true
}
