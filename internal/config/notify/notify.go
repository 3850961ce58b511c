// Package notify delivers configuration change notifications.
//
// Observers subscribe to every change or to a dot-separated path.
// A path subscription also receives changes below it, so "editor"
// receives "editor.tabWidth".
package notify

import (
	"sort"
	"strings"
	"sync"
)

// Change describes one setting that changed.
type Change struct {
	// Path is the dot-separated path of the setting.
	Path string

	// OldValue is the previous value.
	OldValue any

	// NewValue is the value now in effect.
	NewValue any

	// Source identifies where the change came from, e.g. a file path.
	Source string
}

// Observer is called for each change.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type subscriber struct {
	path     string // empty for all changes
	observer Observer
}

// Notifier manages change subscriptions. Delivery is synchronous on the
// goroutine calling Notify.
type Notifier struct {
	mu     sync.RWMutex
	subs   map[uint64]subscriber
	nextID uint64
	closed bool
}

// New creates a new Notifier.
func New() *Notifier {
	return &Notifier{subs: make(map[uint64]subscriber)}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.SubscribePath("", observer)
}

// SubscribePath registers an observer for path and every path below it.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subs[id] = subscriber{path: path, observer: observer}
	return &Subscription{id: id, notifier: n}
}

// Notify delivers each change to the matching observers, in order.
// Observers subscribed in ID order are called in that order.
func (n *Notifier) Notify(changes ...Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	ids := make([]uint64, 0, len(n.subs))
	for id := range n.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	subs := make([]subscriber, len(ids))
	for i, id := range ids {
		subs[i] = n.subs[id]
	}
	n.mu.RUnlock()

	// Call observers outside the lock
	for _, change := range changes {
		for _, s := range subs {
			if matches(s.path, change.Path) {
				s.observer(change)
			}
		}
	}
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subs)
}

// Close drops every subscription and ignores further notifications.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.subs = make(map[uint64]subscriber)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, id)
}

// matches reports whether a subscription to path covers a change at
// changed. "editor" covers "editor" and "editor.tabWidth" but not
// "editorial".
func matches(path, changed string) bool {
	if path == "" || path == changed {
		return true
	}
	return strings.HasPrefix(changed, path+".")
}
