// Copyright (c) 2025 Asher Buk
// SPDX-License-Identifier: MIT

package session

import "sync"

// Broadcaster fans FeedbackState out to any number of subscribers. A slow
// or absent subscriber never blocks the controller: Publish sends
// non-blocking and a subscriber that falls behind simply observes the
// latest state on its next receive, never a backlog.
type Broadcaster struct {
	mu          sync.Mutex
	latest      FeedbackState
	subscribers map[chan FeedbackState]struct{}
}

// NewBroadcaster creates a Broadcaster seeded with the given initial state.
func NewBroadcaster(initial FeedbackState) *Broadcaster {
	return &Broadcaster{
		latest:      initial,
		subscribers: make(map[chan FeedbackState]struct{}),
	}
}

// Publish commits a new state and offers it to every current subscriber.
func (b *Broadcaster) Publish(s FeedbackState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.latest = s
	for ch := range b.subscribers {
		select {
		case ch <- s:
		default:
			// Subscriber is behind: replace its unread state with s so its
			// next receive observes the latest state, not a stale one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

// Latest returns the most recently committed state.
func (b *Broadcaster) Latest() FeedbackState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.latest
}

// Subscribe registers a new receiver channel and returns it along with an
// unsubscribe function the caller must invoke when done listening.
func (b *Broadcaster) Subscribe() (<-chan FeedbackState, func()) {
	ch := make(chan FeedbackState, 1)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	ch <- b.latest
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		delete(b.subscribers, ch)
		b.mu.Unlock()
	}
	return ch, cancel
}
