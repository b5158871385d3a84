package notify

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/cup-tracker/internal/domain/document"
)

// Broadcaster fans document snapshots out to subscribers. Each subscriber
// has a one-slot mailbox that always holds the newest undelivered snapshot,
// and versions never go backwards on a channel.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	latest map[string]document.Snapshot
	closed bool
}

type subscriber struct {
	ch   chan document.Snapshot
	last int64
	sent bool
}

func New() *Broadcaster {
	return &Broadcaster{
		subs:   make(map[string]map[*subscriber]struct{}),
		latest: make(map[string]document.Snapshot),
	}
}

// Subscribe registers a reader for key and primes it with current, or with
// a newer snapshot already published. The channel closes when ctx is done or
// the broadcaster is closed.
func (b *Broadcaster) Subscribe(ctx context.Context, key string, current document.Snapshot) <-chan document.Snapshot {
	sub := &subscriber{ch: make(chan document.Snapshot, 1)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch
	}

	initial := current
	if known, ok := b.latest[key]; ok && known.Version > current.Version {
		initial = known
	}
	initial.Key = key
	sub.offer(initial)

	if b.subs[key] == nil {
		b.subs[key] = make(map[*subscriber]struct{})
	}
	b.subs[key][sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if set, ok := b.subs[key]; ok {
			if _, live := set[sub]; live {
				delete(set, sub)
				close(sub.ch)
			}
			if len(set) == 0 {
				delete(b.subs, key)
			}
		}
	}()

	return sub.ch
}

// Publish delivers snap to every subscriber of its key. Snapshots older than
// the last published version are dropped.
func (b *Broadcaster) Publish(snap document.Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	if known, ok := b.latest[snap.Key]; ok && snap.Version <= known.Version {
		return
	}
	b.latest[snap.Key] = snap.Clone()

	for sub := range b.subs[snap.Key] {
		sub.offer(snap.Clone())
	}
}

// Keys lists keys that currently have subscribers.
func (b *Broadcaster) Keys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]string, 0, len(b.subs))
	for key := range b.subs {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for key, set := range b.subs {
		for sub := range set {
			close(sub.ch)
		}
		delete(b.subs, key)
	}
}

// offer must be called with the broadcaster lock held; it is the only
// sender on sub.ch.
func (s *subscriber) offer(snap document.Snapshot) {
	if s.sent && snap.Version <= s.last {
		return
	}
	select {
	case s.ch <- snap:
	default:
		select {
		case <-s.ch:
		default:
		}
		s.ch <- snap
	}
	s.last = snap.Version
	s.sent = true
}
