package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/cup-tracker/internal/domain/document"
	"github.com/riskibarqy/cup-tracker/internal/infrastructure/store/notify"
)

// Store keeps documents in process memory.
type Store struct {
	mu   sync.RWMutex
	docs map[string]document.Snapshot
	hub  *notify.Broadcaster
}

func NewStore() *Store {
	return &Store{
		docs: make(map[string]document.Snapshot),
		hub:  notify.New(),
	}
}

func (s *Store) Get(_ context.Context, key string) (document.Snapshot, error) {
	if err := document.ValidateKey(key); err != nil {
		return document.Snapshot{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.docs[key]
	if !ok {
		return document.Snapshot{Key: key}, nil
	}
	return snap.Clone(), nil
}

func (s *Store) Subscribe(ctx context.Context, key string) (<-chan document.Snapshot, error) {
	current, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.hub.Subscribe(ctx, key, current), nil
}

func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	return s.WriteMany(ctx, map[string][]byte{key: value})
}

func (s *Store) WriteMany(_ context.Context, values map[string][]byte) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		if err := document.ValidateKey(key); err != nil {
			return err
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	written := make([]document.Snapshot, 0, len(keys))
	s.mu.Lock()
	for _, key := range keys {
		next := document.Snapshot{
			Key:     key,
			Value:   append([]byte(nil), values[key]...),
			Version: s.docs[key].Version + 1,
			Exists:  true,
		}
		s.docs[key] = next
		written = append(written, next)
	}
	s.mu.Unlock()

	for _, snap := range written {
		s.hub.Publish(snap)
	}
	return nil
}

func (s *Store) Close() error {
	s.hub.Close()
	return nil
}
