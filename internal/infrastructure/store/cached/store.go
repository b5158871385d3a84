package cached

import (
	"context"

	"github.com/riskibarqy/cup-tracker/internal/domain/document"
	basecache "github.com/riskibarqy/cup-tracker/internal/platform/cache"
)

const keyPrefix = "doc:"

// Store is a read-through cache in front of another document store. Local
// writes and change notifications both invalidate the cached key, so a
// cached read is at most one TTL behind writes made by other instances
// that have no notification path.
type Store struct {
	next  document.Store
	cache *basecache.Store[document.Snapshot]
}

func NewStore(next document.Store, cache *basecache.Store[document.Snapshot]) *Store {
	return &Store{next: next, cache: cache}
}

func (s *Store) Get(ctx context.Context, key string) (document.Snapshot, error) {
	snap, err := s.cache.GetOrLoad(ctx, keyPrefix+key, func(ctx context.Context) (document.Snapshot, error) {
		return s.next.Get(ctx, key)
	})
	if err != nil {
		return document.Snapshot{}, err
	}
	return snap.Clone(), nil
}

func (s *Store) Subscribe(ctx context.Context, key string) (<-chan document.Snapshot, error) {
	in, err := s.next.Subscribe(ctx, key)
	if err != nil {
		return nil, err
	}

	out := make(chan document.Snapshot, 1)
	go func() {
		defer close(out)
		for snap := range in {
			s.cache.Delete(ctx, keyPrefix+key)
			select {
			case out <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (s *Store) Write(ctx context.Context, key string, value []byte) error {
	return s.WriteMany(ctx, map[string][]byte{key: value})
}

func (s *Store) WriteMany(ctx context.Context, values map[string][]byte) error {
	err := s.next.WriteMany(ctx, values)

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, keyPrefix+key)
	}
	s.cache.Delete(ctx, keys...)

	return err
}

func (s *Store) Close() error {
	return s.next.Close()
}
