package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_DeduplicatesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (string, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "matches", loader)
			if err != nil {
				errCh <- err
				return
			}
			if v != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	store := NewStore[int](time.Second)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "scorers", 7)
	if v, ok := store.Get(context.Background(), "scorers"); !ok || v != 7 {
		t.Fatalf("expected cached 7, got %d ok=%v", v, ok)
	}

	now = now.Add(2 * time.Second)
	if _, ok := store.Get(context.Background(), "scorers"); ok {
		t.Fatalf("expected entry to expire")
	}
}

func TestStore_DeleteDuringLoadSkipsCaching(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	ctx := context.Background()

	v, err := store.GetOrLoad(ctx, "matches", func(ctx context.Context) (string, error) {
		store.Delete(ctx, "matches")
		return "stale", nil
	})
	if err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if v != "stale" {
		t.Fatalf("expected loaded value returned to caller, got %q", v)
	}
	if _, ok := store.Get(ctx, "matches"); ok {
		t.Fatalf("value loaded across an invalidation must not be cached")
	}
}

func TestStore_GetOrLoad_PropagatesError(t *testing.T) {
	t.Parallel()

	store := NewStore[string](time.Minute)
	_, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (string, error) {
		return "", errUnexpectedValue
	})
	if !errors.Is(err, errUnexpectedValue) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Fatalf("failed load must not populate cache")
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
