package cached

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/cup-tracker/internal/domain/document"
	"github.com/riskibarqy/cup-tracker/internal/infrastructure/store/memory"
	basecache "github.com/riskibarqy/cup-tracker/internal/platform/cache"
)

type countingStore struct {
	*memory.Store
	gets atomic.Int32
}

func (c *countingStore) Get(ctx context.Context, key string) (document.Snapshot, error) {
	c.gets.Add(1)
	return c.Store.Get(ctx, key)
}

func TestStore_CachesUntilWrite(t *testing.T) {
	t.Parallel()

	next := &countingStore{Store: memory.NewStore()}
	store := NewStore(next, basecache.NewStore[document.Snapshot](time.Minute))
	ctx := context.Background()

	if err := store.Write(ctx, document.KeyMatches, []byte(`[1]`)); err != nil {
		t.Fatalf("write: %v", err)
	}

	for i := 0; i < 3; i++ {
		snap, err := store.Get(ctx, document.KeyMatches)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if string(snap.Value) != `[1]` {
			t.Fatalf("unexpected value %s", snap.Value)
		}
	}
	if got := next.gets.Load(); got != 1 {
		t.Fatalf("expected one backing read, got %d", got)
	}

	if err := store.Write(ctx, document.KeyMatches, []byte(`[1,2]`)); err != nil {
		t.Fatalf("write: %v", err)
	}
	snap, err := store.Get(ctx, document.KeyMatches)
	if err != nil {
		t.Fatalf("get after write: %v", err)
	}
	if string(snap.Value) != `[1,2]` || snap.Version != 2 {
		t.Fatalf("stale read after write: %+v", snap)
	}
}

func TestStore_SubscribeInvalidates(t *testing.T) {
	t.Parallel()

	backing := memory.NewStore()
	store := NewStore(backing, basecache.NewStore[document.Snapshot](time.Minute))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if _, err := store.Get(ctx, document.KeyScorers); err != nil {
		t.Fatalf("prime cache: %v", err)
	}

	ch, err := store.Subscribe(ctx, document.KeyScorers)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	<-ch

	// Written behind the cache, as another instance would.
	if err := backing.Write(ctx, document.KeyScorers, []byte(`[]`)); err != nil {
		t.Fatalf("backing write: %v", err)
	}

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatalf("no notification forwarded")
	}

	snap, err := store.Get(ctx, document.KeyScorers)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !snap.Exists {
		t.Fatalf("expected fresh snapshot after notification, got %+v", snap)
	}
}
