package document

import "context"

// Store is a key/value document store with whole-value writes and change
// feeds. Writes are last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) (Snapshot, error)
	// Subscribe delivers the current snapshot first, then every later one in
	// write order. A slow reader may skip intermediate versions but always
	// ends on the latest. The channel closes when ctx is done.
	Subscribe(ctx context.Context, key string) (<-chan Snapshot, error)
	Write(ctx context.Context, key string, value []byte) error
	// WriteMany replaces every listed key in one atomic step.
	WriteMany(ctx context.Context, values map[string][]byte) error
	Close() error
}
